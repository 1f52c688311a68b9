package services

import (
	"errors"
	"fmt"
	"log"
	"math/rand"

	"brutarie/internal/models"
	"brutarie/internal/repositories"
)

// BannerProbability is the chance that the special-offer banner shows on a
// given page load.
const BannerProbability = 0.3

// OfferService implements the permission-gated special offer: random banner
// exposure, idempotent claim, gate check, and revocation at logout.
type OfferService struct {
	caps repositories.CapabilityRepository

	// randFloat is swappable in tests; defaults to math/rand.
	randFloat func() float64
}

// NewOfferService creates a new OfferService.
func NewOfferService(caps repositories.CapabilityRepository) *OfferService {
	return &OfferService{
		caps:      caps,
		randFloat: rand.Float64,
	}
}

// ShowBanner samples a Bernoulli trial with p=0.3. The outcome is per-request
// and never persisted.
func (s *OfferService) ShowBanner() bool {
	return s.randFloat() < BannerProbability
}

// ClaimOffer grants the view_offer capability to the user. Claiming an
// already granted capability succeeds without a duplicate grant. A missing
// registry entry is a configuration fault surfaced to the caller.
func (s *OfferService) ClaimOffer(userID string) error {
	capability, err := s.caps.GetByCodename(models.CapabilityViewOffer)
	if err != nil {
		return err
	}
	if err := s.caps.Grant(userID, capability.ID); err != nil {
		return fmt.Errorf("failed to claim offer: %w", err)
	}
	return nil
}

// Has reports whether the user currently holds the named capability. An
// undefined capability is simply not held.
func (s *OfferService) Has(userID, codename string) (bool, error) {
	capability, err := s.caps.GetByCodename(codename)
	if err != nil {
		if errors.Is(err, repositories.ErrCapabilityUndefined) {
			return false, nil
		}
		return false, err
	}
	return s.caps.Has(userID, capability.ID)
}

// ReleaseOffer removes the view_offer grant if the user holds it. It is
// called at logout and must never block it: a missing registry entry or a
// revocation failure is logged and swallowed.
func (s *OfferService) ReleaseOffer(userID string) {
	capability, err := s.caps.GetByCodename(models.CapabilityViewOffer)
	if err != nil {
		log.Printf("Offer revocation skipped for user %s: %v", userID, err)
		return
	}
	if err := s.caps.Revoke(userID, capability.ID); err != nil {
		log.Printf("Failed to revoke offer for user %s: %v", userID, err)
	}
}
