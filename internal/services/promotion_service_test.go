package services_test

import (
	"testing"

	"brutarie/internal/models"
	"brutarie/internal/repositories"
	"brutarie/internal/services"
	"brutarie/internal/validation"

	"github.com/stretchr/testify/assert"
)

func promotionFixture(t *testing.T) (*services.PromotionService, string) {
	t.Helper()
	productRepo := repositories.NewMockProductRepository()
	product := &models.Product{Name: "Croissant", Price: 12.5, Stock: 30}
	assert.NoError(t, productRepo.Create(product))
	return services.NewPromotionService(repositories.NewMockPromotionRepository(), productRepo), product.ID
}

func TestPromotionService_CreatePromotion(t *testing.T) {
	service, productID := promotionFixture(t)

	promotion, err := service.CreatePromotion(services.PromotionInput{
		Name:       "Summer Sale",
		ProductIDs: []string{productID},
		StartDate:  "2025-06-01",
		EndDate:    "2025-06-30",
		Discount:   25,
	})
	assert.NoError(t, err)
	assert.True(t, promotion.IsActive)
	assert.Len(t, promotion.Products, 1)
	assert.Equal(t, 25.0, promotion.Discount)
}

func TestPromotionService_CreatePromotionValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*services.PromotionInput)
		wantKey string
	}{
		{"discount above hundred", func(in *services.PromotionInput) { in.Discount = 101 }, "discount"},
		{"negative discount", func(in *services.PromotionInput) { in.Discount = -5 }, "discount"},
		{"start after end", func(in *services.PromotionInput) {
			in.StartDate, in.EndDate = in.EndDate, in.StartDate
		}, validation.NonFieldKey},
		{"start equals end", func(in *services.PromotionInput) { in.EndDate = in.StartDate }, validation.NonFieldKey},
		{"bad start date", func(in *services.PromotionInput) { in.StartDate = "01/06/2025" }, "start_date"},
		{"no products", func(in *services.PromotionInput) { in.ProductIDs = nil }, "product_ids"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, productID := promotionFixture(t)
			input := services.PromotionInput{
				Name:       "Summer Sale",
				ProductIDs: []string{productID},
				StartDate:  "2025-06-01",
				EndDate:    "2025-06-30",
				Discount:   25,
			}
			tt.mutate(&input)
			_, err := service.CreatePromotion(input)
			var fieldErrs validation.FieldErrors
			assert.ErrorAs(t, err, &fieldErrs)
			assert.Contains(t, fieldErrs, tt.wantKey)
		})
	}
}

func TestPromotionService_CreatePromotionUnknownProduct(t *testing.T) {
	service, _ := promotionFixture(t)

	_, err := service.CreatePromotion(services.PromotionInput{
		Name:       "Summer Sale",
		ProductIDs: []string{"no-such-product"},
		StartDate:  "2025-06-01",
		EndDate:    "2025-06-30",
		Discount:   25,
	})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
