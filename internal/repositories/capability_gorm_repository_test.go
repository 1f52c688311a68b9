package repositories_test

import (
	"fmt"
	"strings"
	"testing"

	"brutarie/internal/models"
	"brutarie/internal/repositories"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openCapabilityDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)

	err = db.AutoMigrate(&models.Capability{}, &models.UserCapability{})
	assert.NoError(t, err)
	return db
}

func TestGORMCapabilityRepository_SeedIsRerunnable(t *testing.T) {
	db := openCapabilityDB(t)
	repo := repositories.NewGORMCapabilityRepository(db)

	registry := []models.Capability{
		{Codename: models.CapabilityViewOffer, Name: "Can view special offer"},
		{Codename: models.CapabilityAddProduct, Name: "Can add product"},
	}

	assert.NoError(t, repo.Seed(registry))
	// A second seed run, as on server restart, must reuse the existing rows.
	assert.NoError(t, repo.Seed(registry))

	var count int64
	assert.NoError(t, db.Model(&models.Capability{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	cap, err := repo.GetByCodename(models.CapabilityViewOffer)
	assert.NoError(t, err)
	assert.NotEmpty(t, cap.ID)
	assert.Equal(t, "Can view special offer", cap.Name)
}

func TestGORMCapabilityRepository_GrantIsIdempotent(t *testing.T) {
	db := openCapabilityDB(t)
	repo := repositories.NewGORMCapabilityRepository(db)

	err := repo.Seed([]models.Capability{
		{Codename: models.CapabilityViewOffer, Name: "Can view special offer"},
	})
	assert.NoError(t, err)

	cap, err := repo.GetByCodename(models.CapabilityViewOffer)
	assert.NoError(t, err)

	assert.NoError(t, repo.Grant("user-1", cap.ID))
	assert.NoError(t, repo.Grant("user-1", cap.ID))

	var count int64
	assert.NoError(t, db.Model(&models.UserCapability{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	has, err := repo.Has("user-1", cap.ID)
	assert.NoError(t, err)
	assert.True(t, has)
}

func TestGORMCapabilityRepository_RevokeThenGrantAgain(t *testing.T) {
	db := openCapabilityDB(t)
	repo := repositories.NewGORMCapabilityRepository(db)

	err := repo.Seed([]models.Capability{
		{Codename: models.CapabilityAddProduct, Name: "Can add product"},
	})
	assert.NoError(t, err)

	cap, err := repo.GetByCodename(models.CapabilityAddProduct)
	assert.NoError(t, err)

	assert.NoError(t, repo.Grant("user-1", cap.ID))
	assert.NoError(t, repo.Revoke("user-1", cap.ID))

	has, err := repo.Has("user-1", cap.ID)
	assert.NoError(t, err)
	assert.False(t, has)

	assert.NoError(t, repo.Grant("user-1", cap.ID))
	has, err = repo.Has("user-1", cap.ID)
	assert.NoError(t, err)
	assert.True(t, has)
}
