package models

import "gorm.io/gorm"

// Category groups products. Deleting a category cascades to its products.
type Category struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string `json:"name" gorm:"type:varchar(100)"`
	Description string `json:"description"`
	gorm.Model  `json:"-"`
}

// Product represents a bakery product.
type Product struct {
	ID          string   `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string   `json:"name" gorm:"uniqueIndex;type:varchar(100)"`
	CategoryID  string   `json:"category_id" gorm:"type:varchar(36)"`
	Category    Category `json:"category" gorm:"constraint:OnDelete:CASCADE"`
	Price       float64  `json:"price"`
	Stock       int      `json:"stock"`
	Description string   `json:"description"`
	Calories    int      `json:"calories"`  // kcal per 100g, multiple of 5
	Allergens   string   `json:"allergens"` // comma-separated, at most 5
	gorm.Model  `json:"-"`
}

// Bakery is a physical store location.
type Bakery struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name       string `json:"name" gorm:"type:varchar(100)"`
	Location   string `json:"location" gorm:"type:varchar(100)"`
	OpenedAt   string `json:"opened_at" gorm:"type:varchar(10)"` // YYYY-MM-DD
	gorm.Model `json:"-"`
}

// Employee works at a bakery. Age must be between 18 and 70.
type Employee struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	BakeryID   string `json:"bakery_id" gorm:"type:varchar(36)"`
	Bakery     Bakery `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Name       string `json:"name" gorm:"type:varchar(100)"`
	Age        int    `json:"age"`
	JobTitle   string `json:"job_title" gorm:"type:varchar(100)"`
	gorm.Model `json:"-"`
}

// Vehicle belongs to a bakery's delivery fleet.
type Vehicle struct {
	ID              string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	BakeryID        string `json:"bakery_id" gorm:"type:varchar(36)"`
	Bakery          Bakery `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Brand           string `json:"brand" gorm:"type:varchar(100)"`
	ManufactureYear int    `json:"manufacture_year"`
	PurchaseDate    string `json:"purchase_date" gorm:"type:varchar(10)"`
	gorm.Model      `json:"-"`
}
