package models

import (
	"time"

	"gorm.io/gorm"
)

// Promotion is a time-bounded discount applied to a set of products. The
// relation to products is non-owning: deleting a product only removes it from
// the join table, deleting a promotion leaves the products untouched.
type Promotion struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name       string    `json:"name" gorm:"type:varchar(100)"`
	Products   []Product `json:"products" gorm:"many2many:promotion_products"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	Discount   float64   `json:"discount"` // percent, in (0, 100]
	IsActive   bool      `json:"is_active" gorm:"default:true"`
	gorm.Model `json:"-"`
}

// Expired reports whether the promotion's end date has passed.
func (p *Promotion) Expired(now time.Time) bool {
	return p.EndDate.Before(now)
}
