package models

import (
	"time"

	"gorm.io/gorm"
)

type RentalStatus string

const (
	RentalRequested RentalStatus = "requested"
	RentalActive    RentalStatus = "active"
	RentalReturned  RentalStatus = "returned"
	RentalCancelled RentalStatus = "cancelled"
)

type Rental struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	UserID    string `json:"user_id" gorm:"not null;index;size:255" validate:"required"`
	ProductID uint   `json:"product_id" gorm:"not null;index" validate:"required"`

	MonthlyPrice float64 `json:"monthly_price" gorm:"not null" validate:"required,gt=0"`
	PeriodMonths int     `json:"period_months" gorm:"not null" validate:"required,min=1,max=120"`

	Status     RentalStatus `json:"status" gorm:"default:requested;index" validate:"omitempty,rental_status"`
	StartedAt  *time.Time   `json:"started_at"`
	ReturnedAt *time.Time   `json:"returned_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Product Product `json:"product" gorm:"foreignKey:ProductID"`
	User    User    `json:"user" gorm:"foreignKey:UserID"`
}

func (Rental) TableName() string {
	return "rentals"
}

type WishlistItem struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"not null;uniqueIndex:idx_wishlist_user_product;size:255" validate:"required"`
	ProductID uint      `json:"product_id" gorm:"not null;uniqueIndex:idx_wishlist_user_product" validate:"required"`
	CreatedAt time.Time `json:"created_at"`

	Product Product `json:"product" gorm:"foreignKey:ProductID"`
}

func (WishlistItem) TableName() string {
	return "wishlist_items"
}
