package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CategoryID is the canonical category identifier used across the catalog.
// Source spreadsheets carry free-text category names; the importer maps them
// onto these identifiers before anything is persisted.
type CategoryID string

const (
	CategoryRefrigerator   CategoryID = "refrigerator"
	CategoryWasher         CategoryID = "washer"
	CategoryAirConditioner CategoryID = "air_conditioner"
	CategoryTV             CategoryID = "tv"
	CategoryMicrowave      CategoryID = "microwave"
	CategoryRobotVacuum    CategoryID = "robot_vacuum"
	CategoryWaterPurifier  CategoryID = "water_purifier"

	// CategoryUncategorized marks products the importer could not place.
	// Drafts in this category require operator review before approval.
	CategoryUncategorized CategoryID = "uncategorized"
)

// AllCategories lists every canonical category in display order.
var AllCategories = []CategoryID{
	CategoryRefrigerator,
	CategoryWasher,
	CategoryAirConditioner,
	CategoryTV,
	CategoryMicrowave,
	CategoryRobotVacuum,
	CategoryWaterPurifier,
	CategoryUncategorized,
}

func (c CategoryID) Valid() bool {
	for _, id := range AllCategories {
		if c == id {
			return true
		}
	}
	return false
}

type Category struct {
	ID       CategoryID `json:"id" gorm:"primaryKey;size:40"`
	Name     string     `json:"name" gorm:"not null;size:100"`
	NameKo   string     `json:"name_ko" gorm:"not null;size:100"`
	Position int        `json:"position" gorm:"default:0"`
}

func (Category) TableName() string {
	return "categories"
}

type ProductStatus string

const (
	ProductActive ProductStatus = "active"
	ProductHidden ProductStatus = "hidden"
)

type Product struct {
	ID uint `json:"id" gorm:"primaryKey"`

	Name          *string    `json:"name" gorm:"size:200" validate:"omitempty,max=200"`
	NameKo        string     `json:"name_ko" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Brand         *string    `json:"brand" gorm:"size:100;index" validate:"omitempty,max=100"`
	Description   *string    `json:"description" gorm:"type:text" validate:"omitempty,max=4000"`
	MonthlyPrice  float64    `json:"monthly_price" gorm:"not null" validate:"required,gt=0"`
	OriginalPrice *float64   `json:"original_price" validate:"omitempty,gt=0"`
	CategoryID    CategoryID `json:"category_id" gorm:"not null;size:40;index" validate:"required,category_id"`
	Rating        float64    `json:"rating" gorm:"default:4.5" validate:"gt=0,lte=5"`

	// Structured rental specification (period tiers, maintenance tiers,
	// features, colors, plus the free-form attribute bag from imports).
	Specs datatypes.JSON `json:"specs" gorm:"type:jsonb"`

	Status ProductStatus `json:"status" gorm:"default:active;index" validate:"omitempty,oneof=active hidden"`

	// SourceDraftID links back to the import draft this product came from.
	SourceDraftID *uint `json:"source_draft_id" gorm:"index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Category Category `json:"category" gorm:"foreignKey:CategoryID"`
}

func (Product) TableName() string {
	return "products"
}

// ProductSpecs is the typed shape stored in Product.Specs.
type ProductSpecs struct {
	RentalPeriods []RentalPeriodTier `json:"rental_periods,omitempty"`
	Maintenance   []MaintenanceTier  `json:"maintenance,omitempty"`
	Features      []string           `json:"features,omitempty"`
	Colors        []ColorSwatch      `json:"colors,omitempty"`
	Extra         SpecBag            `json:"extra,omitempty"`
}

type RentalPeriodTier struct {
	Months       int     `json:"months" validate:"required,min=1,max=120"`
	MonthlyPrice float64 `json:"monthly_price" validate:"required,gt=0"`
}

type MaintenanceTier struct {
	Name        string  `json:"name" validate:"required,max=100"`
	MonthlyFee  float64 `json:"monthly_fee" validate:"gte=0"`
	CycleMonths int     `json:"cycle_months" validate:"min=0,max=36"`
}

type ColorSwatch struct {
	Name string `json:"name" validate:"required,max=50"`
	Hex  string `json:"hex" validate:"omitempty,hexcolor"`
}
