package models

import "time"

// Product represents an item of the catalog.
type Product struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	Name        string    `json:"name" gorm:"type:varchar(200)" bson:"name"`
	Description string    `json:"description" bson:"description"`
	Price       float64   `json:"price" bson:"price"`
	ImageURL    string    `json:"image_url" bson:"image_url"`
	CategoryIDs []string  `json:"category_ids" gorm:"serializer:json;type:text" bson:"category_ids"`
	IsActive    bool      `json:"is_active" bson:"is_active"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// HasCategory reports whether the product references categoryID.
func (p *Product) HasCategory(categoryID string) bool {
	for _, id := range p.CategoryIDs {
		if id == categoryID {
			return true
		}
	}
	return false
}

// ProductCreate is the body of a product creation request.
type ProductCreate struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=2000"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	ImageURL    string   `json:"image_url" validate:"max=1000"`
	CategoryIDs []string `json:"category_ids"`
}

// ProductUpdate holds the fields a partial update may change. Nil fields are left untouched.
type ProductUpdate struct {
	Name        *string   `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string   `json:"description" validate:"omitempty,max=2000"`
	Price       *float64  `json:"price" validate:"omitempty,gte=0"`
	ImageURL    *string   `json:"image_url" validate:"omitempty,max=1000"`
	CategoryIDs *[]string `json:"category_ids"`
	IsActive    *bool     `json:"is_active"`
}

// ProductFilter narrows a product listing.
type ProductFilter struct {
	Search     string
	CategoryID string
	ActiveOnly bool
}

// ProductWithCategories is a product enriched with the categories it references.
type ProductWithCategories struct {
	Product
	Categories []Category `json:"categories"`
}
