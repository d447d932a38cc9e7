package models

import "time"

// Category groups products. Slug is derived from Name and unique.
type Category struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	Name        string    `json:"name" gorm:"type:varchar(100)" bson:"name"`
	Slug        string    `json:"slug" gorm:"uniqueIndex;type:varchar(120)" bson:"slug"`
	Description *string   `json:"description" bson:"description"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// CategoryCreate is the body of a category creation request.
type CategoryCreate struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

// CategoryUpdate holds the fields a partial update may change. Nil fields are left untouched.
type CategoryUpdate struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}
