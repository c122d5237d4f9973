package models

import "time"

// Category is the post taxonomy. Managed outside this service; the engine
// only reads it for referential checks and listing enrichment.
type Category struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:100;not null"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CategorySummary is the compact category view embedded in post listings.
type CategorySummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// ToSummary converts a category to its compact representation.
func (c *Category) ToSummary() CategorySummary {
	return CategorySummary{ID: c.ID, Name: c.Name}
}
