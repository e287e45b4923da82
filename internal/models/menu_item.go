package models

import (
	"time"

	"github.com/google/uuid"
)

type MenuItem struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	Price       float64   `json:"price" db:"price"`
	ImageURL    *string   `json:"image_url" db:"image_url"`
	Category    string    `json:"category" db:"category"`
	Available   bool      `json:"available" db:"available"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// MenuCategory groups menu items under their free-text category label.
// Categories exist for display grouping only; there is no category entity.
type MenuCategory struct {
	Name  string      `json:"name"`
	Items []*MenuItem `json:"items"`
}

// GroupByCategory buckets items by category, preserving the order in which
// categories first appear in the input slice.
func GroupByCategory(items []*MenuItem) []*MenuCategory {
	var categories []*MenuCategory
	index := make(map[string]int)
	for _, item := range items {
		i, ok := index[item.Category]
		if !ok {
			i = len(categories)
			index[item.Category] = i
			categories = append(categories, &MenuCategory{Name: item.Category})
		}
		categories[i].Items = append(categories[i].Items, item)
	}
	return categories
}
