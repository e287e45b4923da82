// Package cart holds a table's in-progress selections before they become a
// persisted order. Carts are transient: they live in Redis with a TTL and are
// cleared only when a submission commits.
package cart

import (
	"github.com/google/uuid"

	"tableside/internal/models"
)

// Item is one menu item x quantity entry in a cart. Name and UnitPrice are
// copied from the menu item when it is first added, so a later price edit does
// not change an entry already in the cart.
type Item struct {
	ID         uuid.UUID `json:"id"`
	MenuItemID uuid.UUID `json:"menu_item_id"`
	Name       string    `json:"name"`
	UnitPrice  float64   `json:"unit_price"`
	Quantity   int       `json:"quantity"`
	Notes      *string   `json:"notes,omitempty"`
}

type Cart struct {
	TableNumber string  `json:"table_number"`
	Items       []*Item `json:"items"`
}

func New(tableNumber string) *Cart {
	return &Cart{TableNumber: tableNumber}
}

// Add puts one unit of the menu item into the cart. If an entry for that menu
// item already exists its quantity is incremented; otherwise a new entry is
// appended with quantity 1 and the item's current price captured.
func (c *Cart) Add(menuItem *models.MenuItem) *Item {
	for _, item := range c.Items {
		if item.MenuItemID == menuItem.ID {
			item.Quantity++
			return item
		}
	}
	item := &Item{
		ID:         uuid.New(),
		MenuItemID: menuItem.ID,
		Name:       menuItem.Name,
		UnitPrice:  menuItem.Price,
		Quantity:   1,
	}
	c.Items = append(c.Items, item)
	return item
}

// UpdateQuantity replaces an entry's quantity in place. Quantities below 1 are
// a no-op; callers that want the entry gone must call Remove. Returns false
// when no entry with the given line ID exists.
func (c *Cart) UpdateQuantity(lineID uuid.UUID, quantity int) bool {
	if quantity < 1 {
		return false
	}
	for _, item := range c.Items {
		if item.ID == lineID {
			item.Quantity = quantity
			return true
		}
	}
	return false
}

// Remove deletes an entry from the cart. Returns false when no entry with the
// given line ID exists.
func (c *Cart) Remove(lineID uuid.UUID) bool {
	for i, item := range c.Items {
		if item.ID == lineID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

// Total sums unit price times quantity over all entries. It is recomputed on
// every call; cart sizes are small and bounded by manual entry.
func (c *Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.UnitPrice * float64(item.Quantity)
	}
	return total
}

// Size returns the total number of units across all entries.
func (c *Cart) Size() int {
	var n int
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// IsEmpty reports whether the cart has no entries.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
