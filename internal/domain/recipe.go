package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recipe represents a user-owned recipe.
type Recipe struct {
	ID          string          `json:"id"`
	OwnerID     string          `json:"owner_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Minutes     int             `json:"minutes"` // Estimated preparation time
	Price       decimal.Decimal `json:"price"`   // Estimated cost, arbitrary currency
	Link        string          `json:"link,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Tags are the resolved tag rows attached to this recipe,
	// sorted by name. Populated by the store on reads.
	Tags []Tag `json:"tags"`
}

// Touch updates the UpdatedAt timestamp.
func (r *Recipe) Touch() {
	r.UpdatedAt = time.Now()
}

// TagNames returns the names of the attached tags, in order.
func (r *Recipe) TagNames() []string {
	names := make([]string, len(r.Tags))
	for i, t := range r.Tags {
		names[i] = t.Name
	}
	return names
}

// HasTag reports whether a tag with the given name is attached.
func (r *Recipe) HasTag(name string) bool {
	for _, t := range r.Tags {
		if t.Name == name {
			return true
		}
	}
	return false
}
