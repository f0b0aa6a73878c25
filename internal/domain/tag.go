package domain

import "time"

// Tag represents a user-owned label for categorizing recipes.
// Tags are scoped to their owner: two users can each have a "vegan"
// tag and they are distinct rows. Name is unique per owner.
type Tag struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (t *Tag) Touch() {
	t.UpdatedAt = time.Now()
}

// RecipeTag represents the many-to-many relationship between recipes and tags.
// Both sides always belong to the same owner.
type RecipeTag struct {
	RecipeID  string    `json:"recipe_id"`
	TagID     string    `json:"tag_id"`
	CreatedAt time.Time `json:"created_at"`
}
