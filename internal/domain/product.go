package domain

import "time"

// Product is a catalogue item. Details is nil when the product has no description.
type Product struct {
	ID      int     `json:"id" db:"id"`
	Title   string  `json:"title" db:"c_title"`
	Details *string `json:"details" db:"c_details"`
}

// DetailsOrEmpty returns the details text, or "" when it is absent.
func (p Product) DetailsOrEmpty() string {
	if p.Details == nil {
		return ""
	}
	return *p.Details
}

// ManagerUser is an account allowed to sign in to the manager UI.
type ManagerUser struct {
	ID           int       `json:"id" db:"id"`
	Username     string    `json:"username" db:"c_username"`
	PasswordHash string    `json:"-" db:"c_password"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Scopes understood by the catalogue API.
const (
	ScopeViewCatalogue = "view_catalogue"
	ScopeEditCatalogue = "edit_catalogue"
)
