// Package catalog defines the storefront's view of backend catalog rows.
//
// These types are transport projections: the backend owns the data, the
// client only displays it. Relation fields (Brand, Category, Subcategory on
// Product) are populated only when the corresponding relation name was
// requested via the list query's Include expansion.
package catalog

import "time"

// Role is the access level assigned to a user account.
type Role string

const (
	// RoleAdmin grants full access to the admin panel.
	RoleAdmin Role = "admin"

	// RoleUser is the default role for storefront customers.
	RoleUser Role = "user"

	// RoleEditor can manage catalog entities but not users.
	RoleEditor Role = "editor"
)

// User is an account row as returned by the backend.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Name      string    `json:"name,omitempty"`
	Username  string    `json:"username,omitempty"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Brand is a product brand row.
type Brand struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Image string `json:"image,omitempty"`
}

// Category is a top-level catalog category row.
type Category struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Image string `json:"image,omitempty"`
}

// Subcategory is a catalog subcategory row. It references its parent
// category by CategoryID; Category is embedded when include=categories
// was requested.
type Subcategory struct {
	ID         int64     `json:"id"`
	CategoryID int64     `json:"categories_id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	Category   *Category `json:"categories,omitempty"`
}

// Product is a catalog product row. Foreign keys are always present when
// the backend selects them; the relation objects are embedded only for
// requested include expansions.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	ImageURL    string  `json:"image_url"`
	IsActive    bool    `json:"is_active"`
	CreatedAt   string  `json:"created_at,omitempty"`

	BrandID       int64 `json:"brands_id,omitempty"`
	CategoryID    int64 `json:"categories_id,omitempty"`
	SubcategoryID int64 `json:"subcategories_id,omitempty"`

	Brand       *Brand       `json:"brands,omitempty"`
	Category    *Category    `json:"categories,omitempty"`
	Subcategory *Subcategory `json:"subcategories,omitempty"`
}
