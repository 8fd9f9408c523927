package catalog

// ProductPayload is the JSON body for creating or updating a product.
// Pointer fields are omitted when nil so a partial update only touches the
// fields the caller set.
type ProductPayload struct {
	Name          *string  `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Slug          *string  `json:"slug,omitempty" validate:"omitempty,slug"`
	Description   *string  `json:"description,omitempty"`
	Price         *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
	Stock         *int     `json:"stock,omitempty" validate:"omitempty,gte=0"`
	BrandID       *int64   `json:"brands_id,omitempty" validate:"omitempty,gt=0"`
	CategoryID    *int64   `json:"categories_id,omitempty" validate:"omitempty,gt=0"`
	SubcategoryID *int64   `json:"subcategories_id,omitempty" validate:"omitempty,gt=0"`
	ImageURL      *string  `json:"image_url,omitempty" validate:"omitempty,url"`
	IsActive      *bool    `json:"is_active,omitempty"`
}

// NamedPayload is the JSON body for brand, category, and subcategory
// create/update operations. CategoryID is only meaningful for subcategories.
type NamedPayload struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Slug       *string `json:"slug,omitempty" validate:"omitempty,slug"`
	Image      *string `json:"image,omitempty" validate:"omitempty,url"`
	CategoryID *int64  `json:"categories_id,omitempty" validate:"omitempty,gt=0"`
}

// RegisterPayload is the JSON body for POST /auth/register.
// Role is optional; the backend assigns "user" when absent.
type RegisterPayload struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=admin user editor"`
}
