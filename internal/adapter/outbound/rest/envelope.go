package rest

// Meta is the pagination block the backend attaches to list responses.
type Meta struct {
	Total       int `json:"total"`
	PerPage     int `json:"per_page"`
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
}

// Envelope is the uniform response wrapper every backend endpoint uses.
// Meta is nil for non-list endpoints.
type Envelope[T any] struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Data    T       `json:"data"`
	Meta    *Meta   `json:"meta,omitempty"`
	Error   *string `json:"error"`
}

// errorDetail returns the envelope's error string, or "" when null.
func (e *Envelope[T]) errorDetail() string {
	if e.Error == nil {
		return ""
	}
	return *e.Error
}

// Page is a decoded list result: the rows plus the pagination block when
// the backend sent one.
type Page[T any] struct {
	Items   []T
	Meta    *Meta
	Message string
}
