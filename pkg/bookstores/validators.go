package bookstores

// CreateBookstorePayload represents the request body for creating a bookstore.
type CreateBookstorePayload struct {
	Handle      *string `json:"handle" validate:"omitempty,handle"`
	Title       *string `json:"title" validate:"omitempty,max=100"`
	DisplayName *string `json:"display_name" validate:"omitempty,max=50"`
	Bio         *string `json:"bio"`
	Theme       *string `json:"theme" validate:"omitempty,max=30"`
}

// UpdateBookstorePayload represents the request body for updating a bookstore.
type UpdateBookstorePayload struct {
	Handle      *string `json:"handle" validate:"omitempty,handle"`
	Title       *string `json:"title" validate:"omitempty,max=100"`
	DisplayName *string `json:"display_name" validate:"omitempty,max=50"`
	Bio         *string `json:"bio"`
	Theme       *string `json:"theme" validate:"omitempty,max=30"`
}
