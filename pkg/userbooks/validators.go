package userbooks

// UpdateUserBookPayload represents the request body for editing a shelf entry.
type UpdateUserBookPayload struct {
	Comment  *string `json:"comment" validate:"omitempty,max=500"`
	IsPublic *bool   `json:"is_public"`

	Title    *string `json:"title" validate:"omitempty,max=200"`
	Author   *string `json:"author" validate:"omitempty,max=200"`
	ImageURL *string `json:"image_url" validate:"omitempty,max=2000"`
}

// ReorderPayload represents the request body for reordering a shelf.
type ReorderPayload struct {
	BookstoreID int   `json:"bookstore_id" validate:"required"`
	UserBookIDs []int `json:"user_book_ids" validate:"required,min=1"`
}
