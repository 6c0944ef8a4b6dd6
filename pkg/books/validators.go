package books

// AddBookPayload represents the request body for adding a book to a shelf.
type AddBookPayload struct {
	BookstoreID int    `json:"bookstore_id" validate:"required"`
	Mode        string `json:"mode" validate:"required,oneof=isbn asin url"`
	ISBN        string `json:"isbn"`
	ASIN        string `json:"asin"`
	URL         string `json:"url"`

	Title    *string `json:"title" validate:"omitempty,max=200"`
	Author   *string `json:"author" validate:"omitempty,max=200"`
	ImageURL *string `json:"image_url" validate:"omitempty,max=2000"`

	Comment  *string `json:"comment" validate:"omitempty,max=500"`
	IsPublic *bool   `json:"is_public" default:"true"`
}
