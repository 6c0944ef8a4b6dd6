package auth

// SignupPayload represents the signup request body.
type SignupPayload struct {
	Username string  `json:"username" validate:"required,min=3,max=50"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password string  `json:"password" validate:"required,min=8"`
}

// LoginPayload represents the login request body.
type LoginPayload struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8"`
}

// MeResponse represents the current user response.
type MeResponse struct {
	ID                 int     `json:"id"`
	Username           string  `json:"username"`
	Email              *string `json:"email,omitempty"`
	Handle             *string `json:"handle"`
	DisplayName        *string `json:"display_name"`
	AmazonAssociateTag *string `json:"amazon_associate_tag"`
	IsPro              bool    `json:"is_pro"`
}
