package users

// UpdateProfilePayload represents the request body for updating a profile.
type UpdateProfilePayload struct {
	Handle      *string `json:"handle" validate:"omitempty,handle"`
	DisplayName *string `json:"display_name" validate:"omitempty,max=50"`
}

// UpdateAccountPayload represents the request body for updating an account.
type UpdateAccountPayload struct {
	Email              *string `json:"email" validate:"omitempty,email"`
	CurrentPassword    *string `json:"current_password" validate:"omitempty,min=8"`
	NewPassword        *string `json:"new_password" validate:"omitempty,min=8"`
	AmazonAssociateTag *string `json:"amazon_associate_tag" validate:"omitempty,max=50"`
}
