package dto

// UpsertInsurerRequest creates or updates an insurance company.
type UpsertInsurerRequest struct {
	Name      string `json:"name" binding:"required"`
	IsEnabled bool   `json:"isEnabled"`
}

// UpsertDocumentRequest creates or updates a probatory-document catalog
// entry.
type UpsertDocumentRequest struct {
	Name        string `json:"name" binding:"required"`
	Orientation string `json:"orientation" binding:"required,oneof=portrait landscape"`
}

// CreateUserRequest creates a user account with an initial password.
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Role     string `json:"role" binding:"required,oneof=admin agent"`
	Password string `json:"password" binding:"required,min=8"`
}

// UpdateUserRequest updates user profile fields.
type UpdateUserRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required,oneof=admin agent"`
}
