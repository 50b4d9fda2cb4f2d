package payload

// UpdateUserRequest carries an explicit partial update: only non-nil fields
// are applied.
type UpdateUserRequest struct {
	Email    *string `json:"email"     validate:"omitempty,email"`
	Password *string `json:"password"  validate:"omitempty,min=8"`
	IsActive *bool   `json:"is_active"`
}
