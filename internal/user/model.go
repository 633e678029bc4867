package user

import "time"

type User struct {
	ID           string    `json:"user_id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	StudentCard  []byte    `json:"-"`
	Status       string    `json:"user_status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LoginRequest payload.
// swagger:model LoginRequest
type LoginRequest struct {
	Email    string `json:"email"    example:"jane@gmail.com"`
	Password string `json:"password" example:"s3cret"`
}

// UpdateRequest payload of profile update. Changing the password requires
// the current one.
// swagger:model UpdateUserRequest
type UpdateRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	OldPassword string `json:"old_password,omitempty"`
	NewPassword string `json:"new_password,omitempty"`
}
