package admin

type Admin struct {
	ID           string `json:"admin_id"`
	Name         string `json:"admin_name"`
	Email        string `json:"admin_email"`
	PasswordHash string `json:"-"`
}

// swagger:model AdminLoginRequest
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// swagger:model CreateAdminRequest
type CreateRequest struct {
	Name     string `json:"admin_name"`
	Email    string `json:"admin_email"`
	Password string `json:"password"`
}
