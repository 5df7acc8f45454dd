// internal/domain/auth/dto.go
package auth

type LoginRequest struct {
	Username  string `json:"username" binding:"required"`
	Password  string `json:"password" binding:"required"`
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
	User      *User  `json:"user"`
}

type RegisterRequest struct {
	Username   string `json:"username" binding:"required,max=150"`
	Email      string `json:"email" binding:"omitempty,email"`
	FirstName  string `json:"first_name" binding:"max=150"`
	LastName   string `json:"last_name" binding:"max=150"`
	Password   string `json:"password" binding:"required,min=6"`
	Role       string `json:"role" binding:"required,oneof=member staff"`
	Phone      string `json:"phone" binding:"required,max=100"`
	Address    string `json:"address" binding:"required,max=255"`
	City       string `json:"kota" binding:"required,max=100"`
	PostalCode string `json:"kode_pos" binding:"required,max=100"`
	BirthPlace string `json:"tempat_lahir" binding:"required,max=100"`
	BirthDate  string `json:"tanggal_lahir" binding:"required,datetime=2006-01-02"`
}
