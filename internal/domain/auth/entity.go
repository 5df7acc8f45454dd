// internal/domain/auth/entity.go
package auth

import "time"

const (
	RoleStaff  = "staff"
	RoleMember = "member"
)

// User is a login account. Staff manage the gym; members buy packages.
type User struct {
	ID           int64      `json:"id" db:"id"`
	Username     string     `json:"username" db:"username"`
	Email        string     `json:"email" db:"email"`
	FirstName    string     `json:"first_name" db:"first_name"`
	LastName     string     `json:"last_name" db:"last_name"`
	PasswordHash string     `json:"-" db:"password_hash"`
	IsStaff      bool       `json:"is_staff" db:"is_staff"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	DateJoined   time.Time  `json:"date_joined" db:"date_joined"`
	LastLogin    *time.Time `json:"last_login" db:"last_login"`

	Profile *Profile `json:"profile,omitempty" db:"-"`
}

// Roles returns the token roles for the user.
func (u *User) Roles() []string {
	if u.IsStaff {
		return []string{RoleStaff}
	}
	return []string{RoleMember}
}

// Profile carries the contact details collected at registration.
type Profile struct {
	UserID     int64  `json:"user" db:"user_id"`
	Phone      string `json:"phone" db:"phone"`
	Address    string `json:"address" db:"address"`
	City       string `json:"kota" db:"kota"`
	PostalCode string `json:"kode_pos" db:"kode_pos"`
	BirthPlace string `json:"tempat_lahir" db:"tempat_lahir"`
	BirthDate  string `json:"tanggal_lahir" db:"tanggal_lahir"`
	Role       string `json:"role" db:"role"`
	MemberID   *int64 `json:"member,omitempty" db:"member_id"`
	MemberCode string `json:"id_member,omitempty" db:"-"`
}
