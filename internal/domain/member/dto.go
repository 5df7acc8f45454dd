// internal/domain/member/dto.go
package member

type CreateMemberRequest struct {
	Name       string `json:"nama" binding:"required,max=100"`
	Address    string `json:"alamat" binding:"required"`
	BirthPlace string `json:"tempat_lahir" binding:"required,max=50"`
	BirthDay   int    `json:"tanggal_lahir" binding:"required,min=1,max=31"`
	BirthMonth int    `json:"bulan_lahir" binding:"required,min=1,max=12"`
	BirthYear  int    `json:"tahun_lahir" binding:"required,min=1900"`
	Phone      string `json:"phone" binding:"omitempty,max=15"`
	IsActive   *bool  `json:"is_active"`
}

type UpdateMemberRequest struct {
	Name       *string `json:"nama" binding:"omitempty,max=100"`
	Address    *string `json:"alamat"`
	BirthPlace *string `json:"tempat_lahir" binding:"omitempty,max=50"`
	BirthDay   *int    `json:"tanggal_lahir" binding:"omitempty,min=1,max=31"`
	BirthMonth *int    `json:"bulan_lahir" binding:"omitempty,min=1,max=12"`
	BirthYear  *int    `json:"tahun_lahir" binding:"omitempty,min=1900"`
	Phone      *string `json:"phone" binding:"omitempty,max=15"`
	IsActive   *bool   `json:"is_active"`
}

type ListFilters struct {
	Search string `form:"search"`
	Status string `form:"status" binding:"omitempty,oneof=active inactive"`
}
