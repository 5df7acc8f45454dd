// internal/domain/trainer/dto.go
package trainer

type CreateTrainerRequest struct {
	Name             string `json:"nama" binding:"required,max=100"`
	Certification    string `json:"sertifikasi" binding:"required,max=200"`
	ExperienceMonths int    `json:"masa_kerja" binding:"min=0"`
	Phone            string `json:"phone" binding:"required,max=15"`
	Email            string `json:"email" binding:"required,email"`
	IsActive         *bool  `json:"is_active"`
}

type UpdateTrainerRequest struct {
	Name             *string `json:"nama" binding:"omitempty,max=100"`
	Certification    *string `json:"sertifikasi" binding:"omitempty,max=200"`
	ExperienceMonths *int    `json:"masa_kerja" binding:"omitempty,min=0"`
	Phone            *string `json:"phone" binding:"omitempty,max=15"`
	Email            *string `json:"email" binding:"omitempty,email"`
	IsActive         *bool   `json:"is_active"`
}
