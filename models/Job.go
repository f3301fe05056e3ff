package models

import "gorm.io/gorm"

// Job posting statuses
const (
	JobStatusOpen    = "open"
	JobStatusClosed  = "closed"
	JobStatusFlagged = "flagged" // hidden by moderation
)

type Job struct {
	gorm.Model
	CompanyID      uint    `json:"companyID" gorm:"not null;index"`
	Company        Company `json:"company" gorm:"foreignKey:CompanyID;references:ID"`
	Title          string  `json:"title" gorm:"size:200;not null;index"`
	Description    string  `json:"description" gorm:"type:text;not null"`
	Location       string  `json:"location" gorm:"size:200;index"`
	EmploymentType string  `json:"employmentType" gorm:"size:30;index"` // full_time, part_time, contract, internship
	SalaryMin      *int    `json:"salaryMin"`
	SalaryMax      *int    `json:"salaryMax"`
	Remote         bool    `json:"remote" gorm:"default:false;index"`
	Status         string  `json:"status" gorm:"size:16;default:open;index"`

	Applications []Application `json:"applications,omitempty" gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE"`
}
