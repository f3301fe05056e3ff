package models

import "time"

// Application statuses
const (
	ApplicationStatusPending   = "pending"
	ApplicationStatusReviewed  = "reviewed"
	ApplicationStatusAccepted  = "accepted"
	ApplicationStatusRejected  = "rejected"
	ApplicationStatusWithdrawn = "withdrawn"
)

// Application is a seeker's application to a job. One per (job, seeker).
type Application struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	JobID    uint   `json:"jobID" gorm:"not null;uniqueIndex:idx_application_job_seeker"`
	Job      Job    `json:"job" gorm:"foreignKey:JobID"`
	SeekerID uint   `json:"seekerID" gorm:"not null;uniqueIndex:idx_application_job_seeker"`
	Seeker   Seeker `json:"seeker" gorm:"foreignKey:SeekerID"`

	CoverLetter string `json:"coverLetter" gorm:"type:text"`
	ResumeURL   string `json:"resumeURL" gorm:"size:512"`
	Status      string `json:"status" gorm:"size:16;default:pending;index"`

	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	RespondedAt *time.Time `json:"respondedAt"`
}
