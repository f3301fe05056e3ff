package models

import (
	"time"
)

// Verification statuses. A company with no verification row is "unverified";
// that state is never stored.
const (
	VerificationStatusUnverified = "unverified"
	VerificationStatusPending    = "pending"
	VerificationStatusVerified   = "verified"
	VerificationStatusRejected   = "rejected"
)

// Evidence document categories
const (
	DocumentTypeBusinessLicense     = "business_license"
	DocumentTypeTaxID               = "tax_id"
	DocumentTypeCompanyRegistration = "company_registration"
	DocumentTypeOther               = "other"
)

// Admin decision actions recorded in the history log
const (
	VerificationActionApprove         = "approve"
	VerificationActionReject          = "reject"
	VerificationActionRequestMoreInfo = "request_more_info"
)

// Verification is a company's request to be marked trustworthy. One row per
// company; RejectionReason is set only while Status is rejected.
type Verification struct {
	ID                  uint      `json:"id" gorm:"primaryKey"`
	CompanyID           uint      `json:"company_id" gorm:"uniqueIndex;not null"`
	VerifiedURL         string    `json:"verified_url" gorm:"size:512;not null"`
	VerifiedDescription string    `json:"verified_description" gorm:"type:text"`
	DocumentType        string    `json:"document_type" gorm:"size:50"`
	DocumentURL         string    `json:"document_url" gorm:"size:512"`
	RejectionReason     string    `json:"rejection_reason" gorm:"type:text"`
	Status              string    `json:"status" gorm:"size:20;default:'pending';index"` // pending, verified, rejected
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// VerificationHistory is the append-only audit trail of admin decisions on a
// verification request. Rows are never updated or deleted.
type VerificationHistory struct {
	ID             uint         `json:"id" gorm:"primaryKey"`
	VerificationID uint         `json:"verification_id" gorm:"not null;index"`
	Verification   Verification `json:"-" gorm:"foreignKey:VerificationID;constraint:OnDelete:CASCADE"`
	AdminID        uint         `json:"admin_id" gorm:"not null;index"`
	Action         string       `json:"action" gorm:"size:32;not null"` // approve, reject, request_more_info
	Reason         string       `json:"reason" gorm:"type:text"`
	CreatedAt      time.Time    `json:"created_at"`
}
