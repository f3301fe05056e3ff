package services

import (
	"errors"
	"fmt"
	"log"
	"net/url"

	"github.com/whatsuppbro/tp-jobseeker-sub000/models"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var validDocumentTypes = []string{
	models.DocumentTypeBusinessLicense,
	models.DocumentTypeTaxID,
	models.DocumentTypeCompanyRegistration,
	models.DocumentTypeOther,
}

// VerificationService owns the company-verification lifecycle: evidence
// submission, admin decisions, and the history/notification side effects.
// All state lives in the database; every mutation runs in one transaction so
// a status change, its history entry, and its notification commit together.
type VerificationService struct {
	db *gorm.DB
}

func NewVerificationService(db *gorm.DB) *VerificationService {
	return &VerificationService{db: db}
}

// SubmitInput carries a company's verification evidence.
type SubmitInput struct {
	CompanyID           uint
	VerifiedURL         string
	VerifiedDescription string
	DocumentType        string
	DocumentURL         string
}

// Submit creates the company's verification request, or resubmits it after a
// rejection: document fields are overwritten, status resets to pending and
// the rejection reason is cleared. Submitting while verified is a conflict;
// the badge must be revoked by an explicit admin reject first.
func (s *VerificationService) Submit(input SubmitInput) (*models.Verification, error) {
	if err := validateEvidence(input); err != nil {
		return nil, err
	}

	var company models.Company
	if err := s.db.First(&company, input.CompanyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "company", ID: input.CompanyID}
		}
		return nil, err
	}

	var verification models.Verification
	err := s.db.Transaction(func(tx *gorm.DB) error {
		query := tx.Where("company_id = ?", input.CompanyID)
		if tx.Dialector.Name() == "postgres" { // FOR UPDATE is unsupported on sqlite
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		findErr := query.First(&verification).Error
		if findErr != nil && !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}

		if errors.Is(findErr, gorm.ErrRecordNotFound) {
			verification = models.Verification{
				CompanyID:           input.CompanyID,
				VerifiedURL:         input.VerifiedURL,
				VerifiedDescription: input.VerifiedDescription,
				DocumentType:        input.DocumentType,
				DocumentURL:         input.DocumentURL,
				Status:              models.VerificationStatusPending,
			}
			return tx.Create(&verification).Error
		}

		if verification.Status == models.VerificationStatusVerified {
			return NewConflictError("company %d is already verified; verification must be revoked before resubmitting", input.CompanyID)
		}

		verification.VerifiedURL = input.VerifiedURL
		verification.VerifiedDescription = input.VerifiedDescription
		verification.DocumentType = input.DocumentType
		verification.DocumentURL = input.DocumentURL
		verification.Status = models.VerificationStatusPending
		verification.RejectionReason = ""
		return tx.Save(&verification).Error
	})
	if err != nil {
		return nil, err
	}

	return &verification, nil
}

// Decide applies an admin decision to a verification request. The status is
// derived from the action, never taken from the client. Exactly one history
// entry and one notification are written per successful call, in the same
// transaction as the status update, so a failed write leaves no trace.
func (s *VerificationService) Decide(requestID, adminID uint, action, reason string) (*models.Verification, error) {
	if adminID == 0 {
		return nil, &UnauthorizedError{Message: "admin identity required for verification decisions"}
	}

	switch action {
	case models.VerificationActionApprove:
	case models.VerificationActionReject, models.VerificationActionRequestMoreInfo:
		if reason == "" {
			return nil, NewValidationError("a reason is required for %s", action)
		}
	default:
		return nil, NewValidationError("unknown action %q", action)
	}

	var verification models.Verification
	var makeNotification models.Notification

	err := s.db.Transaction(func(tx *gorm.DB) error {
		query := tx.Where("id = ?", requestID)
		if tx.Dialector.Name() == "postgres" { // FOR UPDATE is unsupported on sqlite
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := query.First(&verification).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "verification", ID: requestID}
			}
			return err
		}

		nextStatus, err := nextVerificationStatus(verification.Status, action)
		if err != nil {
			return err
		}

		verification.Status = nextStatus
		if nextStatus == models.VerificationStatusRejected {
			verification.RejectionReason = reason
		} else {
			verification.RejectionReason = ""
		}
		if err := tx.Save(&verification).Error; err != nil {
			return err
		}

		history := models.VerificationHistory{
			VerificationID: verification.ID,
			AdminID:        adminID,
			Action:         action,
			Reason:         reason,
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}

		var company models.Company
		if err := tx.First(&company, verification.CompanyID).Error; err != nil {
			return err
		}

		makeNotification = models.Notification{
			UserID:  company.UserID,
			Type:    "verification_status",
			Title:   "Verification update",
			Message: verificationMessage(action, verification.Status, reason),
			RefType: "verification",
			RefID:   verification.ID,
		}
		return tx.Create(&makeNotification).Error
	})
	if err != nil {
		return nil, err
	}

	// Push delivery is best effort and only happens after the commit; a push
	// failure must never roll back a decision.
	if pushErr := NewNotificationService(s.db).SendPersistedNotification(makeNotification); pushErr != nil {
		log.Printf("Failed to push verification notification for user %d: %v", makeNotification.UserID, pushErr)
	}

	return &verification, nil
}

// GetByCompany returns the company's verification record. Absence is an
// expected outcome, reported via the bool, never as an error.
func (s *VerificationService) GetByCompany(companyID uint) (*models.Verification, bool, error) {
	var verification models.Verification
	err := s.db.Where("company_id = ?", companyID).First(&verification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &verification, true, nil
}

func (s *VerificationService) GetByID(requestID uint) (*models.Verification, error) {
	var verification models.Verification
	if err := s.db.First(&verification, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "verification", ID: requestID}
		}
		return nil, err
	}
	return &verification, nil
}

// History returns the decision log for a request, oldest first.
func (s *VerificationService) History(requestID uint) ([]models.VerificationHistory, error) {
	if _, err := s.GetByID(requestID); err != nil {
		return nil, err
	}
	var entries []models.VerificationHistory
	err := s.db.Where("verification_id = ?", requestID).Order("id asc").Find(&entries).Error
	return entries, err
}

// ListAll returns every company joined with its verification record, for the
// admin review queue. Companies without a record appear as unverified.
func (s *VerificationService) ListAll() ([]models.Company, error) {
	var companies []models.Company
	err := s.db.Preload("Verification").Order("id asc").Find(&companies).Error
	return companies, err
}

func validateEvidence(input SubmitInput) error {
	parsed, err := url.ParseRequestURI(input.VerifiedURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return NewValidationError("verified_url must be a valid http(s) URL")
	}
	if input.VerifiedDescription != "" && len(input.VerifiedDescription) < 10 {
		return NewValidationError("verified_description must be at least 10 characters")
	}
	if input.DocumentType != "" && !slices.Contains(validDocumentTypes, input.DocumentType) {
		return NewValidationError("unknown document_type %q", input.DocumentType)
	}
	if input.DocumentURL != "" {
		if _, err := url.ParseRequestURI(input.DocumentURL); err != nil {
			return NewValidationError("document_url must be a valid URL")
		}
	}
	return nil
}

// nextVerificationStatus enforces the transition table. Approve is allowed
// from pending and rejected (override), reject from pending and verified
// (revocation), request_more_info only while pending. Everything else is a
// conflict.
func nextVerificationStatus(current, action string) (string, error) {
	switch action {
	case models.VerificationActionApprove:
		if current == models.VerificationStatusPending || current == models.VerificationStatusRejected {
			return models.VerificationStatusVerified, nil
		}
	case models.VerificationActionReject:
		if current == models.VerificationStatusPending || current == models.VerificationStatusVerified {
			return models.VerificationStatusRejected, nil
		}
	case models.VerificationActionRequestMoreInfo:
		if current == models.VerificationStatusPending {
			return models.VerificationStatusPending, nil
		}
	}
	return "", NewConflictError("cannot %s a %s verification request", action, current)
}

func verificationMessage(action, status, reason string) string {
	if action == models.VerificationActionRequestMoreInfo {
		return fmt.Sprintf("More information is needed for your verification request: %s", reason)
	}
	msg := fmt.Sprintf("Your verification request has been %s.", status)
	if status == models.VerificationStatusRejected && reason != "" {
		msg += " Reason: " + reason
	}
	return msg
}
