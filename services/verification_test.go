package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/whatsuppbro/tp-jobseeker-sub000/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.Verification{},
		&models.VerificationHistory{},
		&models.Notification{},
	))
	return db
}

func seedCompany(t *testing.T, db *gorm.DB) models.Company {
	t.Helper()
	seededCompanies++
	user := models.User{
		FirstName: "Dana",
		LastName:  "Owner",
		Email:     fmt.Sprintf("owner-%d@example.com", seededCompanies),
		Role:      "company",
	}
	require.NoError(t, db.Create(&user).Error)

	company := models.Company{
		UserID: user.ID,
		Name:   "Acme Logistics",
	}
	require.NoError(t, db.Create(&company).Error)
	return company
}

var seededCompanies int

func validSubmit(companyID uint) SubmitInput {
	return SubmitInput{
		CompanyID:           companyID,
		VerifiedURL:         "https://acme.example.com",
		VerifiedDescription: "Registered freight company since 2009",
		DocumentType:        models.DocumentTypeBusinessLicense,
		DocumentURL:         "https://cdn.example.com/docs/license.pdf",
	}
}

func TestSubmitCreatesPendingRequest(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVerificationService(db)
	company := seedCompany(t, db)

	verification, err := svc.Submit(validSubmit(company.ID))
	require.NoError(t, err)

	assert.Equal(t, models.VerificationStatusPending, verification.Status)
	assert.Equal(t, company.ID, verification.CompanyID)
	assert.Empty(t, verification.RejectionReason)

	var count int64
	db.Model(&models.Verification{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSubmitValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVerificationService(db)
	company := seedCompany(t, db)

	tests := []struct {
		name   string
		mutate func(*SubmitInput)
	}{
		{"missing url", func(in *SubmitInput) { in.VerifiedURL = "" }},
		{"not a url", func(in *SubmitInput) { in.VerifiedURL = "acme dot com" }},
		{"ftp scheme", func(in *SubmitInput) { in.VerifiedURL = "ftp://acme.example.com" }},
		{"short description", func(in *SubmitInput) { in.VerifiedDescription = "too short" }},
		{"bad document type", func(in *SubmitInput) { in.DocumentType = "selfie" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			input := validSubmit(company.ID)
			tc.mutate(&input)
			_, err := svc.Submit(input)
			var vErr *ValidationError
			assert.ErrorAs(t, err, &vErr)
		})
	}

	var count int64
	db.Model(&models.Verification{}).Count(&count)
	assert.Equal(t, int64(0), count, "no record should be written on validation failure")
}

func TestSubmitUnknownCompany(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVerificationService(db)

	_, err := svc.Submit(validSubmit(9999))
	var nfErr *NotFoundError
	assert.ErrorAs(t, err, &nfErr)
}

func TestApprovePendingRequest(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVerificationService(db)
	company := seedCompany(t, db)

	submitted, err := svc.Submit(validSubmit(company.ID))
	require.NoError(t, err)

	decided, err := svc.Decide(submitted.ID, 42, models.VerificationActionApprove, "")
	require.NoError(t, err)
	assert.Equal(t, models.VerificationStatusVerified, decided.Status)

	history, err := svc.History(submitted.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.VerificationActionApprove, history[0].Action)
	assert.Equal(t, uint(42), history[0].AdminID)

	var notifications []models.Notification
	require.NoError(t, db.Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Contains(t, notifications[0].Message, "verified")
	assert.Equal(t, "verification_status", notifications[0].Type)
}

func TestRejectRequiresReason(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVerificationService(db)
	company := seedCompany(t, db)

	submitted, err := svc.Submit(validSubmit(company.ID))
	require.NoError(t, err)

	_, err = svc.Decide(submitted.ID, 42, models.VerificationActionReject, "")
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)

	// The failed decision must leave no trace
	reloaded, err := svc.GetByID(submitted.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VerificationStatusPending, reloaded.Status)

	history, err := svc.History(submitted.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestRejectSetsReason(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVerificationService(db)
	company := seedCompany(t, db)

	submitted, err := svc.Submit(validSubmit(company.ID))
	require.NoError(t, err)

	decided, err := svc.Decide(submitted.ID, 42, models.VerificationActionReject, "documents are illegible")
	require.NoError(t, err)
	assert.Equal(t, models.VerificationStatusRejected, decided.Status)
	assert.Equal(t, "documents are illegible", decided.RejectionReason)

	var notification models.Notification
	require.NoError(t, db.Last(&notification).Error)
	assert.Contains(t, notification.Message, "documents are illegible")
}

func TestResubmitAfterRejection(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVerificationService(db)
	company := seedCompany(t, db)

	submitted, err := svc.Submit(validSubmit(company.ID))
	require.NoError(t, err)
	_, err = svc.Decide(submitted.ID, 42, models.VerificationActionReject, "expired license")
	require.NoError(t, err)

	input := validSubmit(company.ID)
	input.DocumentURL = "https://cdn.example.com/docs/license-v2.pdf"
	resubmitted, err := svc.Submit(input)
	require.NoError(t, err)

	assert.Equal(t, submitted.ID, resubmitted.ID, "resubmission reuses the existing record")
	assert.Equal(t, models.VerificationStatusPending, resubmitted.Status)
	assert.Empty(t, resubmitted.RejectionReason)
	assert.Equal(t, "https://cdn.example.com/docs/license-v2.pdf", resubmitted.DocumentURL)
}

func TestSubmitWhileVerifiedConflicts(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVerificationService(db)
	company := seedCompany(t, db)

	submitted, err := svc.Submit(validSubmit(company.ID))
	require.NoError(t, err)
	_, err = svc.Decide(submitted.ID, 42, models.VerificationActionApprove, "")
	require.NoError(t, err)

	_, err = svc.Submit(validSubmit(company.ID))
	var cErr *ConflictError
	assert.ErrorAs(t, err, &cErr)
}

func TestRevokeVerifiedCompany(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVerificationService(db)
	company := seedCompany(t, db)

	submitted, err := svc.Submit(validSubmit(company.ID))
	require.NoError(t, err)
	_, err = svc.Decide(submitted.ID, 7, models.VerificationActionApprove, "")
	require.NoError(t, err)

	revoked, err := svc.Decide(submitted.ID, 7, models.VerificationActionReject, "fraudulent listings reported")
	require.NoError(t, err)
	assert.Equal(t, models.VerificationStatusRejected, revoked.Status)
	assert.Equal(t, "fraudulent listings reported", revoked.RejectionReason)

	history, err := svc.History(submitted.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, models.VerificationActionApprove, history[0].Action)
	assert.Equal(t, models.VerificationActionReject, history[1].Action)

	var notifications []models.Notification
	require.NoError(t, db.Order("id asc").Find(&notifications).Error)
	require.Len(t, notifications, 2)
	assert.Contains(t, notifications[0].Message, "verified")
	assert.Contains(t, notifications[1].Message, "fraudulent listings reported")
}

func TestRequestMoreInfoKeepsPending(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVerificationService(db)
	company := seedCompany(t, db)

	submitted, err := svc.Submit(validSubmit(company.ID))
	require.NoError(t, err)

	decided, err := svc.Decide(submitted.ID, 42, models.VerificationActionRequestMoreInfo, "please add a tax document")
	require.NoError(t, err)
	assert.Equal(t, models.VerificationStatusPending, decided.Status)
	assert.Empty(t, decided.RejectionReason)

	history, err := svc.History(submitted.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "please add a tax document", history[0].Reason)

	var notification models.Notification
	require.NoError(t, db.Last(&notification).Error)
	assert.True(t, strings.Contains(notification.Message, "More information"))
}

func TestInvalidTransitionsConflict(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVerificationService(db)

	tests := []struct {
		name    string
		prepare func(t *testing.T, svc *VerificationService, id uint)
		action  string
		reason  string
	}{
		{
			name: "approve an already verified request",
			prepare: func(t *testing.T, svc *VerificationService, id uint) {
				_, err := svc.Decide(id, 42, models.VerificationActionApprove, "")
				require.NoError(t, err)
			},
			action: models.VerificationActionApprove,
		},
		{
			name: "reject an already rejected request",
			prepare: func(t *testing.T, svc *VerificationService, id uint) {
				_, err := svc.Decide(id, 42, models.VerificationActionReject, "first rejection")
				require.NoError(t, err)
			},
			action: models.VerificationActionReject,
			reason: "second rejection",
		},
		{
			name: "request more info on a verified request",
			prepare: func(t *testing.T, svc *VerificationService, id uint) {
				_, err := svc.Decide(id, 42, models.VerificationActionApprove, "")
				require.NoError(t, err)
			},
			action: models.VerificationActionRequestMoreInfo,
			reason: "need more",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			company := seedCompany(t, db)
			submitted, err := svc.Submit(validSubmit(company.ID))
			require.NoError(t, err)
			tc.prepare(t, svc, submitted.ID)

			before, err := svc.History(submitted.ID)
			require.NoError(t, err)

			_, err = svc.Decide(submitted.ID, 42, tc.action, tc.reason)
			var cErr *ConflictError
			assert.ErrorAs(t, err, &cErr)

			after, err := svc.History(submitted.ID)
			require.NoError(t, err)
			assert.Len(t, after, len(before), "no history entry for a refused decision")
		})
	}
}

// Two admins deciding the same request serialize on the verification row:
// whichever commits second sees the first decision's status and conflicts,
// so the record ends up with exactly one history entry and one notification.
func TestCompetingDecisionsSerialize(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVerificationService(db)
	company := seedCompany(t, db)

	submitted, err := svc.Submit(validSubmit(company.ID))
	require.NoError(t, err)

	first, err := svc.Decide(submitted.ID, 7, models.VerificationActionApprove, "")
	require.NoError(t, err)
	assert.Equal(t, models.VerificationStatusVerified, first.Status)

	_, err = svc.Decide(submitted.ID, 8, models.VerificationActionApprove, "")
	var cErr *ConflictError
	assert.ErrorAs(t, err, &cErr)

	history, err := svc.History(submitted.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, uint(7), history[0].AdminID)

	var notificationCount int64
	db.Model(&models.Notification{}).Count(&notificationCount)
	assert.Equal(t, int64(1), notificationCount)
}

func TestDecideUnknownAction(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVerificationService(db)
	company := seedCompany(t, db)

	submitted, err := svc.Submit(validSubmit(company.ID))
	require.NoError(t, err)

	_, err = svc.Decide(submitted.ID, 42, "escalate", "because")
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestDecideRequiresAdminIdentity(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVerificationService(db)
	company := seedCompany(t, db)

	submitted, err := svc.Submit(validSubmit(company.ID))
	require.NoError(t, err)

	_, err = svc.Decide(submitted.ID, 0, models.VerificationActionApprove, "")
	var uErr *UnauthorizedError
	assert.ErrorAs(t, err, &uErr)
}

func TestDecideUnknownRequest(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVerificationService(db)

	_, err := svc.Decide(12345, 42, models.VerificationActionApprove, "")
	var nfErr *NotFoundError
	assert.ErrorAs(t, err, &nfErr)
}

func TestGetByCompanyAbsent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVerificationService(db)
	company := seedCompany(t, db)

	verification, found, err := svc.GetByCompany(company.ID)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, verification)
}

func TestGetByCompanyPresent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVerificationService(db)
	company := seedCompany(t, db)

	submitted, err := svc.Submit(validSubmit(company.ID))
	require.NoError(t, err)

	verification, found, err := svc.GetByCompany(company.ID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, submitted.ID, verification.ID)
}

func TestListAllIncludesUnverifiedCompanies(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVerificationService(db)

	withRequest := seedCompany(t, db)
	withoutRequest := seedCompany(t, db)

	_, err := svc.Submit(validSubmit(withRequest.ID))
	require.NoError(t, err)

	companies, err := svc.ListAll()
	require.NoError(t, err)
	require.Len(t, companies, 2)

	byID := map[uint]models.Company{}
	for _, c := range companies {
		byID[c.ID] = c
	}
	require.NotNil(t, byID[withRequest.ID].Verification)
	assert.Equal(t, models.VerificationStatusPending, byID[withRequest.ID].Verification.Status)
	assert.Nil(t, byID[withoutRequest.ID].Verification)
}
