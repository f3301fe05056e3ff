package routes

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/kataras/iris/v12"
	"github.com/whatsuppbro/tp-jobseeker-sub000/models"
	"github.com/whatsuppbro/tp-jobseeker-sub000/services"
	"github.com/whatsuppbro/tp-jobseeker-sub000/storage"
	"github.com/whatsuppbro/tp-jobseeker-sub000/utils"
)

// SubmitCompanyVerification - the company owner submits (or resubmits)
// verification evidence. The document arrives base64-encoded, is uploaded to
// the document store first, and only its URL is persisted.
func SubmitCompanyVerification(ctx iris.Context) {
	company, ok := companyForCurrentUser(ctx)
	if !ok {
		return
	}

	var input SubmitVerificationInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	documentURL := input.DocumentURL
	if input.Document != "" {
		publicID := fmt.Sprintf("verification/%d/%s", company.ID, uuid.NewString())
		documentURL = storage.UploadBase64Document(input.Document, publicID)
		if documentURL == "" {
			utils.CreateError(iris.StatusBadGateway, "upload_failed", "Could not store the evidence document", ctx)
			return
		}
	}

	verification, err := services.NewVerificationService(storage.DB).Submit(services.SubmitInput{
		CompanyID:           company.ID,
		VerifiedURL:         input.VerifiedURL,
		VerifiedDescription: input.VerifiedDescription,
		DocumentType:        input.DocumentType,
		DocumentURL:         documentURL,
	})
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	utils.JSONOK(ctx, verification)
}

// GetCompanyVerification - verification record for a company. A company
// without a record reports the implicit unverified state, never a 404.
func GetCompanyVerification(ctx iris.Context) {
	companyID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "invalid_id", "Invalid company ID", ctx)
		return
	}

	verification, found, svcErr := services.NewVerificationService(storage.DB).GetByCompany(companyID)
	if svcErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if !found {
		utils.JSONOK(ctx, iris.Map{
			"company_id": companyID,
			"status":     models.VerificationStatusUnverified,
		})
		return
	}

	utils.JSONOK(ctx, verification)
}

// ListAllVerifications - admin review queue: every company joined with its
// verification state
func ListAllVerifications(ctx iris.Context) {
	companies, err := services.NewVerificationService(storage.DB).ListAll()
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONOK(ctx, companies)
}

// DecideVerification - PUT /api/verification/status/{id}
// Only {action, reason} is accepted; the resulting status is derived
// server-side so clients can never write an arbitrary status.
func DecideVerification(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "invalid_id", "Invalid verification ID", ctx)
		return
	}

	adminID, _ := currentUserID(ctx)

	var input DecideVerificationInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	svc := services.NewVerificationService(storage.DB)
	var before interface{}
	if prev, prevErr := svc.GetByID(id); prevErr == nil {
		before = prev
	}

	verification, svcErr := svc.Decide(id, adminID, input.Action, input.Reason)
	if svcErr != nil {
		handleServiceError(svcErr, ctx)
		return
	}

	utils.Audit(ctx, "verification."+input.Action, "verification", verification.ID, before, verification)

	utils.JSONOK(ctx, verification)
}

// CreateVerification - back-office direct creation on behalf of a company.
// Runs through the same submission path and validation as the company flow.
func CreateVerification(ctx iris.Context) {
	var input CreateVerificationInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	verification, err := services.NewVerificationService(storage.DB).Submit(services.SubmitInput{
		CompanyID:           input.CompanyID,
		VerifiedURL:         input.VerifiedURL,
		VerifiedDescription: input.VerifiedDescription,
		DocumentType:        input.DocumentType,
		DocumentURL:         input.DocumentURL,
	})
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	utils.Audit(ctx, "verification.create", "verification", verification.ID, nil, verification)

	ctx.StatusCode(iris.StatusCreated)
	utils.JSONOK(ctx, verification)
}

// GetVerification - admin view of one request including its decision history
func GetVerification(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "invalid_id", "Invalid verification ID", ctx)
		return
	}

	svc := services.NewVerificationService(storage.DB)
	verification, svcErr := svc.GetByID(id)
	if svcErr != nil {
		handleServiceError(svcErr, ctx)
		return
	}

	history, histErr := svc.History(id)
	if histErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONOK(ctx, iris.Map{
		"verification": verification,
		"history":      history,
	})
}

type SubmitVerificationInput struct {
	VerifiedURL         string `json:"verified_url" validate:"required"`
	VerifiedDescription string `json:"verified_description"`
	DocumentType        string `json:"document_type" validate:"omitempty,oneof=business_license tax_id company_registration other"`
	Document            string `json:"document"` // base64 payload, optionally a data URI
	DocumentURL         string `json:"document_url" validate:"omitempty,url"`
}

type DecideVerificationInput struct {
	Action string `json:"action" validate:"required,oneof=approve reject request_more_info"`
	Reason string `json:"reason"`
}

type CreateVerificationInput struct {
	CompanyID           uint   `json:"company_id" validate:"required"`
	VerifiedURL         string `json:"verified_url" validate:"required"`
	VerifiedDescription string `json:"verified_description"`
	DocumentType        string `json:"document_type" validate:"omitempty,oneof=business_license tax_id company_registration other"`
	DocumentURL         string `json:"document_url" validate:"omitempty,url"`
}
