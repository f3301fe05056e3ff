package routes

import (
	"github.com/kataras/iris/v12"
	"github.com/whatsuppbro/tp-jobseeker-sub000/models"
	"github.com/whatsuppbro/tp-jobseeker-sub000/storage"
	"github.com/whatsuppbro/tp-jobseeker-sub000/utils"
)

// CreateCompany registers the employer profile for the current user. A user
// has at most one company.
func CreateCompany(ctx iris.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		utils.CreateError(iris.StatusUnauthorized, "unauthorized", "User ID not found in context", ctx)
		return
	}

	var input CompanyInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var existing models.Company
	if err := storage.DB.Where("user_id = ?", userID).First(&existing).Error; err == nil {
		utils.CreateError(iris.StatusConflict, "conflict", "A company already exists for this account", ctx)
		return
	}

	company := models.Company{
		UserID:      userID,
		Name:        input.Name,
		Description: input.Description,
		Website:     input.Website,
		LogoURL:     input.LogoURL,
		Industry:    input.Industry,
		CompanySize: input.CompanySize,
		Location:    input.Location,
	}

	if err := storage.DB.Create(&company).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	utils.JSONOK(ctx, &company)
}

// GetCompany is the public company page, verification state included
func GetCompany(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "invalid_id", "Invalid company ID", ctx)
		return
	}

	var company models.Company
	if err := storage.DB.Preload("Verification").First(&company, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	utils.JSONOK(ctx, &company)
}

// GetMyCompany returns the company owned by the current user (dashboard)
func GetMyCompany(ctx iris.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		utils.CreateError(iris.StatusUnauthorized, "unauthorized", "User ID not found in context", ctx)
		return
	}

	var company models.Company
	if err := storage.DB.Preload("Verification").Where("user_id = ?", userID).First(&company).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	utils.JSONOK(ctx, &company)
}

func UpdateCompany(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "invalid_id", "Invalid company ID", ctx)
		return
	}

	userID, ok := currentUserID(ctx)
	if !ok {
		utils.CreateError(iris.StatusUnauthorized, "unauthorized", "User ID not found in context", ctx)
		return
	}

	var company models.Company
	if err := storage.DB.First(&company, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if company.UserID != userID {
		utils.CreateForbidden(ctx)
		return
	}

	var input CompanyInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	company.Name = input.Name
	company.Description = input.Description
	company.Website = input.Website
	company.LogoURL = input.LogoURL
	company.Industry = input.Industry
	company.CompanySize = input.CompanySize
	company.Location = input.Location

	if err := storage.DB.Save(&company).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONOK(ctx, &company)
}

type CompanyInput struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=10000"`
	Website     string `json:"website" validate:"omitempty,url"`
	LogoURL     string `json:"logoURL" validate:"omitempty,url"`
	Industry    string `json:"industry" validate:"max=100"`
	CompanySize string `json:"companySize" validate:"max=50"`
	Location    string `json:"location" validate:"max=200"`
}
