package routes

import (
	"strings"

	"github.com/kataras/iris/v12"
	"github.com/whatsuppbro/tp-jobseeker-sub000/models"
	"github.com/whatsuppbro/tp-jobseeker-sub000/storage"
	"github.com/whatsuppbro/tp-jobseeker-sub000/utils"
)

// ListJobs - GET /api/job?q=&location=&type=&remote=&page=&per_page=
// Public listing; only open jobs are shown.
func ListJobs(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	query := storage.DB.Model(&models.Job{}).Where("status = ?", models.JobStatusOpen)

	if q := strings.TrimSpace(ctx.URLParamDefault("q", "")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("lower(title) LIKE ? OR lower(description) LIKE ?", like, like)
	}
	if location := strings.TrimSpace(ctx.URLParamDefault("location", "")); location != "" {
		query = query.Where("lower(location) LIKE ?", "%"+strings.ToLower(location)+"%")
	}
	if jobType := strings.TrimSpace(ctx.URLParamDefault("type", "")); jobType != "" {
		query = query.Where("employment_type = ?", jobType)
	}
	if remote := ctx.URLParamDefault("remote", ""); remote == "true" {
		query = query.Where("remote = ?", true)
	}

	var total int64
	query.Count(&total)

	var jobs []models.Job
	if err := query.Preload("Company").Order("id desc").
		Offset((page - 1) * perPage).Limit(perPage).Find(&jobs).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, jobs, page, perPage, total)
}

func GetJob(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "invalid_id", "Invalid job ID", ctx)
		return
	}

	var job models.Job
	if err := storage.DB.Preload("Company").Preload("Company.Verification").First(&job, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	utils.JSONOK(ctx, &job)
}

// CreateJob posts a job under the current user's company
func CreateJob(ctx iris.Context) {
	company, ok := companyForCurrentUser(ctx)
	if !ok {
		return
	}

	var input JobInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	job := models.Job{
		CompanyID:      company.ID,
		Title:          input.Title,
		Description:    input.Description,
		Location:       input.Location,
		EmploymentType: input.EmploymentType,
		SalaryMin:      input.SalaryMin,
		SalaryMax:      input.SalaryMax,
		Remote:         input.Remote,
		Status:         models.JobStatusOpen,
	}

	if input.SalaryMin != nil && input.SalaryMax != nil && *input.SalaryMin > *input.SalaryMax {
		utils.CreateError(iris.StatusBadRequest, "validation_error", "salaryMin cannot exceed salaryMax", ctx)
		return
	}

	if err := storage.DB.Create(&job).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	utils.JSONOK(ctx, &job)
}

func UpdateJob(ctx iris.Context) {
	job, ok := ownedJobFromParams(ctx)
	if !ok {
		return
	}

	var input JobInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	job.Title = input.Title
	job.Description = input.Description
	job.Location = input.Location
	job.EmploymentType = input.EmploymentType
	job.SalaryMin = input.SalaryMin
	job.SalaryMax = input.SalaryMax
	job.Remote = input.Remote

	if err := storage.DB.Save(job).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONOK(ctx, job)
}

// CloseJob stops new applications without deleting the posting
func CloseJob(ctx iris.Context) {
	job, ok := ownedJobFromParams(ctx)
	if !ok {
		return
	}

	job.Status = models.JobStatusClosed
	if err := storage.DB.Save(job).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONOK(ctx, job)
}

func DeleteJob(ctx iris.Context) {
	job, ok := ownedJobFromParams(ctx)
	if !ok {
		return
	}

	if err := storage.DB.Delete(job).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONOK(ctx, iris.Map{"deleted": true})
}

// ListCompanyJobs returns all jobs of the current user's company, any status
func ListCompanyJobs(ctx iris.Context) {
	company, ok := companyForCurrentUser(ctx)
	if !ok {
		return
	}

	var jobs []models.Job
	if err := storage.DB.Where("company_id = ?", company.ID).Order("id desc").Find(&jobs).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONOK(ctx, jobs)
}

// companyForCurrentUser loads the caller's company or writes the error response
func companyForCurrentUser(ctx iris.Context) (*models.Company, bool) {
	userID, ok := currentUserID(ctx)
	if !ok {
		utils.CreateError(iris.StatusUnauthorized, "unauthorized", "User ID not found in context", ctx)
		return nil, false
	}

	var company models.Company
	if err := storage.DB.Where("user_id = ?", userID).First(&company).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "not_found", "No company profile for this account", ctx)
		return nil, false
	}
	return &company, true
}

func ownedJobFromParams(ctx iris.Context) (*models.Job, bool) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "invalid_id", "Invalid job ID", ctx)
		return nil, false
	}

	company, ok := companyForCurrentUser(ctx)
	if !ok {
		return nil, false
	}

	var job models.Job
	if err := storage.DB.First(&job, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return nil, false
	}

	if job.CompanyID != company.ID {
		utils.CreateForbidden(ctx)
		return nil, false
	}

	return &job, true
}

type JobInput struct {
	Title          string `json:"title" validate:"required,max=200"`
	Description    string `json:"description" validate:"required"`
	Location       string `json:"location" validate:"max=200"`
	EmploymentType string `json:"employmentType" validate:"required,oneof=full_time part_time contract internship"`
	SalaryMin      *int   `json:"salaryMin" validate:"omitempty,min=0"`
	SalaryMax      *int   `json:"salaryMax" validate:"omitempty,min=0"`
	Remote         bool   `json:"remote"`
}
