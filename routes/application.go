package routes

import (
	"time"

	"github.com/kataras/iris/v12"
	"github.com/whatsuppbro/tp-jobseeker-sub000/models"
	"github.com/whatsuppbro/tp-jobseeker-sub000/services"
	"github.com/whatsuppbro/tp-jobseeker-sub000/storage"
	"github.com/whatsuppbro/tp-jobseeker-sub000/utils"
)

// CreateApplication - a seeker applies to an open job
func CreateApplication(ctx iris.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		utils.CreateError(iris.StatusUnauthorized, "unauthorized", "User ID not found in context", ctx)
		return
	}

	var input ApplicationInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var seeker models.Seeker
	if err := storage.DB.Where("user_id = ?", userID).First(&seeker).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "not_found", "Create a seeker profile before applying", ctx)
		return
	}

	var job models.Job
	if err := storage.DB.Preload("Company").First(&job, input.JobID).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "not_found", "Job not found", ctx)
		return
	}

	if job.Status != models.JobStatusOpen {
		utils.CreateError(iris.StatusConflict, "conflict", "This job is no longer accepting applications", ctx)
		return
	}

	var existing models.Application
	if err := storage.DB.Where("job_id = ? AND seeker_id = ?", job.ID, seeker.ID).First(&existing).Error; err == nil {
		utils.CreateError(iris.StatusConflict, "conflict", "You already applied to this job", ctx)
		return
	}

	resumeURL := input.ResumeURL
	if resumeURL == "" {
		resumeURL = seeker.ResumeURL
	}

	application := models.Application{
		JobID:       job.ID,
		SeekerID:    seeker.ID,
		CoverLetter: input.CoverLetter,
		ResumeURL:   resumeURL,
		Status:      models.ApplicationStatusPending,
	}

	if err := storage.DB.Create(&application).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var user models.User
	seekerName := "A candidate"
	if err := storage.DB.First(&user, userID).Error; err == nil {
		seekerName = user.FirstName + " " + user.LastName
	}
	services.NewNotificationService(storage.DB).NotifyNewApplicant(job.Company.UserID, application.ID, job.Title, seekerName)

	ctx.StatusCode(iris.StatusCreated)
	utils.JSONOK(ctx, &application)
}

// ListJobApplications - company reviews applicants for one of its jobs
func ListJobApplications(ctx iris.Context) {
	job, ok := ownedJobFromParams(ctx)
	if !ok {
		return
	}

	var applications []models.Application
	if err := storage.DB.Preload("Seeker").Preload("Seeker.User").
		Where("job_id = ?", job.ID).Order("id desc").Find(&applications).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONOK(ctx, applications)
}

// ListMyApplications - seeker lists their own applications
func ListMyApplications(ctx iris.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		utils.CreateError(iris.StatusUnauthorized, "unauthorized", "User ID not found in context", ctx)
		return
	}

	var seeker models.Seeker
	if err := storage.DB.Where("user_id = ?", userID).First(&seeker).Error; err != nil {
		utils.JSONOK(ctx, []models.Application{})
		return
	}

	var applications []models.Application
	if err := storage.DB.Preload("Job").Preload("Job.Company").
		Where("seeker_id = ?", seeker.ID).Order("id desc").Find(&applications).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONOK(ctx, applications)
}

// UpdateApplicationStatus - company accepts/rejects/reviews an applicant
func UpdateApplicationStatus(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "invalid_id", "Invalid application ID", ctx)
		return
	}

	company, ok := companyForCurrentUser(ctx)
	if !ok {
		return
	}

	var input ApplicationStatusInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var application models.Application
	if err := storage.DB.Preload("Job").Preload("Seeker").First(&application, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if application.Job.CompanyID != company.ID {
		utils.CreateForbidden(ctx)
		return
	}

	if application.Status == models.ApplicationStatusWithdrawn {
		utils.CreateError(iris.StatusConflict, "conflict", "Application was withdrawn by the candidate", ctx)
		return
	}

	application.Status = input.Status
	now := time.Now()
	application.RespondedAt = &now

	if err := storage.DB.Save(&application).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	services.NewNotificationService(storage.DB).
		NotifyApplicationStatus(application.Seeker.UserID, application.ID, application.Job.Title, application.Status)

	utils.JSONOK(ctx, &application)
}

// WithdrawApplication - seeker pulls their application
func WithdrawApplication(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "invalid_id", "Invalid application ID", ctx)
		return
	}

	userID, ok := currentUserID(ctx)
	if !ok {
		utils.CreateError(iris.StatusUnauthorized, "unauthorized", "User ID not found in context", ctx)
		return
	}

	var application models.Application
	if err := storage.DB.Preload("Seeker").First(&application, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if application.Seeker.UserID != userID {
		utils.CreateForbidden(ctx)
		return
	}

	application.Status = models.ApplicationStatusWithdrawn
	if err := storage.DB.Save(&application).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONOK(ctx, &application)
}

type ApplicationInput struct {
	JobID       uint   `json:"jobID" validate:"required"`
	CoverLetter string `json:"coverLetter" validate:"max=10000"`
	ResumeURL   string `json:"resumeURL" validate:"omitempty,url"`
}

type ApplicationStatusInput struct {
	Status string `json:"status" validate:"required,oneof=reviewed accepted rejected"`
}
