package routes

import (
	"strings"

	"github.com/kataras/iris/v12"
	"github.com/whatsuppbro/tp-jobseeker-sub000/models"
	"github.com/whatsuppbro/tp-jobseeker-sub000/storage"
	"github.com/whatsuppbro/tp-jobseeker-sub000/utils"
)

// AdminListUsers - GET /api/admin/users?role=&q=&page=&per_page=
func AdminListUsers(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	var users []models.User
	q := strings.TrimSpace(ctx.URLParamDefault("q", ""))
	role := strings.TrimSpace(ctx.URLParamDefault("role", ""))

	query := storage.DB.Model(&models.User{})
	if role != "" {
		query = query.Where("role = ?", role)
	}
	if q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("lower(first_name) LIKE ? OR lower(last_name) LIKE ? OR lower(email) LIKE ?", like, like, like)
	}

	var total int64
	query.Count(&total)
	query = query.Offset((page - 1) * perPage).Limit(perPage)
	if err := query.Find(&users).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, users, page, perPage, total)
}

func AdminGetUser(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "invalid_id", "Invalid user ID", ctx)
		return
	}

	var user models.User
	if err := storage.DB.First(&user, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	utils.JSONOK(ctx, &user)
}

// AdminChangeUserRole - PATCH /api/admin/users/:id/role (super_admin only)
func AdminChangeUserRole(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "invalid_id", "Invalid user ID", ctx)
		return
	}

	var body struct {
		Role string `json:"role"`
	}
	if err := ctx.ReadJSON(&body); err != nil || body.Role == "" {
		utils.CreateError(iris.StatusBadRequest, "invalid_role", "A role is required", ctx)
		return
	}

	var user models.User
	if err := storage.DB.First(&user, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	before := user
	user.Role = body.Role
	if err := storage.DB.Save(&user).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "user.role_update", "user", user.ID, before, user)

	utils.JSONOK(ctx, &user)
}

// AdminSuspendUser - PATCH /api/admin/users/:id/suspend
func AdminSuspendUser(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "invalid_id", "Invalid user ID", ctx)
		return
	}

	var body struct {
		Suspended *bool `json:"suspended" validate:"required"`
	}
	if err := ctx.ReadJSON(&body); err != nil || body.Suspended == nil {
		utils.CreateError(iris.StatusBadRequest, "bad_request", "suspended flag is required", ctx)
		return
	}

	var user models.User
	if err := storage.DB.First(&user, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	before := user
	user.Suspended = *body.Suspended
	if err := storage.DB.Save(&user).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "user.suspend", "user", user.ID, before, user)

	utils.JSONOK(ctx, &user)
}

// AdminListCompanies - companies with their verification state for moderation
func AdminListCompanies(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	query := storage.DB.Model(&models.Company{})
	if q := strings.TrimSpace(ctx.URLParamDefault("q", "")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("lower(name) LIKE ?", like)
	}

	var total int64
	query.Count(&total)

	var companies []models.Company
	if err := query.Preload("Verification").
		Offset((page - 1) * perPage).Limit(perPage).Find(&companies).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, companies, page, perPage, total)
}

// AdminListJobs - all jobs regardless of status
func AdminListJobs(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	query := storage.DB.Model(&models.Job{})
	if status := strings.TrimSpace(ctx.URLParamDefault("status", "")); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var jobs []models.Job
	if err := query.Preload("Company").
		Offset((page - 1) * perPage).Limit(perPage).Find(&jobs).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, jobs, page, perPage, total)
}

// AdminFlagJob hides a posting from the public listing
func AdminFlagJob(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "invalid_id", "Invalid job ID", ctx)
		return
	}

	var job models.Job
	if err := storage.DB.First(&job, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	before := job
	job.Status = models.JobStatusFlagged
	if err := storage.DB.Save(&job).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "job.flag", "job", job.ID, before, job)

	utils.JSONOK(ctx, &job)
}

// AdminListApplications - application moderation view
func AdminListApplications(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	query := storage.DB.Model(&models.Application{})
	if status := strings.TrimSpace(ctx.URLParamDefault("status", "")); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var applications []models.Application
	if err := query.Preload("Job").Preload("Seeker").
		Offset((page - 1) * perPage).Limit(perPage).Find(&applications).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, applications, page, perPage, total)
}

// AdminStats - headline numbers for the moderation dashboard
func AdminStats(ctx iris.Context) {
	var users, companies, jobs, applications, pendingVerifications int64
	storage.DB.Model(&models.User{}).Count(&users)
	storage.DB.Model(&models.Company{}).Count(&companies)
	storage.DB.Model(&models.Job{}).Count(&jobs)
	storage.DB.Model(&models.Application{}).Count(&applications)
	storage.DB.Model(&models.Verification{}).
		Where("status = ?", models.VerificationStatusPending).Count(&pendingVerifications)

	utils.JSONOK(ctx, iris.Map{
		"users":                 users,
		"companies":             companies,
		"jobs":                  jobs,
		"applications":          applications,
		"pending_verifications": pendingVerifications,
	})
}

// AdminListAuditLog - recent audit entries, newest first
func AdminListAuditLog(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 50)
	if perPage <= 0 || perPage > 200 {
		perPage = 50
	}

	var total int64
	storage.DB.Model(&models.AuditLog{}).Count(&total)

	var entries []models.AuditLog
	if err := storage.DB.Order("id desc").
		Offset((page - 1) * perPage).Limit(perPage).Find(&entries).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, entries, page, perPage, total)
}
