package routes

import (
	"time"

	"github.com/kataras/iris/v12"
	"github.com/whatsuppbro/tp-jobseeker-sub000/models"
	"github.com/whatsuppbro/tp-jobseeker-sub000/storage"
	"github.com/whatsuppbro/tp-jobseeker-sub000/utils"
)

// ListNotifications returns the current user's notifications, newest first
func ListNotifications(ctx iris.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		utils.CreateError(iris.StatusUnauthorized, "unauthorized", "User ID not found in context", ctx)
		return
	}

	unreadOnly := ctx.URLParamDefault("unread", "") == "true"

	query := storage.DB.Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var notifications []models.Notification
	if err := query.Order("id desc").Limit(100).Find(&notifications).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONOK(ctx, notifications)
}

// MarkNotificationRead - PATCH /api/notification/{id}/read
func MarkNotificationRead(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "invalid_id", "Invalid notification ID", ctx)
		return
	}

	userID, ok := currentUserID(ctx)
	if !ok {
		utils.CreateError(iris.StatusUnauthorized, "unauthorized", "User ID not found in context", ctx)
		return
	}

	var notification models.Notification
	if err := storage.DB.First(&notification, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if notification.UserID != userID {
		utils.CreateForbidden(ctx)
		return
	}

	now := time.Now()
	notification.IsRead = true
	notification.ReadAt = &now
	if err := storage.DB.Save(&notification).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONOK(ctx, &notification)
}

// MarkAllNotificationsRead - PATCH /api/notification/read-all
func MarkAllNotificationsRead(ctx iris.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		utils.CreateError(iris.StatusUnauthorized, "unauthorized", "User ID not found in context", ctx)
		return
	}

	now := time.Now()
	result := storage.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now})
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONOK(ctx, iris.Map{"updated": result.RowsAffected})
}
