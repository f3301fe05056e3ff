package services

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/whatsuppbro/tp-jobseeker-sub000/models"
	"github.com/whatsuppbro/tp-jobseeker-sub000/storage"
	"github.com/whatsuppbro/tp-jobseeker-sub000/utils"
	"gorm.io/gorm"
)

// NotificationService persists in-app notifications and handles push delivery
type NotificationService struct {
	db *gorm.DB
}

// NewNotificationService creates a notification service; a nil db falls back
// to the global connection.
func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

func (ns *NotificationService) database() *gorm.DB {
	if ns.db != nil {
		return ns.db
	}
	return storage.DB
}

// NotificationData represents the data payload for push notifications
type NotificationData struct {
	Type    string `json:"type"`
	RefType string `json:"refType,omitempty"`
	RefID   string `json:"refId,omitempty"`
	Screen  string `json:"screen,omitempty"` // target screen for deep linking
}

// getUserPushTokens retrieves all push tokens for a user
func (ns *NotificationService) getUserPushTokens(userID uint) ([]string, error) {
	var user models.User
	if err := ns.database().First(&user, userID).Error; err != nil {
		return nil, fmt.Errorf("user not found: %v", err)
	}

	if user.AllowsNotifications == nil || !*user.AllowsNotifications || user.PushTokens == nil {
		return nil, fmt.Errorf("user has notifications disabled or no tokens")
	}

	var tokens []string
	if err := json.Unmarshal(user.PushTokens, &tokens); err != nil {
		return nil, fmt.Errorf("failed to unmarshal push tokens: %v", err)
	}

	return tokens, nil
}

// SendPushToUser delivers a push notification to every registered device of a
// user. Delivery is best effort; the last error is returned for logging.
func (ns *NotificationService) SendPushToUser(userID uint, title, body string, data NotificationData) error {
	tokens, err := ns.getUserPushTokens(userID)
	if err != nil {
		return err
	}

	dataMap := map[string]string{
		"type":    data.Type,
		"refType": data.RefType,
		"refId":   data.RefID,
		"screen":  data.Screen,
	}

	var lastError error
	for _, token := range tokens {
		if err := utils.SendPushNotification(token, title, body, dataMap); err != nil {
			log.Printf("Failed to send push to token %s: %v", token, err)
			lastError = err
		}
	}

	return lastError
}

// SendPersistedNotification pushes an already-stored notification row to the
// user's devices. Callers invoke this after their transaction commits.
func (ns *NotificationService) SendPersistedNotification(n models.Notification) error {
	data := NotificationData{
		Type:    n.Type,
		RefType: n.RefType,
		RefID:   fmt.Sprintf("%d", n.RefID),
	}
	return ns.SendPushToUser(n.UserID, n.Title, n.Message, data)
}

// Notify stores an in-app notification and pushes it to the user's devices.
// The row is the source of truth; push failures are logged only.
func (ns *NotificationService) Notify(userID uint, ntype, title, message, refType string, refID uint) (*models.Notification, error) {
	notification := models.Notification{
		UserID:  userID,
		Type:    ntype,
		Title:   title,
		Message: message,
		RefType: refType,
		RefID:   refID,
	}
	if err := ns.database().Create(&notification).Error; err != nil {
		return nil, err
	}

	if err := ns.SendPersistedNotification(notification); err != nil {
		log.Printf("Failed to push notification %d to user %d: %v", notification.ID, userID, err)
	}

	return &notification, nil
}

// NotifyApplicationStatus tells a seeker their application moved
func (ns *NotificationService) NotifyApplicationStatus(seekerUserID, applicationID uint, jobTitle, status string) (*models.Notification, error) {
	var title, message string
	switch status {
	case models.ApplicationStatusAccepted:
		title = "Application accepted"
		message = fmt.Sprintf("Congratulations! Your application for %q has been accepted.", jobTitle)
	case models.ApplicationStatusRejected:
		title = "Application update"
		message = fmt.Sprintf("Your application for %q was not selected this time.", jobTitle)
	default:
		title = "Application update"
		message = fmt.Sprintf("Your application for %q is now %s.", jobTitle, status)
	}
	return ns.Notify(seekerUserID, "application_status", title, message, "application", applicationID)
}

// NotifyNewApplicant tells a company user someone applied to their job
func (ns *NotificationService) NotifyNewApplicant(companyUserID, applicationID uint, jobTitle, seekerName string) (*models.Notification, error) {
	title := "New applicant"
	message := fmt.Sprintf("%s applied to %q.", seekerName, jobTitle)
	return ns.Notify(companyUserID, "new_applicant", title, message, "application", applicationID)
}
