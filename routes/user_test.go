package routes

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"github.com/whatsuppbro/tp-jobseeker-sub000/models"
	"github.com/whatsuppbro/tp-jobseeker-sub000/storage"
	"github.com/whatsuppbro/tp-jobseeker-sub000/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// buildPasswordResetTestApp wires the forgot/reset password routes with the
// reset-token verifier from main
func buildPasswordResetTestApp(t *testing.T) *iris.Application {
	t.Helper()
	os.Setenv("EMAIL_TOKEN_SECRET", "testemailsecret")
	os.Unsetenv("SENDGRID_API_KEY")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	storage.DB = db

	app := iris.New()
	app.Validator = validator.New()

	resetTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("EMAIL_TOKEN_SECRET")))
	resetTokenVerifierMiddleware := resetTokenVerifier.Verify(func() interface{} {
		return new(utils.ForgotPasswordToken)
	})

	user := app.Party("/api/user")
	{
		user.Post("/forgotpassword", ForgotPassword)
		user.Post("/resetpassword", resetTokenVerifierMiddleware, ResetPassword)
	}

	if err := app.Build(); err != nil {
		t.Fatalf("failed to build app: %v", err)
	}
	return app
}

func seedPasswordUser(t *testing.T, email, password string) models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := models.User{FirstName: "Rina", Email: email, Password: string(hashed), Role: "seeker"}
	if err := storage.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func TestForgotPasswordRejections(t *testing.T) {
	app := buildPasswordResetTestApp(t)
	seedPasswordUser(t, "rina@example.com", "original-pass")

	social := models.User{Email: "social@example.com", SocialLogin: true, SocialProvider: "Google", Role: "seeker"}
	if err := storage.DB.Create(&social).Error; err != nil {
		t.Fatalf("failed to seed social user: %v", err)
	}

	// Unknown email
	req := httptest.NewRequest(http.MethodPost, "/api/user/forgotpassword", strings.NewReader(`{"email":"nobody@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown email, got %d", resp.Code)
	}

	// Social account has no password to reset
	req2 := httptest.NewRequest(http.MethodPost, "/api/user/forgotpassword", strings.NewReader(`{"email":"social@example.com"}`))
	req2.Header.Set("Content-Type", "application/json")
	resp2 := httptest.NewRecorder()
	app.ServeHTTP(resp2, req2)
	if resp2.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for social account, got %d", resp2.Code)
	}
}

func TestForgotPasswordWithoutMailProvider(t *testing.T) {
	app := buildPasswordResetTestApp(t)
	seedPasswordUser(t, "rina@example.com", "original-pass")

	// With no mail API key configured nothing is sent, but the request succeeds
	req := httptest.NewRequest(http.MethodPost, "/api/user/forgotpassword", strings.NewReader(`{"email":"rina@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), `"emailSent":false`) {
		t.Fatalf("expected emailSent false, got %s", resp.Body.String())
	}
}

func TestResetPasswordWithToken(t *testing.T) {
	app := buildPasswordResetTestApp(t)
	user := seedPasswordUser(t, "rina@example.com", "original-pass")

	// No token -> refused
	req := httptest.NewRequest(http.MethodPost, "/api/user/resetpassword", strings.NewReader(`{"password":"brand-new-pass"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code == http.StatusOK {
		t.Fatalf("expected non-200 without reset token, got %d", resp.Code)
	}

	token, err := utils.CreateForgotPasswordToken(user.ID, user.Email)
	if err != nil {
		t.Fatalf("failed to create reset token: %v", err)
	}

	req2 := httptest.NewRequest(http.MethodPost, "/api/user/resetpassword", strings.NewReader(`{"password":"brand-new-pass"}`))
	req2.Header.Set("Authorization", "Bearer "+token)
	req2.Header.Set("Content-Type", "application/json")
	resp2 := httptest.NewRecorder()
	app.ServeHTTP(resp2, req2)
	if resp2.Code != http.StatusOK {
		t.Fatalf("expected 200 for valid reset token, got %d: %s", resp2.Code, resp2.Body.String())
	}

	var updated models.User
	if err := storage.DB.First(&updated, user.ID).Error; err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("brand-new-pass")); err != nil {
		t.Fatalf("new password does not match stored hash: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("original-pass")); err == nil {
		t.Fatalf("old password still matches after reset")
	}
}
