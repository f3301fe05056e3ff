package routes

import (
	"encoding/json"
	"fmt"
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
	"github.com/whatsuppbro/tp-jobseeker-sub000/services"
	"github.com/whatsuppbro/tp-jobseeker-sub000/storage"
	"github.com/whatsuppbro/tp-jobseeker-sub000/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// buildVerificationTestApp wires the verification routes against an in-memory
// database, with the same JWT verifier and role middlewares as main
func buildVerificationTestApp(t *testing.T) *iris.Application {
	t.Helper()
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.Verification{},
		&models.VerificationHistory{},
		&models.Notification{},
		&models.AuditLog{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	storage.DB = db

	app := iris.New()
	app.Validator = validator.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} { return new(utils.AccessToken) })

	company := app.Party("/api/company")
	{
		company.Post("/verification", accessTokenVerifierMiddleware, utils.CompanyRoleMiddleware, SubmitCompanyVerification)
		company.Get("/verification/{id:uint}", accessTokenVerifierMiddleware, GetCompanyVerification)
	}

	verification := app.Party("/api/verification", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		verification.Put("/status/{id:uint}", DecideVerification)
		verification.Get("/{id:uint}", GetVerification)
	}

	if err := app.Build(); err != nil {
		t.Fatalf("failed to build app: %v", err)
	}
	return app
}

// signVerificationTestToken returns a signed JWT for the given user and role
func signVerificationTestToken(id uint, role string) string {
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), 0)
	token, _ := signer.Sign(utils.AccessToken{ID: id, Role: role})
	return string(token)
}

func seedCompanyWithOwner(t *testing.T) models.Company {
	t.Helper()
	user := models.User{FirstName: "Olga", LastName: "Owner", Email: "owner@example.com", Role: "company"}
	if err := storage.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	company := models.Company{UserID: user.ID, Name: "Acme Logistics"}
	if err := storage.DB.Create(&company).Error; err != nil {
		t.Fatalf("failed to seed company: %v", err)
	}
	return company
}

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

func TestDecideVerificationRBAC(t *testing.T) {
	app := buildVerificationTestApp(t)

	company := seedCompanyWithOwner(t)
	submitted, err := services.NewVerificationService(storage.DB).Submit(services.SubmitInput{
		CompanyID:   company.ID,
		VerifiedURL: "https://acme.example.com",
	})
	if err != nil {
		t.Fatalf("failed to seed verification: %v", err)
	}

	url := fmt.Sprintf("/api/verification/status/%d", submitted.ID)
	body := `{"action":"approve"}`

	// No token
	req := httptest.NewRequest(http.MethodPut, url, strings.NewReader(body))
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code == http.StatusOK {
		t.Fatalf("expected non-200 without token, got %d", resp.Code)
	}

	// Seeker role -> 403
	req2 := httptest.NewRequest(http.MethodPut, url, strings.NewReader(body))
	req2.Header.Set("Authorization", "Bearer "+signVerificationTestToken(5, "seeker"))
	req2.Header.Set("Content-Type", "application/json")
	resp2 := httptest.NewRecorder()
	app.ServeHTTP(resp2, req2)
	if resp2.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for seeker role, got %d", resp2.Code)
	}

	// Admin role -> 200 and the request ends up verified
	req3 := httptest.NewRequest(http.MethodPut, url, strings.NewReader(body))
	req3.Header.Set("Authorization", "Bearer "+signVerificationTestToken(9, "admin"))
	req3.Header.Set("Content-Type", "application/json")
	resp3 := httptest.NewRecorder()
	app.ServeHTTP(resp3, req3)
	if resp3.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin role, got %d: %s", resp3.Code, resp3.Body.String())
	}

	var env envelope
	if err := json.Unmarshal(resp3.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	var decided models.Verification
	if err := json.Unmarshal(env.Data, &decided); err != nil {
		t.Fatalf("failed to decode verification: %v", err)
	}
	if decided.Status != models.VerificationStatusVerified {
		t.Fatalf("expected verified status, got %q", decided.Status)
	}

	// The decision is audited with real before/after snapshots
	var audit models.AuditLog
	if err := storage.DB.Where("action = ?", "verification.approve").First(&audit).Error; err != nil {
		t.Fatalf("expected an audit entry: %v", err)
	}
	if !strings.Contains(audit.BeforeJSON, `"status":"pending"`) {
		t.Fatalf("expected pending before-snapshot, got %s", audit.BeforeJSON)
	}
	if audit.BeforeJSON == "null" {
		t.Fatalf("before-snapshot serialized as null")
	}
	if !strings.Contains(audit.AfterJSON, `"status":"verified"`) {
		t.Fatalf("expected verified after-snapshot, got %s", audit.AfterJSON)
	}

	// And the history is visible through the admin detail endpoint
	req4 := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/verification/%d", submitted.ID), nil)
	req4.Header.Set("Authorization", "Bearer "+signVerificationTestToken(9, "admin"))
	resp4 := httptest.NewRecorder()
	app.ServeHTTP(resp4, req4)
	if resp4.Code != http.StatusOK {
		t.Fatalf("expected 200 for detail view, got %d", resp4.Code)
	}
	if !strings.Contains(resp4.Body.String(), `"action":"approve"`) {
		t.Fatalf("expected history entry in response, got %s", resp4.Body.String())
	}
}

func TestDecideVerificationRejectWithoutReason(t *testing.T) {
	app := buildVerificationTestApp(t)

	company := seedCompanyWithOwner(t)
	_, err := services.NewVerificationService(storage.DB).Submit(services.SubmitInput{
		CompanyID:   company.ID,
		VerifiedURL: "https://acme.example.com",
	})
	if err != nil {
		t.Fatalf("failed to seed verification: %v", err)
	}

	req := httptest.NewRequest(http.MethodPut, "/api/verification/status/1", strings.NewReader(`{"action":"reject"}`))
	req.Header.Set("Authorization", "Bearer "+signVerificationTestToken(9, "admin"))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for reject without reason, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestSubmitCompanyVerificationEndpoint(t *testing.T) {
	app := buildVerificationTestApp(t)
	company := seedCompanyWithOwner(t)

	body := `{"verified_url":"https://acme.example.com","verified_description":"Registered freight company since 2009","document_type":"business_license","document_url":"https://cdn.example.com/docs/license.pdf"}`
	req := httptest.NewRequest(http.MethodPost, "/api/company/verification", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+signVerificationTestToken(company.UserID, "company"))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for owner submission, got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), `"status":"pending"`) {
		t.Fatalf("expected pending verification, got %s", resp.Body.String())
	}
}

func TestGetCompanyVerificationUnverifiedDefault(t *testing.T) {
	app := buildVerificationTestApp(t)
	company := seedCompanyWithOwner(t)

	req := httptest.NewRequest(http.MethodGet, "/api/company/verification/1", nil)
	req.Header.Set("Authorization", "Bearer "+signVerificationTestToken(company.UserID, "company"))
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"status":"unverified"`) {
		t.Fatalf("expected implicit unverified status, got %s", resp.Body.String())
	}
}
