package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"github.com/whatsuppbro/tp-jobseeker-sub000/routes"
	"github.com/whatsuppbro/tp-jobseeker-sub000/storage"
	"github.com/whatsuppbro/tp-jobseeker-sub000/utils"
)

func main() {
	// Only load .env in development
	if os.Getenv("RENDER") == "" {
		godotenv.Load()
	}

	// Initialize services
	storage.InitializeDB()
	storage.InitializeUploads()
	storage.InitializeRedis()

	app := iris.New()
	app.Validator = validator.New()

	// CORS configuration
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	// JWT Verifiers
	resetTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("EMAIL_TOKEN_SECRET")))
	resetTokenVerifier.WithDefaultBlocklist()
	resetTokenVerifierMiddleware := resetTokenVerifier.Verify(func() interface{} {
		return new(utils.ForgotPasswordToken)
	})

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		err := ctx.ReadJSON(&tokenInput)
		if err != nil {
			return ""
		}
		return tokenInput.RefreshToken
	})

	// Health check endpoint
	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok"})
	})

	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Post("/google", routes.GoogleLoginOrSignUp)
		user.Post("/apple", routes.AppleLoginOrSignUp)
		user.Post("/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)
		user.Post("/forgotpassword", routes.ForgotPassword)
		user.Post("/resetpassword", resetTokenVerifierMiddleware, routes.ResetPassword)
		user.Get("/{id:uint}", accessTokenVerifierMiddleware, routes.GetUser)
		user.Patch("/{id:uint}/pushtoken", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.AlterPushToken)
		user.Patch("/{id:uint}/settings/notifications", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.AllowsNotifications)
	}

	seeker := app.Party("/api/seeker", accessTokenVerifierMiddleware, utils.SeekerRoleMiddleware)
	{
		seeker.Get("/profile", routes.GetSeekerProfile)
		seeker.Post("/profile", routes.CreateOrUpdateSeekerProfile)
		seeker.Put("/profile", routes.CreateOrUpdateSeekerProfile)
		seeker.Delete("/profile", routes.DeleteSeekerProfile)
	}

	company := app.Party("/api/company")
	{
		company.Get("/{id:uint}", routes.GetCompany)
		company.Post("/", accessTokenVerifierMiddleware, utils.CompanyRoleMiddleware, routes.CreateCompany)
		company.Get("/mine", accessTokenVerifierMiddleware, utils.CompanyRoleMiddleware, routes.GetMyCompany)
		company.Patch("/{id:uint}", accessTokenVerifierMiddleware, utils.CompanyRoleMiddleware, routes.UpdateCompany)

		// Verification: the owner submits evidence, admins review the queue
		company.Post("/verification", accessTokenVerifierMiddleware, utils.CompanyRoleMiddleware, routes.SubmitCompanyVerification)
		company.Get("/verification/all", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware, routes.ListAllVerifications)
		company.Get("/verification/{id:uint}", accessTokenVerifierMiddleware, routes.GetCompanyVerification)
	}

	verification := app.Party("/api/verification", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		verification.Put("/status/{id:uint}", routes.DecideVerification)
		verification.Post("/", routes.CreateVerification)
		verification.Get("/{id:uint}", routes.GetVerification)
	}

	job := app.Party("/api/job")
	{
		job.Get("/", routes.ListJobs)
		job.Get("/{id:uint}", routes.GetJob)
		job.Post("/", accessTokenVerifierMiddleware, utils.CompanyRoleMiddleware, routes.CreateJob)
		job.Get("/mine", accessTokenVerifierMiddleware, utils.CompanyRoleMiddleware, routes.ListCompanyJobs)
		job.Patch("/{id:uint}", accessTokenVerifierMiddleware, utils.CompanyRoleMiddleware, routes.UpdateJob)
		job.Post("/{id:uint}/close", accessTokenVerifierMiddleware, utils.CompanyRoleMiddleware, routes.CloseJob)
		job.Delete("/{id:uint}", accessTokenVerifierMiddleware, utils.CompanyRoleMiddleware, routes.DeleteJob)
	}

	application := app.Party("/api/application")
	{
		application.Post("/", accessTokenVerifierMiddleware, utils.SeekerRoleMiddleware, routes.CreateApplication)
		application.Get("/mine", accessTokenVerifierMiddleware, utils.SeekerRoleMiddleware, routes.ListMyApplications)
		application.Get("/job/{id:uint}", accessTokenVerifierMiddleware, utils.CompanyRoleMiddleware, routes.ListJobApplications)
		application.Patch("/{id:uint}/status", accessTokenVerifierMiddleware, utils.CompanyRoleMiddleware, routes.UpdateApplicationStatus)
		application.Post("/{id:uint}/withdraw", accessTokenVerifierMiddleware, utils.SeekerRoleMiddleware, routes.WithdrawApplication)
	}

	notification := app.Party("/api/notification", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		notification.Get("/", routes.ListNotifications)
		notification.Patch("/read-all", routes.MarkAllNotificationsRead)
		notification.Patch("/{id:uint}/read", routes.MarkNotificationRead)
	}

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Get("/users", routes.AdminListUsers)
		admin.Get("/users/{id:uint}", routes.AdminGetUser)
		admin.Patch("/users/{id:uint}/role", utils.SuperAdminOnlyMiddleware, routes.AdminChangeUserRole)
		admin.Patch("/users/{id:uint}/suspend", routes.AdminSuspendUser)
		admin.Get("/companies", routes.AdminListCompanies)
		admin.Get("/jobs", routes.AdminListJobs)
		admin.Post("/jobs/{id:uint}/flag", routes.AdminFlagJob)
		admin.Get("/applications", routes.AdminListApplications)
		admin.Get("/stats", routes.AdminStats)
		admin.Get("/audit", routes.AdminListAuditLog)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}

	log.Println("Server starting on port " + port)
	app.Listen(":" + port)
}
