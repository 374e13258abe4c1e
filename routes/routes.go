package routes

import (
	"github.com/Govind-619/PayGate/config"
	"github.com/Govind-619/PayGate/controllers"
	"github.com/Govind-619/PayGate/middleware"
	"github.com/Govind-619/PayGate/services"
	"github.com/Govind-619/PayGate/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// Dependencies is everything the HTTP layer needs. DB may be nil when the
// in-memory store is used.
type Dependencies struct {
	Config   *config.Config
	Accounts *services.AccountService
	Payments *services.PaymentService
	DB       controllers.Pinger
}

// SetupRouter initializes and returns the Gin router with all routes
func SetupRouter(deps Dependencies) *gin.Engine {
	router := gin.New()

	router.Use(utils.RequestIDMiddleware())
	router.Use(utils.LoggerMiddleware())
	router.Use(utils.RecoveryMiddleware())
	router.Use(utils.SecurityHeadersMiddleware())
	router.Use(utils.CORSMiddleware(deps.Config.CORSOrigins))

	store := cookie.NewStore([]byte(deps.Config.SessionSecret))
	store.Options(sessions.Options{
		MaxAge:   deps.Config.SessionMaxAge,
		Path:     "/",
		Secure:   deps.Config.CookieSecure,
		HttpOnly: true,
	})
	router.Use(sessions.Sessions(utils.SessionName, store))

	authController := controllers.NewAuthController(deps.Accounts)
	paymentController := controllers.NewPaymentController(deps.Payments)
	webhookController := controllers.NewWebhookController(deps.Payments)
	healthController := controllers.NewHealthController(deps.DB)

	requireSession := middleware.SessionAuthMiddleware(deps.Accounts)

	// Provider callbacks carry no session
	router.POST("/webhook", webhookController.HandleWebhook)

	api := router.Group("/api")
	{
		api.GET("/health", healthController.Health)

		initAuthRoutes(api.Group("/auth"), authController, requireSession)
		initPaymentRoutes(api.Group("/payments"), paymentController, requireSession)
	}

	return router
}

func initAuthRoutes(auth *gin.RouterGroup, ctl *controllers.AuthController, requireSession gin.HandlerFunc) {
	auth.POST("/signup", ctl.Signup)
	auth.POST("/login", ctl.Login)

	protected := auth.Group("")
	protected.Use(requireSession)
	{
		protected.POST("/logout", ctl.Logout)
		protected.GET("/user", ctl.CurrentUser)
	}
}

func initPaymentRoutes(payments *gin.RouterGroup, ctl *controllers.PaymentController, requireSession gin.HandlerFunc) {
	payments.Use(requireSession)
	{
		payments.POST("/create-order", ctl.CreateOrder)
		payments.POST("/verify", ctl.VerifyPayment)
		payments.POST("/failure", ctl.ReportFailure)
		payments.GET("/transactions", ctl.ListTransactions)
		payments.GET("/transactions/export", ctl.ExportTransactions)
		payments.GET("/transactions/:id", ctl.GetTransaction)
		payments.GET("/transactions/:id/logs", ctl.GetTransactionLogs)
	}
}
