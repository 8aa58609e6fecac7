package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/parqio/spot-booking/internal/audit"
	"github.com/parqio/spot-booking/internal/config"
	"github.com/parqio/spot-booking/internal/geo"
	"github.com/parqio/spot-booking/internal/handlers"
	infraRepo "github.com/parqio/spot-booking/internal/infra/repository"
	"github.com/parqio/spot-booking/internal/media"
	"github.com/parqio/spot-booking/internal/middleware"
	"github.com/parqio/spot-booking/internal/notify"
	"github.com/parqio/spot-booking/internal/payments"
	"github.com/parqio/spot-booking/internal/ratelimit"
	ucAvailability "github.com/parqio/spot-booking/internal/usecase/availability"
	ucBooking "github.com/parqio/spot-booking/internal/usecase/booking"
	ucPayout "github.com/parqio/spot-booking/internal/usecase/payout"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, rdb *redis.Client, cfg *config.Config) {

	// ======================================================
	// 🌍 GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	pushSender := notify.NewExpoSender(cfg.ExpoPushURL)
	pushDispatcher := notify.NewDispatcher(db, pushSender)

	processor := payments.NewStripeProcessor(cfg.StripeSecretKey)

	tzResolver := geo.NewHTTPResolver(cfg.TimezoneAPIURL)

	photoStorage := media.NewStorage(media.Config{
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
	})

	payoutLimiter := ratelimit.NewPayoutLimiter(rdb, ratelimit.DefaultDailyPayouts)

	// ======================================================
	// 🧠 USE CASES — AVAILABILITY
	// ======================================================
	addWindowUC := ucAvailability.NewAddWindow(bookingRepo, auditDispatcher)
	updateWindowUC := ucAvailability.NewUpdateWindow(bookingRepo, auditDispatcher)
	removeWindowUC := ucAvailability.NewRemoveWindow(bookingRepo, auditDispatcher)

	// ======================================================
	// 🧠 USE CASES — BOOKINGS
	// ======================================================
	createBookingUC := ucBooking.NewCreateBooking(bookingRepo, processor, auditDispatcher, pushDispatcher)
	acceptRequestUC := ucBooking.NewAcceptRequest(bookingRepo, processor, auditDispatcher, pushDispatcher)
	denyRequestUC := ucBooking.NewDenyRequest(bookingRepo, processor, auditDispatcher, pushDispatcher)
	cancelBookingUC := ucBooking.NewCancelBooking(bookingRepo, processor, auditDispatcher, pushDispatcher)
	confirmPaymentUC := ucBooking.NewConfirmPayment(bookingRepo, processor, auditDispatcher, pushDispatcher)
	checkInOutUC := ucBooking.NewCheckInOut(bookingRepo, auditDispatcher)
	requestTimeChangeUC := ucBooking.NewRequestTimeChange(bookingRepo, auditDispatcher, pushDispatcher)
	resolveTimeChangeUC := ucBooking.NewResolveTimeChange(bookingRepo, auditDispatcher, pushDispatcher)
	blockedDatesUC := ucBooking.NewBlockedDates(bookingRepo)
	hostBalanceUC := ucBooking.NewHostBalance(bookingRepo)

	// ======================================================
	// 🧠 USE CASES — PAYOUTS
	// ======================================================
	requestPayoutUC := ucPayout.NewRequestPayout(
		bookingRepo,
		hostBalanceUC,
		processor,
		payoutLimiter,
		auditDispatcher,
	)
	listPayoutsUC := ucPayout.NewListPayouts(bookingRepo)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	vehicleHandler := handlers.NewVehicleHandler(db)
	spotHandler := handlers.NewSpotHandler(db, tzResolver, photoStorage)

	availabilityHandler := handlers.NewAvailabilityHandler(
		bookingRepo,
		addWindowUC,
		updateWindowUC,
		removeWindowUC,
	)

	bookingHandler := handlers.NewBookingHandler(
		bookingRepo,
		createBookingUC,
		acceptRequestUC,
		denyRequestUC,
		cancelBookingUC,
		confirmPaymentUC,
		checkInOutUC,
		requestTimeChangeUC,
		resolveTimeChangeUC,
		blockedDatesUC,
		hostBalanceUC,
	)

	payoutHandler := handlers.NewPayoutHandler(requestPayoutUC, listPayoutsUC)
	webhookHandler := handlers.NewStripeWebhookHandler(cfg, confirmPaymentUC)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// 💳 WEBHOOKS (signature-authenticated)
		// ------------------------------
		api.POST("/webhooks/stripe", webhookHandler.Handle)

		// ------------------------------
		// 🔐 PRIVATE API
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.PATCH("/me", meHandler.UpdateMe)
			secured.POST("/me/push-tokens", meHandler.RegisterPushToken)

			// ------------------------------
			// VEHICLES
			// ------------------------------
			secured.GET("/me/vehicles", vehicleHandler.List)
			secured.POST("/me/vehicles", vehicleHandler.Create)
			secured.PATCH("/me/vehicles/:id", vehicleHandler.Update)
			secured.DELETE("/me/vehicles/:id", vehicleHandler.Delete)

			// ------------------------------
			// SPOTS
			// ------------------------------
			secured.POST("/spots", spotHandler.Create)
			secured.GET("/me/spots", spotHandler.ListMine)
			secured.GET("/spots/:id", spotHandler.Get)
			secured.PATCH("/spots/:id", spotHandler.Update)
			secured.POST("/spots/:id/publish", spotHandler.Publish)
			secured.POST("/spots/:id/photo", spotHandler.UploadPhoto)
			secured.DELETE("/spots/:id", spotHandler.Delete)

			// ------------------------------
			// AVAILABILITY
			// ------------------------------
			secured.GET("/spots/:id/availability", availabilityHandler.List)
			secured.POST("/spots/:id/availability", availabilityHandler.Add)
			secured.PATCH("/spots/:id/availability/:windowId", availabilityHandler.Update)
			secured.DELETE("/spots/:id/availability/:windowId", availabilityHandler.Remove)

			secured.GET("/spots/:id/blocked-dates", bookingHandler.BlockedDates)

			// ------------------------------
			// BOOKINGS
			// ------------------------------
			secured.POST("/bookings", bookingHandler.Create)
			secured.GET("/me/bookings", bookingHandler.ListMine)
			secured.GET("/me/hosted-bookings", bookingHandler.ListHosted)
			secured.PATCH("/bookings/:id/accept", bookingHandler.Accept)
			secured.DELETE("/bookings/:id/deny", bookingHandler.Deny)
			secured.PATCH("/bookings/:id/cancel", bookingHandler.Cancel)
			secured.POST("/bookings/:id/confirm-payment", bookingHandler.ConfirmPayment)
			secured.POST("/bookings/:id/check", bookingHandler.Check)

			// ------------------------------
			// TIME CHANGES
			// ------------------------------
			secured.POST("/bookings/:id/time-changes", bookingHandler.RequestTimeChange)
			secured.PATCH("/time-changes/:changeId/accept", bookingHandler.AcceptTimeChange)
			secured.PATCH("/time-changes/:changeId/reject", bookingHandler.RejectTimeChange)

			// ------------------------------
			// BALANCE & PAYOUTS
			// ------------------------------
			secured.GET("/me/balance", bookingHandler.Balance)
			secured.POST("/me/payouts", payoutHandler.Request)
			secured.GET("/me/payouts", payoutHandler.List)

			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}
	}
}
