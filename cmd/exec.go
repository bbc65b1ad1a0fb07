package cmd

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	pubnub "github.com/pubnub/go"

	"ticketing-system/config"
	"ticketing-system/internal/clock"
	"ticketing-system/internal/handlers"
	"ticketing-system/internal/services"
	"ticketing-system/internal/store"
	_ "ticketing-system/migrations"
	"ticketing-system/monitoring"
	"ticketing-system/security"
	"ticketing-system/utils"
)

func Start() error {
	app := pocketbase.New()

	// Load configuration
	cfg := config.LoadConfig()

	// Initialize Redis
	redisClient, err := utils.NewRedisClient(cfg.RedisURL)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	// Initialize PubNub (optional; without keys notifications stay store-only)
	var publisher services.RealtimePublisher
	if cfg.PubNubPublishKey != "" {
		pnConfig := pubnub.NewConfig()
		pnConfig.PublishKey = cfg.PubNubPublishKey
		pnConfig.SubscribeKey = cfg.PubNubSubscribeKey
		pnConfig.SecretKey = cfg.PubNubSecretKey
		publisher = services.NewPubNubPublisher(pubnub.NewPubNub(pnConfig))
	}

	// Initialize services
	st := store.NewPB(app)
	clk := clock.NewSystem()
	window := services.ScanWindow{Before: cfg.ScanWindowBefore, After: cfg.ScanWindowAfter}

	notificationService := services.NewNotificationService(st, publisher, clk)
	attendanceService := services.NewAttendanceService(st, window, redisClient)
	eventService := services.NewEventService(st, clk, notificationService)
	ticketService := services.NewTicketService(st, clk, notificationService)
	paymentService := services.NewPaymentService(st, clk)
	authService := services.NewAuthService(st)
	userService := services.NewUserService(st)
	roleService := services.NewRoleService(st)
	dashboardService := services.NewDashboardService(st, clk)

	// Initialize handlers
	attendanceHandler := handlers.NewAttendanceHandler(attendanceService)
	eventHandler := handlers.NewEventHandler(eventService)
	ticketHandler := handlers.NewTicketHandler(ticketService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService, notificationService)
	roleHandler := handlers.NewRoleHandler(roleService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	limiter := security.NewRateLimiter(redisClient, cfg.ScanRateLimitPerMinute)

	// Enable migrations
	migratecmd.MustRegister(app, app.RootCmd, migratecmd.Config{
		Automigrate: true,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.EnableMetrics {
		monitoring.NewMonitor(ctx, redisClient)
	}

	// Setup graceful shutdown
	go handleShutdown(cancel)

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// Attendance endpoints
		se.Router.POST("/api/attendance", attendanceHandler.RecordScan).
			BindFunc(limiter.ScanRateLimit())
		se.Router.GET("/api/attendance", attendanceHandler.ListLogs)
		se.Router.GET("/api/attendance/{id}", attendanceHandler.GetLog)
		se.Router.DELETE("/api/attendance/{id}", attendanceHandler.DeleteLog)
		se.Router.GET("/api/attendance/user/{id}", attendanceHandler.ListByUser)
		se.Router.GET("/api/attendance/event/{id}", attendanceHandler.ListByEvent)
		se.Router.GET("/api/attendance/event/{id}/recent", attendanceHandler.RecentScans)
		se.Router.GET("/api/attendance/event/{id}/stats", attendanceHandler.Stats)

		// Event endpoints
		se.Router.GET("/api/events", eventHandler.ListEvents)
		se.Router.POST("/api/events", eventHandler.CreateEvent)
		se.Router.GET("/api/events/{id}", eventHandler.GetEvent)
		se.Router.PUT("/api/events/{id}", eventHandler.UpdateEvent)
		se.Router.DELETE("/api/events/{id}", eventHandler.DeleteEvent)
		se.Router.POST("/api/events/{id}/cancel", eventHandler.CancelEvent)
		se.Router.POST("/api/events/{id}/view", eventHandler.TrackView)

		// Ticket endpoints
		se.Router.GET("/api/tickets", ticketHandler.ListTickets)
		se.Router.POST("/api/tickets/book", ticketHandler.BookTickets)
		se.Router.GET("/api/tickets/{id}", ticketHandler.GetTicket)
		se.Router.PUT("/api/tickets/{id}", ticketHandler.UpdateTicket)
		se.Router.DELETE("/api/tickets/{id}", ticketHandler.DeleteTicket)
		se.Router.POST("/api/tickets/{id}/refund", ticketHandler.RefundTicket)
		se.Router.GET("/api/tickets/qr/{code}", ticketHandler.GetByQRCode)
		se.Router.GET("/api/tickets/user/{id}", ticketHandler.ListByUser)
		se.Router.GET("/api/tickets/event/{id}", ticketHandler.ListByEvent)

		// Payment endpoints
		se.Router.GET("/api/payments", paymentHandler.ListPayments)
		se.Router.POST("/api/payments", paymentHandler.CreatePayment)
		se.Router.GET("/api/payments/{id}", paymentHandler.GetPayment)
		se.Router.PATCH("/api/payments/{id}/status", paymentHandler.UpdateStatus)
		se.Router.GET("/api/payments/reference/{ref}", paymentHandler.GetByReference)
		se.Router.GET("/api/payments/user/{id}", paymentHandler.ListByUser)
		se.Router.GET("/api/payments/event/{id}", paymentHandler.ListByEvent)

		// Auth endpoints
		se.Router.POST("/api/auth/signup", authHandler.Signup)
		se.Router.POST("/api/auth/login", authHandler.Login)

		// User and role endpoints
		se.Router.GET("/api/users", userHandler.ListUsers)
		se.Router.GET("/api/users/{id}", userHandler.GetUser)
		se.Router.PUT("/api/users/{id}", userHandler.UpdateUser)
		se.Router.DELETE("/api/users/{id}", userHandler.DeleteUser)
		se.Router.GET("/api/users/email/{email}", userHandler.GetByEmail)
		se.Router.GET("/api/users/{id}/notifications", userHandler.ListNotifications)
		se.Router.GET("/api/roles", roleHandler.ListRoles)
		se.Router.POST("/api/roles", roleHandler.CreateRole)
		se.Router.GET("/api/roles/{id}", roleHandler.GetRole)
		se.Router.PUT("/api/roles/{id}", roleHandler.UpdateRole)
		se.Router.DELETE("/api/roles/{id}", roleHandler.DeleteRole)

		// Dashboard endpoints
		se.Router.GET("/api/dashboard/attendee/{id}", dashboardHandler.Attendee)
		se.Router.GET("/api/dashboard/organizer/{id}", dashboardHandler.Organizer)
		se.Router.GET("/api/dashboard/staff/event/{id}", dashboardHandler.Staff)

		// Prometheus metrics
		if cfg.EnableMetrics {
			se.Router.GET("/metrics", apis.WrapStdHandler(promhttp.Handler()))
		}

		// Health check
		se.Router.GET("/health", func(e *core.RequestEvent) error {
			if err := utils.RedisHealthCheck(e.Request.Context(), redisClient); err != nil {
				return e.JSON(http.StatusServiceUnavailable, map[string]string{
					"status": "unhealthy",
					"error":  err.Error(),
				})
			}
			return e.JSON(http.StatusOK, map[string]string{"status": "healthy"})
		})

		log.Println("Server routes registered")

		return se.Next()
	})

	// Start server
	return app.Start()
}

// handleShutdown handles graceful shutdown
func handleShutdown(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Println("Shutdown signal received, cleaning up...")
	cancel()
}
