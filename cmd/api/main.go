package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/faltuinsaaan/campaignbackend/internal/config"
	"github.com/faltuinsaaan/campaignbackend/internal/dispatch"
	"github.com/faltuinsaaan/campaignbackend/internal/handler"
	"github.com/faltuinsaaan/campaignbackend/internal/mailer"
	"github.com/faltuinsaaan/campaignbackend/internal/middleware"
	"github.com/faltuinsaaan/campaignbackend/internal/queue"
	"github.com/faltuinsaaan/campaignbackend/internal/repository"
	"github.com/faltuinsaaan/campaignbackend/internal/service"
)

const version = "1.0.0"

func main() {
	// Load .env file (ignore error in production)
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := sql.Open("postgres", cfg.GetDatabaseDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Verify database connection
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("✅ Connected to database")

	// Repositories
	campaignRepo := repository.NewCampaignRepository(db)
	senderRepo := repository.NewSenderRepository(db)

	// Connect to RabbitMQ for the delivery audit trail. The API keeps
	// running without it; dispatch just skips publishing events.
	var queueConn *queue.Connection
	var publisher dispatch.DeliveryPublisher
	if conn, err := queue.NewConnection(cfg.GetRabbitMQURL()); err != nil {
		log.Printf("⚠️  RabbitMQ unavailable, delivery events disabled: %v", err)
	} else {
		queueConn = conn
		defer queueConn.Close()

		pub, err := queue.NewPublisher(queueConn, queue.DeliveryQueueName)
		if err != nil {
			log.Fatalf("Failed to create publisher: %v", err)
		}
		publisher = pub
		log.Println("✅ Connected to RabbitMQ")
	}

	// Outbound mail transport
	var m mailer.Mailer
	if cfg.SMTP.Simulate {
		m = mailer.NewSimulator(0.95) // 95% success rate
		log.Println("✅ Mailer initialized (simulated)")
	} else {
		m = mailer.NewSMTPMailer(cfg.GetSMTPAddr(), cfg.SMTP.Username, cfg.SMTP.Password)
		log.Printf("✅ Mailer initialized (SMTP relay %s)", cfg.GetSMTPAddr())
	}

	// Services
	templateSvc := service.NewTemplateService()

	// Dispatch scheduler
	scheduler := dispatch.NewScheduler(
		campaignRepo,
		senderRepo,
		m,
		templateSvc,
		publisher,
		cfg.Dispatch.Recipients,
		nil, // system clock
	)
	if err := scheduler.RegisterDailyReset(); err != nil {
		log.Fatalf("Failed to register daily reset: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	campaignSvc := service.NewCampaignService(campaignRepo, scheduler)
	senderSvc := service.NewSenderService(senderRepo)

	var queueChecker service.QueueChecker
	if queueConn != nil {
		queueChecker = queueConn
	}
	healthSvc := service.NewHealthService(db, queueChecker, scheduler, version)
	log.Println("✅ Services initialized")

	// Replay stored campaigns into the scheduler (jobs are in-memory only)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	count, err := campaignSvc.RescheduleStored(ctx)
	cancel()
	if err != nil {
		log.Fatalf("Failed to reschedule stored campaigns: %v", err)
	}
	log.Printf("✅ Rescheduled %d stored campaigns", count)

	// Handlers
	campaignHandler := handler.NewCampaignHandler(campaignSvc, senderSvc, templateSvc)
	senderHandler := handler.NewSenderHandler(senderSvc)
	healthHandler := handler.NewHealthHandler(healthSvc)

	// Create router
	router := mux.NewRouter()
	router.Use(middleware.Recovery)

	// Health endpoint
	router.HandleFunc("/health", healthHandler.HandleHealth).Methods("GET")

	// Campaign endpoints
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/campaigns", campaignHandler.Create).Methods("POST")
	api.HandleFunc("/campaigns", campaignHandler.List).Methods("GET")
	api.HandleFunc("/campaigns/{id}", campaignHandler.GetByID).Methods("GET")
	api.HandleFunc("/campaigns/{id}", campaignHandler.Update).Methods("PUT")
	api.HandleFunc("/campaigns/{id}", campaignHandler.Delete).Methods("DELETE")
	api.HandleFunc("/campaigns/{id}/preview", campaignHandler.Preview).Methods("POST")

	// Sender endpoints
	api.HandleFunc("/senders", senderHandler.Create).Methods("POST")
	api.HandleFunc("/senders", senderHandler.List).Methods("GET")
	api.HandleFunc("/senders/{id}", senderHandler.GetByID).Methods("GET")
	api.HandleFunc("/senders/{id}", senderHandler.Update).Methods("PUT")
	api.HandleFunc("/senders/{id}", senderHandler.Delete).Methods("DELETE")

	// Start server
	port := ":" + cfg.Server.Port
	server := &http.Server{
		Addr:         port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("🚀 API Server starting on port %s", port)
		log.Printf("📍 Health check: http://localhost%s/health", port)
		log.Printf("🌍 Environment: %s", cfg.Env)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("🛑 Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down server: %v", err)
	}

	log.Println("✅ API server stopped")
}
