package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/faltuinsaaan/campaignbackend/internal/config"
	"github.com/faltuinsaaan/campaignbackend/internal/queue"
)

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

	// Connect to RabbitMQ
	conn, err := queue.NewConnection(cfg.GetRabbitMQURL())
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer conn.Close()
	log.Println("✅ Connected to RabbitMQ")

	// Create delivery event handler
	handler := createDeliveryHandler(db)

	// Start consumer
	consumer, err := queue.NewConsumer(conn, queue.DeliveryQueueName, handler)
	if err != nil {
		log.Fatalf("Failed to create consumer: %v", err)
	}

	err = consumer.Start()
	if err != nil {
		log.Fatalf("Failed to start consumer: %v", err)
	}
	log.Printf("✅ Audit worker started, consuming from queue: %s", queue.DeliveryQueueName)

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("🛑 Shutting down gracefully...")

	// Stop consumer
	if err := consumer.Stop(); err != nil {
		log.Printf("Error stopping consumer: %v", err)
	}

	// Close connections
	conn.Close()
	db.Close()

	log.Println("✅ Worker stopped")
}

// createDeliveryHandler returns the handler that records delivery events
// in the delivery_log table
func createDeliveryHandler(db *sql.DB) queue.DeliveryHandler {
	return func(event *queue.DeliveryEvent) error {
		ctx := context.Background()

		log.Printf("📨 Recording delivery event: campaign=%d sender=%d recipient=%s status=%s",
			event.CampaignID, event.SenderID, event.Recipient, event.Status)

		if err := insertDeliveryLog(ctx, db, event); err != nil {
			log.Printf("❌ Failed to record delivery event: %v", err)
			return err
		}

		return nil
	}
}

// insertDeliveryLog appends one delivery event to the audit log
func insertDeliveryLog(ctx context.Context, db *sql.DB, event *queue.DeliveryEvent) error {
	query := `
		INSERT INTO delivery_log (campaign_id, sender_id, recipient, status, error_message, sent_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)
	`

	_, err := db.ExecContext(ctx, query,
		event.CampaignID,
		event.SenderID,
		event.Recipient,
		event.Status,
		event.Error,
		event.SentAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert delivery log: %w", err)
	}

	return nil
}
