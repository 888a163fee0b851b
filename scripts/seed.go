//go:build ignore

package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lib/pq"

	"github.com/faltuinsaaan/campaignbackend/internal/config"
)

// ANSI color codes for terminal output
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

// Command-line flags
var (
	sendersCount   = flag.Int("senders", 5, "Number of senders to create")
	campaignsCount = flag.Int("campaigns", 3, "Number of campaigns to create")
	clearData      = flag.Bool("clear", false, "Clear existing seed data before inserting")
	showHelp       = flag.Bool("help", false, "Show usage information")
)

func main() {
	flag.Parse()

	if *showHelp {
		printUsage()
		os.Exit(0)
	}

	// Load .env file (ignore error if not present)
	_ = godotenv.Load()

	printInfo("=== Campaign Backend Database Seeder ===\n")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		printError(fmt.Sprintf("Failed to load configuration: %v", err))
		os.Exit(1)
	}

	// Connect to database
	printInfo("Connecting to database...")
	db, err := sql.Open("postgres", cfg.GetDatabaseDSN())
	if err != nil {
		printError(fmt.Sprintf("Failed to open database connection: %v", err))
		os.Exit(1)
	}
	defer db.Close()

	// Test connection
	if err := db.Ping(); err != nil {
		printError(fmt.Sprintf("Failed to ping database: %v", err))
		os.Exit(1)
	}
	printSuccess("✓ Connected to database\n")

	// Clear data if requested
	if *clearData {
		if err := clearSeedData(db); err != nil {
			printError(fmt.Sprintf("Failed to clear seed data: %v", err))
			os.Exit(1)
		}
	}

	// Seed senders
	sendersCreated, senderIDs, err := seedSenders(db, *sendersCount)
	if err != nil {
		printError(fmt.Sprintf("Failed to seed senders: %v", err))
		os.Exit(1)
	}

	// Seed campaigns
	campaignsCreated, err := seedCampaigns(db, *campaignsCount, senderIDs)
	if err != nil {
		printError(fmt.Sprintf("Failed to seed campaigns: %v", err))
		os.Exit(1)
	}

	// Print summary
	printInfo("\n=== Seeding Summary ===")
	printSuccess(fmt.Sprintf("✓ Senders created: %d", sendersCreated))
	printSuccess(fmt.Sprintf("✓ Campaigns created: %d", campaignsCreated))
	printInfo("\nSeeding completed successfully!")
}

// clearSeedData removes existing seed data
func clearSeedData(db *sql.DB) error {
	printWarning("Clearing existing seed data...")

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Delete campaigns with Go-seeded naming pattern
	_, err = tx.Exec("DELETE FROM campaigns WHERE name LIKE 'Morning Digest%' OR name LIKE 'Product Update%' OR name LIKE 'Re-engagement%'")
	if err != nil {
		return fmt.Errorf("failed to delete campaigns: %w", err)
	}

	// Delete senders with Go-seeded email pattern
	_, err = tx.Exec("DELETE FROM senders WHERE email LIKE 'seed-sender%@example.com'")
	if err != nil {
		return fmt.Errorf("failed to delete senders: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	printSuccess("✓ Seed data cleared\n")
	return nil
}

// seedSenders generates and inserts sender data, returning the ids of all
// seed senders so campaigns can reference them
func seedSenders(db *sql.DB, count int) (int, []int64, error) {
	printInfo(fmt.Sprintf("Seeding %d senders...", count))

	names := []string{"Newsletter Desk", "Product Team", "Support Desk", "Marketing", "Announcements"}

	created := 0
	for i := 1; i <= count; i++ {
		email := fmt.Sprintf("seed-sender%02d@example.com", i)
		name := names[(i-1)%len(names)]

		// Vary the daily limits a little
		dailyLimit := 100
		if i%3 == 0 {
			dailyLimit = 50
		}

		// Insert with ON CONFLICT for idempotency
		query := `
			INSERT INTO senders (email, name, daily_limit)
			VALUES ($1, $2, $3)
			ON CONFLICT (email) DO NOTHING
		`

		result, err := db.Exec(query, email, name, dailyLimit)
		if err != nil {
			return created, nil, fmt.Errorf("failed to insert sender %s: %w", email, err)
		}

		rowsAffected, _ := result.RowsAffected()
		if rowsAffected > 0 {
			created++
		}
	}

	// Collect the ids of all seed senders (existing or just created)
	rows, err := db.Query("SELECT id FROM senders WHERE email LIKE 'seed-sender%@example.com' ORDER BY id")
	if err != nil {
		return created, nil, fmt.Errorf("failed to query seed sender ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return created, nil, fmt.Errorf("failed to scan sender id: %w", err)
		}
		ids = append(ids, id)
	}

	printSuccess(fmt.Sprintf("✓ Seeded %d senders (skipped %d existing)", created, count-created))
	return created, ids, nil
}

// seedCampaigns generates and inserts campaign data
func seedCampaigns(db *sql.DB, count int, senderIDs []int64) (int, error) {
	printInfo(fmt.Sprintf("Seeding %d campaigns...", count))

	if len(senderIDs) == 0 {
		printWarning("No seed senders available, skipping campaigns")
		return 0, nil
	}

	tomorrow := time.Now().AddDate(0, 0, 1)

	// Define campaign templates with different windows and delays
	campaigns := []struct {
		name         string
		startTime    string
		endTime      string
		sendingDelay int
		dailyLimit   int
		message      string
	}{
		{
			name:         "Morning Digest",
			startTime:    "08:00 AM",
			endTime:      "11:00 AM",
			sendingDelay: 60,
			dailyLimit:   500,
			message:      "Good morning {recipient_name}! Here is your digest. - {sender_name}",
		},
		{
			name:         "Product Update",
			startTime:    "12:00 PM",
			endTime:      "05:00 PM",
			sendingDelay: 120,
			dailyLimit:   1000,
			message:      "Hi {recipient_name}, we shipped something new. Take a look! - {sender_name}",
		},
		{
			name:         "Re-engagement",
			startTime:    "06:00 PM",
			endTime:      "09:00 PM",
			sendingDelay: 30,
			dailyLimit:   200,
			message:      "We miss you, {recipient_name}! Come see what changed.",
		},
	}

	created := 0
	for i := 0; i < count && i < len(campaigns); i++ {
		campaign := campaigns[i]

		query := `
			INSERT INTO campaigns (name, send_date, start_time, end_time, sending_delay, message, sender_ids, daily_limit)
			SELECT $1, $2, $3, $4, $5, $6, $7, $8
			WHERE NOT EXISTS (SELECT 1 FROM campaigns WHERE name = $1)
		`

		result, err := db.Exec(query,
			campaign.name,
			tomorrow,
			campaign.startTime,
			campaign.endTime,
			campaign.sendingDelay,
			campaign.message,
			pq.Int64Array(senderIDs),
			campaign.dailyLimit,
		)
		if err != nil {
			return created, fmt.Errorf("failed to insert campaign %s: %w", campaign.name, err)
		}

		rowsAffected, _ := result.RowsAffected()
		if rowsAffected > 0 {
			created++
		}
	}

	printSuccess(fmt.Sprintf("✓ Seeded %d campaigns (skipped %d existing)", created, count-created))
	return created, nil
}

// Helper functions

// printSuccess prints a success message in green
func printSuccess(msg string) {
	fmt.Printf("%s%s%s\n", colorGreen, msg, colorReset)
}

// printError prints an error message in red
func printError(msg string) {
	fmt.Fprintf(os.Stderr, "%s%s%s\n", colorRed, msg, colorReset)
}

// printInfo prints an info message in cyan
func printInfo(msg string) {
	fmt.Printf("%s%s%s\n", colorCyan, msg, colorReset)
}

// printWarning prints a warning message in yellow
func printWarning(msg string) {
	fmt.Printf("%s%s%s\n", colorYellow, msg, colorReset)
}

// printUsage displays usage information
func printUsage() {
	printInfo("=== Campaign Backend Database Seeder ===\n")
	fmt.Println("Usage: go run scripts/seed.go [flags]")
	fmt.Println("\nFlags:")
	flag.PrintDefaults()
	fmt.Println("\nExamples:")
	fmt.Println("  go run scripts/seed.go")
	fmt.Println("  go run scripts/seed.go -senders=10 -campaigns=3")
	fmt.Println("  go run scripts/seed.go -clear")
	fmt.Println("\nNotes:")
	fmt.Println("  - Senders use email pattern: seed-senderNN@example.com")
	fmt.Println("  - The script is idempotent - running multiple times won't create duplicates")
	fmt.Println("  - Use -clear to remove existing seed data before inserting new data")
}
