package main

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/oksasatya/checklist-api/config"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "demo@example.com"
	name := "Demo User"
	googleID := "seed-demo-google-id"

	var userID string
	err = db.QueryRow(`
		INSERT INTO users (email, name, google_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (google_id) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, email, name, googleID).Scan(&userID)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s\n", userID, email)

	var checklistID string
	err = db.QueryRow(`
		INSERT INTO checklists (user_id, title, description)
		VALUES ($1, $2, $3)
		RETURNING id
	`, userID, "Groceries", "Weekly shopping").Scan(&checklistID)
	if err != nil {
		log.Fatalf("failed to seed checklist: %v", err)
	}

	due := time.Now().Add(72 * time.Hour)
	items := []struct {
		description string
		priority    string
		due         *time.Time
	}{
		{"Milk", "medium", nil},
		{"Eggs", "high", &due},
		{"Bread", "low", nil},
	}
	for i, it := range items {
		if _, err := db.Exec(`
			INSERT INTO checklist_items (checklist_id, description, priority, due_date, display_order)
			VALUES ($1, $2, $3, $4, $5)
		`, checklistID, it.description, it.priority, it.due, i); err != nil {
			log.Fatalf("failed to seed item %q: %v", it.description, err)
		}
	}
	fmt.Printf("seeded checklist %s with %d items\n", checklistID, len(items))
}
