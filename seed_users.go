package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"artist-marketplace-server/config"
)

// seedUser is a demo account inserted by seedDemoUsers.
type seedUser struct {
	FullName string
	Email    string
	Password string
	Role     string

	// Artist profile fields (role == artist only)
	StageName  string
	Category   string
	HourlyWage float64
	City       string
}

var demoUsers = []seedUser{
	{FullName: "Admin", Email: "admin@example.com", Password: "Admin1234", Role: "admin"},
	{FullName: "Clara Mendes", Email: "clara@example.com", Password: "Client1234", Role: "client"},
	{FullName: "Tomás Ribeiro", Email: "tomas@example.com", Password: "Client1234", Role: "client"},
	{
		FullName: "Ana Duarte", Email: "ana@example.com", Password: "Artist1234", Role: "artist",
		StageName: "Ana D.", Category: "singer", HourlyWage: 120, City: "Lisboa",
	},
	{
		FullName: "Miguel Costa", Email: "miguel@example.com", Password: "Artist1234", Role: "artist",
		StageName: "DJ Miguel", Category: "dj", HourlyWage: 90, City: "Porto",
	},
}

// seedDemoUsers inserts the demo accounts directly over database/sql,
// reusing the same DB_URL the ORM layer connects with. Existing emails
// are skipped.
func seedDemoUsers() error {
	connStr := config.AppConfig.Database.URL
	if connStr == "" {
		return fmt.Errorf("DB_URL is required to seed demo users")
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	for _, u := range demoUsers {
		var exists bool
		if err := db.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)", u.Email).Scan(&exists); err != nil {
			return err
		}
		if exists {
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), 12)
		if err != nil {
			return err
		}

		var userID uint
		err = db.QueryRow(`
			INSERT INTO users (full_name, email, password_hash, role, is_active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, true, NOW(), NOW())
			RETURNING id`,
			u.FullName, u.Email, string(hash), u.Role,
		).Scan(&userID)
		if err != nil {
			return err
		}

		if u.Role == "artist" {
			_, err = db.Exec(`
				INSERT INTO artist_profiles (user_id, stage_name, category, hourly_wage, city, is_verified, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, true, NOW(), NOW())`,
				userID, u.StageName, u.Category, u.HourlyWage, u.City,
			)
			if err != nil {
				return err
			}
		}

		log.Printf("✅ Seeded %s account %s", u.Role, u.Email)
	}

	return nil
}
