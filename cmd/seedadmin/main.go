// Command seedadmin creates or updates the back-office admin user. Run it once
// after migrations:
//
//	seedadmin -email admin@example.com -name "Admin" -password secret
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/crypto/bcrypt"

	"urbill/internal/config"
	"urbill/internal/repository/postgres"
)

func main() {
	email := flag.String("email", "", "admin email address")
	name := flag.String("name", "Administrator", "admin display name")
	password := flag.String("password", "", "admin password (min 8 characters)")
	flag.Parse()

	if *email == "" || len(*password) < 8 {
		log.Fatal("usage: seedadmin -email <email> -password <password, min 8 chars> [-name <name>]")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	const query = `
		INSERT INTO admin_users (id, email, password_hash, full_name, role, is_active)
		VALUES ($1, $2, $3, $4, 'admin', TRUE)
		ON CONFLICT (email) DO UPDATE
		SET password_hash = EXCLUDED.password_hash,
		    full_name = EXCLUDED.full_name,
		    is_active = TRUE,
		    updated_at = NOW()`

	if _, err := db.ExecContext(ctx, query, uuid.New(), *email, string(hash), *name); err != nil {
		log.Fatalf("failed to seed admin user: %v", err)
	}

	log.Printf("admin user %s is ready", *email)
}
