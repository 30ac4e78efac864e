// Command migrate applies the SQL migrations under db/migrations to the
// configured Postgres database without starting the API server.
package main

import (
	"database/sql"
	"flag"
	"log"

	"expense-tracker/internal/config"
	"expense-tracker/internal/database"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	seed := flag.Bool("seed", false, "load db/seeds after migrating")
	status := flag.Bool("status", false, "print the current migration version and exit")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg := config.Load()
	if cfg.Database.IsSQLite() {
		log.Fatal("SQL migrations target postgres; sqlite schemas are created by the server on startup")
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	runner := database.NewMigrationRunner(db,
		database.WithMigrationsPath(cfg.Database.MigrationsPath),
		database.WithSeeds(*seed || cfg.Database.SeedDatabase, cfg.Database.SeedsPath),
	)

	if err := runner.WaitForDatabase(); err != nil {
		log.Fatalf("database readiness check failed: %v", err)
	}

	if !*status {
		if err := runner.RunMigrations(); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
		if err := runner.LoadSeeds(); err != nil {
			log.Fatalf("seed loading failed: %v", err)
		}
	}

	version, dirty, err := runner.GetMigrationStatus()
	if err != nil {
		log.Fatalf("failed to get migration status: %v", err)
	}
	log.Printf("Migration status - Version: %d, Dirty: %v", version, dirty)
}
