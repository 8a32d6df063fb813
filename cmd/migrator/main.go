package main

import (
	"context"
	"flag"
	"log"

	"github.com/cmlabs-hris/hris-lite-go/internal/config"
	"github.com/cmlabs-hris/hris-lite-go/internal/pkg/database"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose"
)

func main() {
	command := flag.String("command", "up", "goose command: up, down, status, version")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	if cfg.Store.Driver != config.StoreDriverPostgres {
		log.Fatalf("Migrations need STORE_DRIVER=%s, got %s", config.StoreDriverPostgres, cfg.Store.Driver)
	}

	db, err := database.NewPostgreSQLDB(context.Background(), cfg.DatabaseURL(), database.PoolOptions{})
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer db.Close()

	sqlDB := stdlib.OpenDBFromPool(db.Pool)
	defer sqlDB.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal(err)
	}
	if err := goose.Run(*command, sqlDB, cfg.MigrationsDir); err != nil {
		log.Fatalf("goose %s: %v", *command, err)
	}

	log.Printf("Migrations %s applied from %s", *command, cfg.MigrationsDir)
}
