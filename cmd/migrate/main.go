package main

import (
	"context"
	"fmt"
	"log"
	"os"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/pflag"

	"github.com/gurkanbulca/taskapi/internal/config"
	"github.com/gurkanbulca/taskapi/internal/database"
	"github.com/gurkanbulca/taskapi/internal/models"
	"github.com/gurkanbulca/taskapi/internal/repository"
	"github.com/gurkanbulca/taskapi/internal/seed"
	"github.com/gurkanbulca/taskapi/pkg/auth"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		seedPath  string
		skipAdmin bool
	)
	flagSet := pflag.NewFlagSet("migrate", pflag.ContinueOnError)
	flagSet.StringVar(&seedPath, "seed", "", "YAML file of users to create after migrating")
	flagSet.BoolVar(&skipAdmin, "skip-admin", false, "do not create the ADMIN_NAME account")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ValidateConfig(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	db, err := database.Open(database.Config{
		Driver: cfg.Database.Driver,
		DSN:    cfg.Database.DSN(),
	})
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	var accounts []seed.Account
	if !skipAdmin {
		if cfg.Seed.AdminPassword == "" {
			log.Println("ADMIN_PASSWORD not set, skipping administrator account")
		} else {
			accounts = append(accounts, seed.Account{
				Name:     cfg.Seed.AdminName,
				Email:    cfg.Seed.AdminEmail,
				Password: cfg.Seed.AdminPassword,
				Role:     models.RoleAdmin,
			})
		}
	}
	if seedPath != "" {
		f, err := seed.LoadFile(seedPath)
		if err != nil {
			return err
		}
		accounts = append(accounts, f.Users...)
	}
	if len(accounts) == 0 {
		return nil
	}

	seeder := seed.NewSeeder(repository.NewUserRepository(db), auth.NewPasswordManager().WithPolicy(cfg.Password.Policy()))
	created, err := seeder.Accounts(ctx, accounts)
	if err != nil {
		return err
	}
	log.Printf("✅ Seeded %d of %d users", created, len(accounts))
	return nil
}
