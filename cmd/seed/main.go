package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/gemvault/gemvault-backend/internal/seed"
	"github.com/gemvault/gemvault-backend/pkg/config"
	"github.com/gemvault/gemvault-backend/pkg/db"
	"github.com/gemvault/gemvault-backend/pkg/env"
	"github.com/gemvault/gemvault-backend/pkg/logger"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "gemvault-seed"})
	_ = godotenv.Load()

	cmd := flag.String("cmd", "seed", "seed|clear")
	email := flag.String("email", env.Get("GEMVAULT_SEED_ADMIN_EMAIL", "owner@gemvault.local"), "owner admin email")
	name := flag.String("name", env.Get("GEMVAULT_SEED_ADMIN_NAME", "Store Owner"), "owner admin display name")
	password := flag.String("password", env.Get("GEMVAULT_SEED_ADMIN_PASSWORD", ""), "owner admin password")
	force := flag.Bool("force", env.Bool("GEMVAULT_SEED_FORCE", false), "allow clear outside dev")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	logg = logger.New(logger.Options{
		ServiceName: "gemvault-seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{"env": cfg.App.Env, "cmd": *cmd})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	seeder, err := seed.New(dbClient.DB(), cfg.Password)
	if err != nil {
		logg.Error(ctx, "failed to create seeder", err)
		os.Exit(1)
	}

	switch *cmd {
	case "seed":
		result, err := seeder.Seed(ctx, seed.AdminInput{Email: *email, Name: *name, Password: *password})
		if err != nil {
			logg.Error(ctx, "seed failed", err)
			os.Exit(1)
		}
		logg.Info(logg.WithFields(ctx, map[string]any{
			"admin_created":      result.AdminCreated,
			"categories_created": result.CategoriesCreated,
		}), "seed.complete")

	case "clear":
		if !cfg.App.IsDev() && !*force {
			logg.Error(ctx, "refusing to clear", errors.New("clear outside dev requires -force"))
			os.Exit(1)
		}
		if err := seeder.Clear(ctx); err != nil {
			logg.Error(ctx, "clear failed", err)
			os.Exit(1)
		}
		logg.Info(ctx, "seed.cleared")

	default:
		logg.Error(ctx, "unknown command", fmt.Errorf("unknown -cmd value %q", *cmd))
		os.Exit(1)
	}
}
