package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/meditrack/meditrack-api/pkg/auth"
	"github.com/meditrack/meditrack-api/pkg/config"
	"github.com/meditrack/meditrack-api/pkg/db"
	"github.com/meditrack/meditrack-api/pkg/enums"
	"github.com/meditrack/meditrack-api/pkg/env"
	"github.com/meditrack/meditrack-api/pkg/logger"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	seedValue := flag.Uint64("seed", uint64(time.Now().UnixNano()), "random seed for inventory counts")
	withStaff := flag.Bool("staff", env.Bool("MEDITRACK_SEED_STAFF", true), "create a staff and an admin account and print their tokens")
	tokenTTL := flag.Duration("token-ttl", 24*time.Hour, "lifetime of printed tokens")
	flag.Parse()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	if cfg.App.IsProd() {
		fmt.Fprintln(os.Stderr, "refusing to seed a production environment")
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       cfg.App.LogLevel,
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "seed": *seedValue})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	data := BuildDataset(rand.New(rand.NewPCG(*seedValue, *seedValue>>1)))

	type account struct {
		Role     enums.StaffRole `json:"role"`
		Hospital string          `json:"hospital"`
		UserID   string          `json:"user_id"`
		Token    string          `json:"token"`
	}
	var accounts []account
	if *withStaff {
		for _, acct := range []struct {
			idx  int
			role enums.StaffRole
			name string
		}{
			{0, enums.StaffRoleStaff, "Ward Coordinator"},
			{0, enums.StaffRoleAdmin, "District Administrator"},
		} {
			row, err := data.AddStaff(acct.idx, acct.role, acct.name)
			requireResource(ctx, logg, "staff", err)
			token, err := auth.MintIdentityToken(cfg.Auth, time.Now(), row.UserID, "", *tokenTTL)
			requireResource(ctx, logg, "token", err)
			accounts = append(accounts, account{
				Role:     acct.role,
				Hospital: data.Hospitals[acct.idx].Name,
				UserID:   row.UserID.String(),
				Token:    token,
			})
		}
	}

	if err := Load(ctx, dbClient, data); err != nil {
		logg.Error(ctx, "seeding failed", err)
		os.Exit(1)
	}

	logg.Info(logg.WithField(ctx, "summary", data.Summary()), "seed.completed")

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(map[string]any{"summary": data.Summary(), "accounts": accounts})
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
