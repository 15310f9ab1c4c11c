package migrate

import (
	"context"
	"fmt"

	"github.com/meditrack/meditrack-api/pkg/config"
	"github.com/meditrack/meditrack-api/pkg/db"
	"github.com/meditrack/meditrack-api/pkg/logger"
)

// MaybeRunDev applies the embedded migrations at boot when running in
// development with MEDITRACK_AUTO_MIGRATE enabled.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.App.AutoMigrate {
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	runner, err := NewRunner(sqlDB, "", logg)
	if err != nil {
		return err
	}

	pending, err := runner.HasPending(ctx)
	if err != nil {
		return err
	}
	if !pending {
		return nil
	}

	if logg != nil {
		logg.Info(logg.WithField(ctx, "env", cfg.App.Env), "migrate.autorun")
	}
	return runner.Up(ctx)
}
