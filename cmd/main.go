package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/yungbote/edutainment-backend/internal/app"
	"github.com/yungbote/edutainment-backend/internal/platform/envutil"
	"github.com/yungbote/edutainment-backend/internal/platform/logger"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "edutainment",
		Short:         "Turns uploaded articles into narrated quiz lessons",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE:  runServe,
	})
	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE:  runMigrate,
	})
	return root
}

func setup() (*logger.Logger, error) {
	// .env is optional.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: could not load .env file: %v\n", err)
	}
	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	log, err := setup()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := app.New(ctx, log)
	if err != nil {
		log.Error("Startup failed", "error", err)
		log.Sync()
		return err
	}
	defer a.Close()

	if err := a.Run(ctx); err != nil {
		log.Error("Server stopped", "error", err)
		return err
	}
	log.Info("Server stopped")
	return nil
}

func runMigrate(*cobra.Command, []string) error {
	log, err := setup()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	defer log.Sync()
	if err := app.Migrate(log); err != nil {
		log.Error("Migration failed", "error", err)
		return err
	}
	log.Info("Migration complete")
	return nil
}
