package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/stock-console/internal/config"
	"github.com/ziadkadry99/stock-console/internal/console"
	"github.com/ziadkadry99/stock-console/internal/db"
	"github.com/ziadkadry99/stock-console/internal/server"
	"github.com/ziadkadry99/stock-console/internal/storage"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the inventory console server",
	Long:  `Starts the HTTP server hosting the console shell, its page-session WebSocket and the health endpoint.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if servePort != 0 {
			cfg.Port = servePort
		}
		logger := newLogger(cfg.Level())

		timeout, err := cfg.Timeout()
		if err != nil {
			return err
		}

		consoleCfg := console.Config{
			APIBaseURL:     cfg.APIBaseURL,
			LoginURL:       cfg.LoginURL,
			LowStock:       cfg.LowStockThreshold,
			RequestTimeout: timeout,
			Logger:         logger,
		}

		// Open database when credentials must survive restarts.
		var database *db.DB
		if cfg.Storage == config.StorageSQLite {
			database, err = db.Open(cfg.DatabasePath())
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer database.Close()
			consoleCfg.Storage = func(clientID string) storage.Storage {
				return storage.NewSQLite(database, clientID)
			}
		}

		srv := server.New(server.Config{
			Port:           cfg.Port,
			AllowedOrigins: cfg.AllowedOrigins,
			Logger:         logger,
		}, console.New(consoleCfg), database)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		fmt.Fprintf(os.Stderr, "stockconsole v%s starting on port %d\n", Version, cfg.Port)
		fmt.Fprintf(os.Stderr, "  API: %s\n", cfg.APIBaseURL)
		fmt.Fprintf(os.Stderr, "  Storage: %s\n", cfg.Storage)
		if database != nil {
			fmt.Fprintf(os.Stderr, "  Database: %s\n", database.Path())
		}

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "override the configured listen port")
	rootCmd.AddCommand(serveCmd)
}
