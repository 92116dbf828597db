package main

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"allyshop/internal/dom"
	"allyshop/internal/sched"
	"allyshop/internal/server"
	"allyshop/internal/shop"
	"allyshop/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the AllyShop demo server",
	Long:  `Start the HTTP server that drives the storefront over a JSON API.`,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	// Local flags for serve command
	serveCmd.Flags().IntP("port", "p", 0, "Server port (default from config)")
	serveCmd.Flags().StringP("host", "H", "", "Server host (default from config)")

	// Bind flags to viper
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
}

func runServe(cmd *cobra.Command, args []string) error {
	// Setup logger based on config
	SetupLogger()

	cfg := GetConfig()
	slog.Info("config_loaded",
		"source", GetConfigSource(),
		"products", len(cfg.Products),
		"port", cfg.Server.Port,
	)

	var storage store.Storage
	if cfg.Storage.Path != "" {
		fs, err := store.NewFile(cfg.Storage.Path)
		if err != nil {
			slog.Warn("storage_open_failed", "path", cfg.Storage.Path, "error", err)
		}
		storage = fs
	} else {
		storage = store.NewMemory()
	}

	core := shop.New(cfg, dom.NewDocument(), storage, sched.New())
	core.Start()

	srv := server.New(cfg, server.Deps{
		Store:         core.State,
		Search:        core.Search,
		Notifications: core.Notifications,
		Announcements: core.Announcer,
		Products:      core.Catalog,
		Report:        core.ReportPanic,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	slog.Info("server_starting",
		"address", addr,
		"url", fmt.Sprintf("http://localhost:%d", cfg.Server.Port),
	)

	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
