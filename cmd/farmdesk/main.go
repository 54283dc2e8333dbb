package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmdesk/internal/api"
	"github.com/mamadbah2/farmdesk/internal/config"
	"github.com/mamadbah2/farmdesk/internal/notify"
	"github.com/mamadbah2/farmdesk/internal/session"
	"github.com/mamadbah2/farmdesk/internal/ui"
	"github.com/mamadbah2/farmdesk/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintln(os.Stderr, "farmdesk:", err)
		os.Exit(1)
	}

	// Logs go to a file; the terminal belongs to the UI.
	baseLogger := logger.Must(logger.NewFile(cfg.LogFile))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	store, err := session.Open(cfg.State.Dir, baseLogger.Named("session.store"))
	if err != nil {
		baseLogger.Fatal("failed to open session store", zap.Error(err))
	}
	defer store.Close()

	client := api.NewClient(api.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
	}, store, baseLogger.Named("api.client"))

	unauthorized := make(chan struct{}, 1)
	client.OnUnauthorized(func() {
		select {
		case unauthorized <- struct{}{}:
		default:
		}
	})

	services := api.NewServices(client)
	feed := notify.NewFeed(services.Notifications, store, cfg.Notify.PollInterval, baseLogger.Named("notify.feed"))
	defer feed.Stop()

	app := ui.NewApp(ui.Deps{
		Services:     services,
		Store:        store,
		Feed:         feed,
		ExportDir:    cfg.Export.Dir,
		PageSize:     cfg.UI.PageSize,
		Logger:       baseLogger.Named("ui"),
		Unauthorized: unauthorized,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	program := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	baseLogger.Info("farmdesk starting",
		zap.String("api_url", cfg.API.BaseURL),
		zap.String("state_dir", cfg.State.Dir),
	)

	if _, err := program.Run(); err != nil {
		baseLogger.Error("terminal program crashed", zap.Error(err))
		fmt.Fprintln(os.Stderr, "farmdesk:", err)
		os.Exit(1)
	}

	baseLogger.Info("farmdesk stopped")
}
