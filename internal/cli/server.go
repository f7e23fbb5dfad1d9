package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"newsquiz/internal/app"
	"newsquiz/internal/config"
	"newsquiz/internal/domain"
	"newsquiz/internal/infra/memory"
	"newsquiz/internal/infra/remote"
	transport "newsquiz/internal/transport/http"

	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz API and play server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, log, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	defer log.Sync()

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	stores, err := openBackends(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer stores.Close()

	// Players read the published aggregate when one is configured, the local store otherwise.
	var source app.DatasetSource = stores.questions
	if cfg.Remote.URL != "" {
		source = remote.NewClient(cfg.Remote.URL, config.TTLDuration(cfg.Remote.Timeout, 10*time.Second), log)
	}
	cache := memory.NewDatasetCache(source, config.TTLDuration(cfg.Quiz.TTL, 5*time.Minute), log)
	catalog := app.NewCatalog(cache)

	adminCredential := domain.NewCredential(cfg.Admin.Password, cfg.Admin.PasswordHash)
	if !adminCredential.Configured() {
		log.Warn("admin credential not configured, admin writes are disabled")
	}

	routes := transport.Routes{
		Admin:   transport.NewAdminHandler(stores.questions, adminCredential, log, transport.WithChangeHook(cache.Clear)),
		Quiz:    transport.NewQuizHandler(cache),
		Ingest:  transport.NewIngestHandler(app.NewIngestService(stores.questions, log), domain.NewCredential(cfg.Ingest.Secret, ""), log, cache.Clear),
		Catalog: transport.NewCatalogHandler(catalog),
		Play:    transport.NewWSHandler(catalog, stores.progress, log),
	}

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      transport.NewMux(routes),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info("starting quiz service", "port", finalPort, "store", cfg.Store.Driver, "remote", cfg.Remote.URL != "")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("failed to start server", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
