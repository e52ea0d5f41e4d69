// Package app wires configuration, storage, upstream access, notification
// and HTTP routing into a runnable server.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/kandebooths/packer-service/internal/config"
	"github.com/kandebooths/packer-service/internal/database"
	"github.com/kandebooths/packer-service/internal/handler"
	"github.com/kandebooths/packer-service/internal/logger"
	"github.com/kandebooths/packer-service/internal/mailer"
	"github.com/kandebooths/packer-service/internal/metrics"
	"github.com/kandebooths/packer-service/internal/middleware"
	"github.com/kandebooths/packer-service/internal/queue"
	"github.com/kandebooths/packer-service/internal/repository"
	"github.com/kandebooths/packer-service/internal/router"
	"github.com/kandebooths/packer-service/internal/service"
	"github.com/kandebooths/packer-service/internal/workspace"
)

const shutdownTimeout = 15 * time.Second

// App owns the long-lived components of the running service.
type App struct {
	cfg        config.Config
	db         *sql.DB
	rdb        *redis.Client
	events     *service.EventCache
	checklists *service.ChecklistService
	mailer     *mailer.Mailer
	httpServer *http.Server
}

// New builds every component.  Nothing is started until Run.
func New(cfg config.Config) (*App, error) {
	a := &App{cfg: cfg}

	store, err := a.initStore()
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}
	if err := a.initServices(store); err != nil {
		return nil, fmt.Errorf("init services: %w", err)
	}
	return a, nil
}

// initStore returns the blob store behind checklists and the catalog: JSON
// files, mirrored to SQL when a database driver is configured.
func (a *App) initStore() (repository.BlobStore, error) {
	files, err := repository.NewFileBlobStore(a.cfg.DataDir)
	if err != nil {
		return nil, err
	}
	if a.cfg.DBDriver == "" {
		logger.Info("using file persistence", map[string]interface{}{"dir": a.cfg.DataDir})
		return files, nil
	}

	db, err := database.Open(a.cfg.DBDriver, a.cfg.DBUser, a.cfg.DBPass, a.cfg.DBHost, a.cfg.DBPort, a.cfg.DBName)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	a.db = db

	sqlStore, err := repository.NewSQLBlobStore(db, a.cfg.DBDriver)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := sqlStore.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	logger.Info("database connected", map[string]interface{}{
		"driver": a.cfg.DBDriver, "host": a.cfg.DBHost, "database": a.cfg.DBName,
	})
	return repository.NewMirroredStore(sqlStore, files), nil
}

func (a *App) initServices(store repository.BlobStore) error {
	catalog := service.NewCatalogService(repository.NewCatalogRepo(store))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := catalog.Load(ctx); err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	client, err := workspace.NewClient(workspace.Config{
		BaseURL:  a.cfg.WorkspaceBaseURL,
		APIKey:   a.cfg.WorkspaceAPIKey,
		MaxPages: a.cfg.WorkspaceMaxPages,
		Timeout:  a.cfg.WorkspaceTimeout,
		TimeZone: a.cfg.TimeZone,
	})
	if err != nil {
		return err
	}
	a.events = service.NewEventCache(client, a.cfg.EventCacheTTL)

	roster, err := config.LoadStaffRoster(a.cfg.StaffRosterFile)
	if err != nil {
		return fmt.Errorf("load staff roster: %w", err)
	}

	loc, err := time.LoadLocation(a.cfg.TimeZone)
	if err != nil {
		return fmt.Errorf("load time zone: %w", err)
	}
	a.mailer = mailer.New(mailer.Config{
		Host:     a.cfg.SMTPHost,
		Port:     a.cfg.SMTPPort,
		User:     a.cfg.SMTPUser,
		Pass:     a.cfg.SMTPPass,
		From:     a.cfg.MailFrom,
		To:       a.cfg.MailTo,
		CC:       a.cfg.MailCC,
		Location: loc,
	}, roster)

	var notifier service.Notifier
	switch a.cfg.NotifyMode {
	case "queue":
		notifier = queue.NewPublisher(a.cfg.RabbitURL)
	case "direct":
		notifier = a.mailer
	}
	a.checklists = service.NewChecklistService(repository.NewChecklistRepo(store), a.events, catalog, notifier)

	a.rdb = config.NewRedisClient(config.LoadRedisConfig())
	if a.rdb == nil {
		logger.Warn("redis unavailable, page cache and rate limit disabled", nil)
	}
	cacheCfg := config.LoadCacheConfig()
	invalidate := func(ctx context.Context, eventID string) {
		middleware.Invalidate(ctx, cacheCfg, a.rdb, "/event/"+eventID)
	}

	auth, err := handler.NewAuthHandler(a.cfg)
	if err != nil {
		return fmt.Errorf("init auth: %w", err)
	}
	eventsH := handler.NewEventsHandler(a.events, a.checklists, roster, a.cfg.PublicBaseURL)
	checklistH := handler.NewChecklistHandler(a.checklists, invalidate)
	catalogH := handler.NewCatalogHandler(catalog)
	publicH := handler.NewPublicHandler(a.events, a.checklists)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: corsOrigins(a.cfg.AllowedOrigins),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	router.RegisterRoutes(e, a.events, publicH, middleware.NewRedisCache(cacheCfg, a.rdb))
	router.RegisterAuth(e, auth, eventsH)
	router.RegisterStaff(e, eventsH, checklistH, a.cfg.JWTSecret, middleware.NewTokenBucket(config.LoadRateLimitConfig(), a.rdb))
	router.RegisterAdmin(e, eventsH, checklistH, catalogH, a.cfg.JWTSecret)

	a.httpServer = &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
	return nil
}

func corsOrigins(allowed []string) []string {
	if len(allowed) == 0 {
		return []string{"*"}
	}
	return allowed
}

// Run starts the background workers and the HTTP server, then blocks until
// SIGINT or SIGTERM.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.Register()

	go func() {
		if _, err := a.events.Get(ctx); err != nil {
			logger.Warn("initial event fetch failed", map[string]interface{}{"error": err.Error()})
		}
	}()
	go a.events.Start(ctx, a.cfg.RefreshInterval)
	if a.cfg.NotifyMode == "queue" {
		go queue.StartSubmissionConsumer(ctx, a.cfg.RabbitURL, a.mailer.NotifySubmitted)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", map[string]interface{}{
			"addr": a.httpServer.Addr, "env": a.cfg.Env, "notify_mode": a.cfg.NotifyMode,
		})
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received", nil)
	case err := <-errCh:
		return err
	}
	return a.shutdown()
}

func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	logger.Info("HTTP server stopped", nil)

	a.checklists.Wait()

	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			return fmt.Errorf("close db: %w", err)
		}
		logger.Info("database connection closed", nil)
	}
	logger.Info("app stopped", nil)
	return nil
}
