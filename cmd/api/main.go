package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/realtyhub/backoffice/api"
	"github.com/realtyhub/backoffice/internal/config"
	"github.com/realtyhub/backoffice/internal/domain"
	"github.com/realtyhub/backoffice/internal/email"
	"github.com/realtyhub/backoffice/internal/external"
	"github.com/realtyhub/backoffice/internal/handler"
	"github.com/realtyhub/backoffice/internal/logging"
	mw "github.com/realtyhub/backoffice/internal/middleware"
	"github.com/realtyhub/backoffice/internal/repository"
	"github.com/realtyhub/backoffice/internal/service"
	"github.com/realtyhub/backoffice/internal/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.Init("realty-backoffice", cfg.LogLevel, cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
	}, 30)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	location, err := time.LoadLocation(cfg.EmailTimezone)
	if err != nil {
		slog.Error("invalid email timezone", "error", err)
		os.Exit(1)
	}

	v := validation.New()

	webhookEvents := repository.NewWebhookEventRepository(db)
	properties := repository.NewPropertyRepository(db)
	news := repository.NewNewsRepository(db)
	notifications := repository.NewEmailNotificationRepository(db)
	users := repository.NewUserRepository(db)
	idempotency := repository.NewIdempotencyRepository(db)

	resend := external.NewResendClient(nil, external.ResendClientConfig{
		APIKey:  cfg.ResendAPIKey,
		BaseURL: cfg.ResendBaseURL,
	})
	deepseek := external.NewDeepSeekClient(nil, external.DeepSeekClientConfig{
		APIKey:  cfg.DeepSeekAPIKey,
		BaseURL: cfg.DeepSeekBaseURL,
		Model:   cfg.DeepSeekModel,
	})

	renderer, err := email.NewRenderer(location)
	if err != nil {
		slog.Error("failed to load email templates", "error", err)
		os.Exit(1)
	}
	sender := email.NewSender(renderer, resend, email.SenderConfig{From: cfg.EmailFrom, To: cfg.EmailTo})

	// The drainer either sends in-process or goes through the
	// send-contact-email function of another deployment.
	breakers := map[string]handler.BreakerReporter{
		"resend":   resend,
		"deepseek": deepseek,
	}
	var queueSender service.ContactSender = sender
	if cfg.EmailSenderURL != "" {
		relay := email.NewRelay(nil, cfg.EmailSenderURL, cfg.ServiceRoleKey)
		breakers["contact-relay"] = relay
		queueSender = relay
		slog.Info("email queue uses remote sender", "url", cfg.EmailSenderURL)
	}

	drainer := service.NewEmailQueueDrainer(notifications, queueSender, cfg.EmailQueueBatchSize, logger)

	webhookHandler := handler.NewWebhookHandler(service.NewWebhookService(webhookEvents, properties, news, v))
	functionsHandler := handler.NewFunctionsHandler(drainer, sender)
	publicHandler := handler.NewPublicHandler(
		service.NewListingService(properties, news),
		service.NewContactService(notifications, v),
		service.NewChatService(deepseek, v),
	)
	adminHandler := handler.NewAdminHandler(
		service.NewAdminService(properties, news, webhookEvents, notifications, v),
		drainer,
	)
	authHandler := handler.NewAuthHandler(users, cfg.JWTSecret, cfg.JWTExpiry)
	healthHandler := handler.NewHealthHandler(db, breakers)

	proxies, err := mw.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		slog.Error("invalid trusted proxies", "error", err)
		os.Exit(1)
	}
	limiter := mw.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, proxies)
	requireService := mw.ServiceAuth(cfg.ServiceRoleKey)
	requireUser := mw.Auth(cfg.JWTSecret)
	adminOnly := func(h http.HandlerFunc) http.Handler {
		return mw.Chain(h, requireUser, mw.RequireRole(domain.UserRoleAdmin))
	}
	staff := func(h http.HandlerFunc) http.Handler {
		return mw.Chain(h, requireUser, mw.RequireRole(domain.UserRoleAdmin, domain.UserRoleEditor))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler.Liveness)
	mux.HandleFunc("GET /health/ready", healthHandler.Readiness)
	mux.HandleFunc("GET /docs", handler.ServeDocs())
	mux.HandleFunc("GET /docs/openapi.yaml", handler.ServeSpec(api.OpenAPISpec))

	mux.Handle("/functions/v1/webhook-handler",
		mw.Idempotency(idempotency, "webhook-handler")(http.HandlerFunc(webhookHandler.Handle)))
	mux.Handle("POST /functions/v1/process-email-queue", mw.Chain(http.HandlerFunc(functionsHandler.ProcessEmailQueue), requireService))
	mux.Handle("POST /functions/v1/send-contact-email", mw.Chain(http.HandlerFunc(functionsHandler.SendContactEmail), requireService))

	mux.HandleFunc("GET /api/v1/properties", publicHandler.ListProperties)
	mux.HandleFunc("GET /api/v1/properties/{id}", publicHandler.GetProperty)
	mux.HandleFunc("GET /api/v1/news", publicHandler.ListNews)
	mux.Handle("POST /api/v1/contact", limiter.Middleware(http.HandlerFunc(publicHandler.SubmitContact)))
	mux.Handle("POST /api/v1/chat", limiter.Middleware(http.HandlerFunc(publicHandler.Chat)))

	mux.Handle("POST /api/v1/auth/login", limiter.Middleware(http.HandlerFunc(authHandler.Login)))
	mux.Handle("GET /api/v1/auth/session", mw.Chain(http.HandlerFunc(authHandler.Session), requireUser))

	mux.Handle("GET /api/v1/admin/properties", staff(adminHandler.ListProperties))
	mux.Handle("PATCH /api/v1/admin/properties/{id}/status", staff(adminHandler.UpdatePropertyStatus))
	mux.Handle("DELETE /api/v1/admin/properties/{id}", adminOnly(adminHandler.DeleteProperty))
	mux.Handle("POST /api/v1/admin/news", staff(adminHandler.CreateNews))
	mux.Handle("DELETE /api/v1/admin/news/{id}", adminOnly(adminHandler.DeleteNews))
	mux.Handle("GET /api/v1/admin/webhook-events", staff(adminHandler.ListWebhookEvents))
	mux.Handle("GET /api/v1/admin/email-notifications", staff(adminHandler.ListEmailNotifications))
	mux.Handle("POST /api/v1/admin/email-queue/drain", adminOnly(adminHandler.DrainEmailQueue))

	root := mw.Chain(mux, mw.Tracing, mw.Logging(logger), mw.Recovery, mw.CORS)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           root,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	var wg sync.WaitGroup
	if cfg.EmailQueuePollInterval > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			drainer.Start(ctx, cfg.EmailQueuePollInterval)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		cleanIdempotencyCache(ctx, idempotency, time.Hour)
	}()

	go func() {
		slog.Info("server started", "addr", addr, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}
	wg.Wait()
	slog.Info("server stopped")
}

type expiredCleaner interface {
	CleanExpired(ctx context.Context) (int64, error)
}

func cleanIdempotencyCache(ctx context.Context, repo expiredCleaner, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.CleanExpired(ctx)
			if err != nil {
				slog.Error("idempotency cache cleanup failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("idempotency cache cleaned", "removed", n)
			}
		}
	}
}
