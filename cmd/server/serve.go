package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/tontine-app/tontine/internal/activity"
	"github.com/tontine-app/tontine/internal/auth"
	"github.com/tontine-app/tontine/internal/config"
	"github.com/tontine-app/tontine/internal/membership"
	"github.com/tontine-app/tontine/internal/metrics"
	"github.com/tontine-app/tontine/internal/middleware"
	"github.com/tontine-app/tontine/internal/notify"
	"github.com/tontine-app/tontine/internal/realtime"
	"github.com/tontine-app/tontine/internal/service"
	"github.com/tontine-app/tontine/internal/storage/sqlite"
	"github.com/tontine-app/tontine/pkg/api/apiconnect"
	"github.com/tontine-app/tontine/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Connect API and realtime server",
	Long: `Start the HTTP server. Settings come from the environment
(PORT, DB_PATH, JWT_SECRET, CLIENT_URL, SMTP_*, ...).

Routes:
  /tontine.v1.*  Connect RPC services (JSON)
  /ws            realtime websocket, authenticated with ?token=
  /healthz       liveness check
  /auth/proxy/login  login forwarded by an identity-aware proxy (OAUTH_PROXY_SECRET)
  /metrics       Prometheus metrics

Examples:
  JWT_SECRET=change-me-please-now tontine serve
  tontine serve --port 9090`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	logger.Info("Storage initialized", "database", cfg.DBPath)

	m := metrics.New()
	broker := realtime.NewBroker(cfg.RealtimeBuffer, m, logger)

	notifiers := notify.Multi{notify.NewPush(cfg.PushTimeout)}
	if cfg.SMTPEnabled() {
		notifiers = append(notifiers, notify.NewEmail(cfg.SmtpServer, cfg.SmtpPort, cfg.SmtpUser, cfg.SmtpPassword))
		logger.Info("Email notifications enabled", "server", cfg.SmtpServer)
	}
	dispatcher := notify.NewDispatcher(notifiers, m, logger).WithTimeout(cfg.NotifyTimeout)
	defer dispatcher.Wait()

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	recorder := activity.NewRecorder(store, broker, logger)
	workflow := membership.NewWorkflow(store, recorder, broker, dispatcher, logger)

	limiter := middleware.NewRateLimiter(cfg.LoginRate, cfg.LoginBurst)
	defer limiter.Stop()

	// Outermost first: metrics see every outcome, including auth failures.
	opts := connect.WithInterceptors(
		middleware.MetricsInterceptor(m),
		middleware.RequireAuth(jwtManager,
			apiconnect.AuthServiceRegisterProcedure,
			apiconnect.AuthServiceLoginProcedure,
		),
		middleware.RateLimitInterceptor(limiter,
			apiconnect.AuthServiceRegisterProcedure,
			apiconnect.AuthServiceLoginProcedure,
		),
		middleware.LoggingInterceptor(logger),
	)

	mux := http.NewServeMux()

	// Register Connect services
	mux.Handle(apiconnect.NewAuthServiceHandler(
		service.NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, store, logger), opts))
	mux.Handle(apiconnect.NewGroupServiceHandler(
		service.NewGroupService(store, workflow, recorder, logger), opts))
	mux.Handle(apiconnect.NewContributionServiceHandler(
		service.NewContributionService(store, recorder, logger), opts))
	mux.Handle(apiconnect.NewTurnServiceHandler(
		service.NewTurnService(store, workflow, recorder, logger), opts))
	mux.Handle(apiconnect.NewMessageServiceHandler(
		service.NewMessageService(store, broker, logger), opts))
	mux.Handle(apiconnect.NewInvitationServiceHandler(
		service.NewInvitationService(store, workflow, logger), opts))
	mux.Handle(apiconnect.NewUserServiceHandler(
		service.NewUserService(store, logger), opts))

	if cfg.OAuthProxySecret != "" {
		mux.Handle(service.ProxyLoginPath, service.NewProxyLoginHandler(
			auth.NewOAuthAuthenticator(store), jwtManager, cfg.OAuthProxySecret, logger))
		logger.Info("Proxy login enabled", "path", service.ProxyLoginPath)
	}
	mux.Handle("/ws", realtime.NewHandler(broker, jwtManager, store, cfg.ClientURL, m, logger))
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	handler := middleware.HTTPLogging(logger, middleware.CORS(cfg.ClientURL, mux))

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Connect server starting", "address", server.Addr, "url", fmt.Sprintf("http://localhost%s", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down", slog.Duration("timeout", shutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
