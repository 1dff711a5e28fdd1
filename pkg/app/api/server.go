// Package api wires the analysis platform API server from configuration.
package api

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/bun"
	"go.uber.org/zap"

	analysisservice "github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/analysis/service"
	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/analysisstore"
	apphttp "github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/app/http"
	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/auth"
	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/config"
	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/custodian"
	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/generator"
	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/marketdata"
	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/paygate"
	paymentservice "github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/payment/service"
	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/paymentstore"
	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/pgutil"
	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/revenue"
	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/revenuestore"
	userservice "github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/user/service"
	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/userstore"
)

// Server is the assembled API server. It owns the database connection and
// the HTTP handler tree.
type Server struct {
	cfg     *config.APIServerConfig
	logger  *zap.Logger
	db      *bun.DB
	handler http.Handler
}

// NewServer connects to the database and wires all services and routes.
func NewServer(cfg *config.APIServerConfig, logger *zap.Logger) (*Server, error) {
	db, err := pgutil.ConnectDB(&cfg.Database)
	if err != nil {
		return nil, err
	}

	userStore := userstore.NewStore(db)
	paymentStore := paymentstore.NewStore(db)
	analysisStore := analysisstore.NewStore(db)
	revenueStore := revenuestore.NewStore(db)

	validator := auth.NewJWTValidator(cfg.Auth.JWTSecret, cfg.Auth.Issuer)

	custodianClient := custodian.NewClient(
		cfg.Custodian.BaseURL,
		cfg.Custodian.APIKey,
		cfg.Custodian.Timeout,
	)

	market := marketdata.NewGateway(
		marketdata.NewCoinGeckoClient(cfg.MarketData.PrimaryURL, cfg.MarketData.APIKey, cfg.MarketData.Timeout),
		marketdata.NewCoinPaprikaClient(cfg.MarketData.FallbackURL, cfg.MarketData.Timeout),
		marketdata.NewFearGreedClient(cfg.MarketData.SentimentURL, cfg.MarketData.Timeout),
		logger,
	)

	reportGenerator := generator.NewOpenAIGenerator(
		cfg.Generator.BaseURL,
		cfg.Generator.APIKey,
		cfg.Generator.Model,
		cfg.Generator.MaxTokens,
		cfg.Generator.Timeout,
	)

	paymentGateway := paygate.NewNOWPaymentsGateway(
		cfg.PaymentGateway.BaseURL,
		cfg.PaymentGateway.APIKey,
		cfg.PaymentGateway.IPNSecret,
		cfg.PaymentGateway.SuccessURL,
		cfg.PaymentGateway.CancelURL,
		cfg.PaymentGateway.Timeout,
	)

	engine := revenue.NewEngine(
		revenueStore,
		custodianClient,
		cfg.Custodian.PlatformWallet,
		cfg.Custodian.PayoutAsset,
		logger,
	)

	paymentSvc := paymentservice.NewLog(
		paymentservice.NewService(paymentStore, analysisStore, paymentGateway, engine, revenueStore, logger),
		logger,
	)
	analysisSvc := analysisservice.NewLog(
		analysisservice.NewService(analysisStore, paymentSvc, market, reportGenerator, logger),
		logger,
	)
	userSvc := userservice.NewService(userStore, custodianClient, validator, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Public routes: sign-up and gateway callbacks
	r.Group(func(r chi.Router) {
		userservice.RegisterPublicRoutes(r, userSvc, logger)
		paymentservice.RegisterWebhookRoutes(r, paymentSvc, logger)
	})

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(validator))
		analysisservice.RegisterRoutes(r, analysisSvc, logger)
		paymentservice.RegisterRoutes(r, paymentSvc, logger)
		userservice.RegisterRoutes(r, userSvc, logger)
		revenue.RegisterRoutes(r, revenueStore, logger)
	})

	return &Server{
		cfg:     cfg,
		logger:  logger,
		db:      db,
		handler: r,
	}, nil
}

// Handler exposes the route tree, primarily for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves HTTP until an interrupt or termination signal arrives, then
// shuts down gracefully and closes the database connection.
func (s *Server) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer s.db.Close()

	return apphttp.ServeAndWait(ctx, s.handler, s.logger, &s.cfg.Server)
}
