package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	billshandler "github.com/swami-pg/backend/domains/bills/be/handler"
	billsrepo "github.com/swami-pg/backend/domains/bills/be/repo"
	billsservice "github.com/swami-pg/backend/domains/bills/be/service"
	complaintshandler "github.com/swami-pg/backend/domains/complaints/be/handler"
	complaintsrepo "github.com/swami-pg/backend/domains/complaints/be/repo"
	complaintsservice "github.com/swami-pg/backend/domains/complaints/be/service"
	identityhandler "github.com/swami-pg/backend/domains/identity/be/handler"
	identityrepo "github.com/swami-pg/backend/domains/identity/be/repo"
	identityservice "github.com/swami-pg/backend/domains/identity/be/service"
	propertieshandler "github.com/swami-pg/backend/domains/properties/be/handler"
	propertiesrepo "github.com/swami-pg/backend/domains/properties/be/repo"
	propertiesservice "github.com/swami-pg/backend/domains/properties/be/service"
	tenantshandler "github.com/swami-pg/backend/domains/tenants/be/handler"
	tenantsrepo "github.com/swami-pg/backend/domains/tenants/be/repo"
	tenantsservice "github.com/swami-pg/backend/domains/tenants/be/service"
	visitshandler "github.com/swami-pg/backend/domains/visits/be/handler"
	visitsrepo "github.com/swami-pg/backend/domains/visits/be/repo"
	visitsservice "github.com/swami-pg/backend/domains/visits/be/service"
	platformauth "github.com/swami-pg/backend/platform/go/auth"
	platformlogging "github.com/swami-pg/backend/platform/go/logging"
	platformmetrics "github.com/swami-pg/backend/platform/go/metrics"
	platformmiddleware "github.com/swami-pg/backend/platform/go/middleware"
)

type config struct {
	Port            string        `env:"PORT" envDefault:"3000"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	AuthProvider    string        `env:"AUTH_PROVIDER" envDefault:"firebase"` // firebase | fake
	ProjectID       string        `env:"FIREBASE_PROJECT_ID"`
	CredentialsFile string        `env:"GOOGLE_APPLICATION_CREDENTIALS"`
}

func main() {
	ctx := context.Background()

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := platformlogging.NewLogger(platformlogging.Config{
		Component: "api-server",
		Level:     cfg.LogLevel,
	})
	if err != nil {
		log.Fatalf("init zap logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	provider, store, cleanup := buildIdentityBackend(ctx, cfg, logger)
	defer cleanup()

	registry := prometheus.NewRegistry()
	collector := platformmetrics.NewCollector(registry)

	idRepo := identityrepo.New(store)
	resolver := identityservice.NewResolver(idRepo, logger, collector)
	linker := identityservice.NewLinker(idRepo, logger, collector)
	signUp := identityservice.NewSignUp(provider, linker)
	normalizer := identityservice.NewNormalizer(idRepo, collector)
	identityHTTPHandler := identityhandler.New(signUp, normalizer, logger)

	propertiesService := propertiesservice.New(propertiesrepo.NewDocstoreRepository(store))
	propertiesHTTPHandler := propertieshandler.New(propertiesService, logger)

	tenantsService := tenantsservice.New(tenantsrepo.NewDocstoreRepository(store))
	tenantsHTTPHandler := tenantshandler.New(tenantsService, logger)

	billsService := billsservice.New(billsrepo.NewDocstoreRepository(store))
	billsHTTPHandler := billshandler.New(billsService, logger)

	complaintsService := complaintsservice.New(complaintsrepo.NewDocstoreRepository(store))
	complaintsHTTPHandler := complaintshandler.New(complaintsService, logger)

	visitsService := visitsservice.New(visitsrepo.NewDocstoreRepository(store))
	visitsHTTPHandler := visitshandler.New(visitsService, logger)

	authMiddleware := platformauth.Middleware(provider, resolver, logger)

	lookupLimiter := platformmiddleware.NewRateLimiter(platformmiddleware.DefaultLookupRateLimit())
	defer lookupLimiter.Stop()

	rootRouter := chi.NewRouter()

	rootRouter.Use(
		chimw.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		chimw.Timeout(cfg.RequestTimeout),
		platformmiddleware.DefaultCORS(),
	)

	rootRouter.Use(platformlogging.RequestLogger(logger))

	rootRouter.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	rootRouter.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	rootRouter.Method(http.MethodGet, "/metrics", platformmetrics.Handler(registry))

	registerDocsRoutes(rootRouter, logger)

	specValidator, err := platformmiddleware.NewSpecValidator(openAPISpec)
	if err != nil {
		logger.Fatal("load openapi contract", zap.Error(err))
	}

	apiRouter := chi.NewRouter()
	apiRouter.Use(authMiddleware)
	apiRouter.Use(platformmiddleware.RequestTrace)
	apiRouter.Use(specValidator)

	// Public surface: property discovery, visit booking, and the two
	// pre-auth identity endpoints. The identity endpoints are the only
	// ones that let an anonymous caller probe the tenant roster, so they
	// sit behind the lookup rate limiter.
	apiRouter.Group(func(r chi.Router) {
		r.Use(lookupLimiter.Middleware())
		identityHTTPHandler.Routes(r)
	})
	apiRouter.Group(func(r chi.Router) {
		propertiesHTTPHandler.Routes(r)
		visitsHTTPHandler.Routes(r)
	})

	// Any signed-in principal, including unbound ones, can ask who they are.
	apiRouter.Group(func(r chi.Router) {
		r.Use(platformauth.RequireSignedIn())
		identityHTTPHandler.SessionRoutes(r)
	})

	// Tenant portal.
	apiRouter.Group(func(r chi.Router) {
		r.Use(platformauth.RequireRole(identityservice.RoleTenant))
		billsHTTPHandler.TenantRoutes(r)
		complaintsHTTPHandler.TenantRoutes(r)
	})

	// Admin back-office.
	apiRouter.Route("/admin", func(r chi.Router) {
		r.Use(platformauth.RequireRole(identityservice.RoleAdmin))
		tenantsHTTPHandler.AdminRoutes(r)
		propertiesHTTPHandler.AdminRoutes(r)
		billsHTTPHandler.AdminRoutes(r)
		complaintsHTTPHandler.AdminRoutes(r)
		visitsHTTPHandler.AdminRoutes(r)
	})

	rootRouter.Mount("/api/v1", apiRouter)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      rootRouter,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	go func() {
		logger.Info("starting api server", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server listen failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
