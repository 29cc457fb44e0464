package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/obatqu/obatqu-backend/internal/auth"
	authhandler "github.com/obatqu/obatqu-backend/internal/auth/handler"
	"github.com/obatqu/obatqu-backend/internal/auth/jwt"
	authrepo "github.com/obatqu/obatqu-backend/internal/auth/repository"
	authservice "github.com/obatqu/obatqu-backend/internal/auth/service"
	"github.com/obatqu/obatqu-backend/internal/inventory/events"
	"github.com/obatqu/obatqu-backend/internal/inventory/handler"
	"github.com/obatqu/obatqu-backend/internal/inventory/repository"
	"github.com/obatqu/obatqu-backend/internal/inventory/service"
	"github.com/obatqu/obatqu-backend/pkg/config"
	"github.com/obatqu/obatqu-backend/pkg/database"
	"github.com/obatqu/obatqu-backend/pkg/httputil"
	"github.com/obatqu/obatqu-backend/pkg/logger"
	"github.com/obatqu/obatqu-backend/pkg/mailer"
	"github.com/obatqu/obatqu-backend/pkg/messaging"
)

func main() {
	cfg, err := config.LoadWithValidation("server")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New("obatqu-backend", cfg.Server.Environment)

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Event publishing is optional; the service runs fine without a
	// broker.
	var rmq *messaging.RabbitMQ
	var pub *events.Publisher
	if cfg.RabbitMQ.Enabled() {
		rmq, err = messaging.New(&cfg.RabbitMQ, log)
		if err != nil {
			log.Error().Err(err).Msg("RabbitMQ unavailable, continuing without events")
		} else {
			defer rmq.Close()
			pub, err = events.NewPublisher(rmq, log)
			if err != nil {
				log.Error().Err(err).Msg("failed to set up event publisher, continuing without events")
				pub = nil
			}
		}
	}

	medicines := repository.NewMedicineRepository(db)
	logs := repository.NewLogRepository(db)
	inventorySvc := service.NewInventoryService(db, medicines, logs, pub, log)

	var sender mailer.Sender
	if cfg.SMTP.Configured() && cfg.Notify.To != "" {
		smtpSender, err := mailer.NewSMTPSender(&cfg.SMTP, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to set up SMTP sender")
		}
		sender = smtpSender
	} else {
		sender = mailer.NewLogSender(log)
	}

	notifier := service.NewNotifier(medicines, logs, sender, cfg.Notify.To, pub, log)
	scheduler := service.NewScheduler(notifier, cfg.Notify.SweepInterval, log)
	inventorySvc.OnMutation(scheduler.Kick)
	scheduler.Start()
	defer scheduler.Stop()

	tokens := jwt.NewManager(&cfg.JWT)
	users := authrepo.NewUserRepository(db)
	authSvc := authservice.NewAuthService(users, tokens, log)

	router := newRouter(cfg, log, db, rmq, tokens, inventorySvc, authSvc)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func newRouter(
	cfg *config.Config,
	log *logger.Logger,
	db *database.DB,
	rmq *messaging.RabbitMQ,
	tokens *jwt.Manager,
	inventorySvc *service.InventoryService,
	authSvc *authservice.AuthService,
) http.Handler {
	medicineHandler := handler.NewMedicineHandler(inventorySvc)
	dispenseHandler := handler.NewDispenseHandler(inventorySvc)
	analysisHandler := handler.NewAnalysisHandler(inventorySvc)
	logHandler := handler.NewLogHandler(inventorySvc)
	exportHandler := handler.NewExportHandler(inventorySvc, log)
	authHandler := authhandler.NewAuthHandler(authSvc)

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler(db, rmq))

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(tokens))

			r.Post("/logout", authHandler.Logout)
			r.Get("/me", authHandler.Me)

			r.Route("/obat", func(r chi.Router) {
				r.Get("/", medicineHandler.List)
				r.Post("/", medicineHandler.Create)
				r.Get("/{id}", medicineHandler.Get)
				r.Put("/{id}", medicineHandler.Update)
				r.Delete("/{id}", medicineHandler.Delete)
			})

			r.Post("/keluar", dispenseHandler.Dispense)
			r.Get("/fefo", dispenseHandler.Order)
			r.Get("/analysis", analysisHandler.Analysis)
			r.Get("/notifications", analysisHandler.Notifications)
			r.Get("/reports/stock.csv", exportHandler.CSV)
			r.Get("/reports/stock.pdf", exportHandler.PDF)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireRole(authrepo.RoleAPJ))
				r.Get("/logs", logHandler.List)
				r.Get("/users", authHandler.Users)
			})
		})
	})

	return r
}

func healthHandler(db *database.DB, rmq *messaging.RabbitMQ) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deps := map[string]map[string]string{
			"database": db.Health(r.Context()),
		}
		if rmq != nil {
			deps["rabbitmq"] = rmq.Health()
		}

		status := http.StatusOK
		overall := "up"
		for _, dep := range deps {
			if dep["status"] != "up" {
				status = http.StatusServiceUnavailable
				overall = "degraded"
			}
		}

		httputil.JSON(w, status, map[string]interface{}{
			"status":       overall,
			"dependencies": deps,
		})
	}
}
