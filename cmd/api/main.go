// @title EventHub API
// @version 1.0
// @description Events with invitations, RSVPs and reviews.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"eventhub/config"
	"eventhub/internal/adapters/auth"
	"eventhub/internal/adapters/email"
	"eventhub/internal/adapters/queue"
	deliveryhttp "eventhub/internal/delivery/http"
	"eventhub/internal/delivery/http/controllers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"
	"eventhub/internal/repository/memory"
	"eventhub/internal/repository/sqlstore"
	"eventhub/internal/services"
)

const shutdownTimeout = 15 * time.Second

type repositories struct {
	users    domain.UserRepository
	profiles domain.ProfileRepository
	events   domain.EventRepository
	rsvps    domain.RSVPRepository
	reviews  domain.ReviewRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := config.NewLogger(cfg)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, closeDB, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeDB()

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.AWSRegion,
			AccessKeyID:        cfg.Email.AWSAccessKeyID,
			SecretAccessKey:    cfg.Email.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Email.SESInsecureSkipVerify,
		},
		ResendAPIKey: cfg.Email.ResendAPIKey,
	}, logger)
	if err != nil {
		return fmt.Errorf("create mailer: %w", err)
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)
	notifications := services.NewNotificationService(repos.events, repos.users, emailService, logger)
	jobs := queue.NewChannel(cfg.NotificationQueueSize, logger)

	timeout := cfg.RequestTimeout
	userService := services.NewUserService(repos.users, repos.profiles, timeout)
	eventService := services.NewEventService(repos.events, repos.users, jobs, logger, timeout)
	rsvpService := services.NewRSVPService(repos.rsvps, repos.events, timeout)
	reviewService := services.NewReviewService(repos.reviews, repos.events, timeout)

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst, 10*time.Minute)
	router := deliveryhttp.NewRouter(deliveryhttp.Controllers{
		Events:   controllers.NewEventController(logger, eventService),
		RSVPs:    controllers.NewRSVPController(logger, rsvpService),
		Reviews:  controllers.NewReviewController(logger, reviewService),
		Profiles: controllers.NewProfileController(logger, userService),
	}, deliveryhttp.Middlewares{
		Authenticate: middleware.Authenticate(auth.NewJWTVerifier(cfg.JWTSecret), userService, logger),
		RateLimit:    limiter.Limit,
	})

	var handler http.Handler = router
	handler = middleware.CORS(cfg.CORSAllowedOrigins, handler)
	handler = middleware.LoggingMiddleware(logger, handler)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment, "db_driver", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return jobs.Run(gctx, notifications)
	})
	g.Go(func() error {
		return limiter.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		// No request can submit after Shutdown returns, so the worker drains what is left and exits.
		jobs.Close()
		if err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func openRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repositories, func(), error) {
	if cfg.DBDriver == "memory" {
		logger.Warn("using the in-memory store, data is lost on restart")
		store := memory.New()
		return repositories{
			users:    store.Users(),
			profiles: store.Profiles(),
			events:   store.Events(),
			rsvps:    store.RSVPs(),
			reviews:  store.Reviews(),
		}, func() {}, nil
	}

	driver, err := sqlstore.ParseDriver(cfg.DBDriver)
	if err != nil {
		return repositories{}, nil, err
	}
	openCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	db, err := sqlstore.Open(openCtx, driver, cfg.DBUrl)
	if err != nil {
		return repositories{}, nil, fmt.Errorf("open database: %w", err)
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			logger.Error("close database", "err", err)
		}
	}
	return repositories{
		users:    sqlstore.NewUserRepository(db, driver),
		profiles: sqlstore.NewProfileRepository(db),
		events:   sqlstore.NewEventRepository(db, driver),
		rsvps:    sqlstore.NewRSVPRepository(db),
		reviews:  sqlstore.NewReviewRepository(db),
	}, closeDB, nil
}
