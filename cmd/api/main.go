package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/spacenow-app/spacenow/internal/domain"
	"github.com/spacenow-app/spacenow/internal/http/handlers"
	"github.com/spacenow-app/spacenow/internal/identity"
	"github.com/spacenow-app/spacenow/internal/images"
	"github.com/spacenow-app/spacenow/internal/mailer"
	"github.com/spacenow-app/spacenow/internal/notify"
	"github.com/spacenow-app/spacenow/internal/repo/postgres"
	"github.com/spacenow-app/spacenow/internal/store"
	"github.com/spacenow-app/spacenow/pkg/auth"
	"github.com/spacenow-app/spacenow/pkg/config"
	"github.com/spacenow-app/spacenow/pkg/database"
	"github.com/spacenow-app/spacenow/pkg/events"
	"github.com/spacenow-app/spacenow/pkg/logger"
	mw "github.com/spacenow-app/spacenow/pkg/middleware"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()

	// Connect to database
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Event bus: NATS when configured, otherwise in-process dispatch
	var bus events.EventBus
	if cfg.NATS.Enabled {
		natsBus, err := events.NewNATSEventBus(cfg.NATS.URL)
		if err != nil {
			logger.Error("Failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer natsBus.Close()
		bus = natsBus
	} else {
		bus = events.NewInProcessBus()
	}

	// Image storage and cache
	imageStorage, err := images.NewDiskStorage(cfg.Storage.ImageRoot)
	if err != nil {
		logger.Error("Failed to initialize image storage", "error", err)
		os.Exit(1)
	}

	var imageCache *images.Cache
	cache := images.NewCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.ImageTTL)
	if err := cache.Ping(ctx); err != nil {
		logger.Warn("Redis unavailable, image caching disabled", "error", err)
		cache.Close()
	} else {
		imageCache = cache
		defer imageCache.Close()
	}

	// Identity stack
	userRepo := postgres.NewUserRepository(pool)
	verifyRepo := postgres.NewVerifyRepository(pool)
	identitySvc := identity.NewService(userRepo, verifyRepo, buildMailer(cfg), cfg)
	tokens := auth.NewTokenMaker(cfg.Auth.JWTSecret)

	go cleanupExpiredTokens(ctx, verifyRepo)

	// Stores
	spaces := store.NewSpaces(imageStorage, cfg.Storage.PlaceholderImage, bus)
	source := &store.StaticReservationSource{}
	reservations := store.NewReservations(source, bus)
	seed(ctx, spaces, source)

	// Reservation confirmation emails ride on the event bus
	notifier := notify.New(bus, identitySvc, buildMailer(cfg))
	if err := notifier.Start(); err != nil {
		logger.Warn("Failed to start reservation notifier", "error", err)
	}

	h := handlers.New(spaces, reservations, identitySvc, tokens, bus, imageStorage, imageCache, cfg)

	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000", "*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(mw.Health)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Get("/verify", h.VerifyEmail)
		r.Post("/resend-verification", h.ResendVerification)
		r.With(h.RequireJWT("")).Post("/logout", h.Logout)
	})

	r.Route("/spaces", func(r chi.Router) {
		r.With(h.RequireJWT("")).Get("/", h.ListSpaces)
		r.With(h.RequireJWT("")).Get("/{id}/image", h.GetSpaceImage)
		r.With(h.RequireJWT("admin")).Post("/", h.CreateSpace)
		r.With(h.RequireJWT("admin")).Put("/{id}", h.UpdateSpace)
		r.With(h.RequireJWT("admin")).Delete("/{id}", h.DeleteSpace)
	})

	r.Route("/reservations", func(r chi.Router) {
		r.Use(h.RequireJWT("user"))
		r.Get("/", h.ListMyReservations)
		r.Post("/", h.CreateReservation)
		r.Patch("/{id}", h.ModifyReservation)
		r.Delete("/{id}", h.DeleteReservation)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(h.RequireJWT("admin"))
		r.Get("/reservations", h.ListAllReservations)
		r.Get("/statistics", h.Statistics)
		r.Get("/users", h.ListUsers)
		r.Post("/users/{id}/promote", h.PromoteUser)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	}()

	logger.Info("Starting SpaceNow API", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}

func buildMailer(cfg *config.Config) mailer.Service {
	switch {
	case cfg.Email.DevMode:
		return mailer.NewDevMailer()
	case cfg.Email.MailerSendKey != "":
		return mailer.NewMailerSend(cfg.Email.MailerSendKey, "SpaceNow", cfg.Email.SMTPFrom)
	default:
		return mailer.NewSMTPMailer(cfg.Email.SMTPHost, cfg.Email.SMTPPort, cfg.Email.SMTPFrom, cfg.Email.SMTPUser, cfg.Email.SMTPPass)
	}
}

// cleanupExpiredTokens prunes stale email verification tokens once an hour.
func cleanupExpiredTokens(ctx context.Context, verify postgres.VerifyRepository) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := verify.DeleteExpiredTokens(ctx)
			if err != nil {
				logger.Warn("Failed to delete expired verification tokens", "error", err)
				continue
			}
			if deleted > 0 {
				logger.Info("Deleted expired verification tokens", "count", deleted)
			}
		}
	}
}

// seed loads the amenity catalog and a small demo reservation set so a fresh
// deployment has data to show.
func seed(ctx context.Context, spaces *store.Spaces, source *store.StaticReservationSource) {
	catalog := []domain.SpaceRequest{
		{Name: "Salón Social", Description: "Social room for events and gatherings", Capacity: "50"},
		{Name: "Zona BBQ", Description: "Barbecue area with grills and seating", Capacity: "20"},
		{Name: "Gimnasio", Description: "Fully equipped gym", Capacity: "15"},
		{Name: "Sauna", Description: "Sauna and relaxation area", Capacity: "6"},
		{Name: "Cancha de Tenis", Description: "Tennis court", Capacity: "4"},
		{Name: "Cancha Sintética", Description: "Synthetic football pitch", Capacity: "14"},
	}
	for _, req := range catalog {
		if !spaces.Create(ctx, req) {
			logger.Warn("Failed to seed space", "name", req.Name, "error", spaces.LastError().Get())
		}
	}

	list := spaces.List()
	if len(list) < 2 {
		return
	}

	now := time.Now()
	source.Reservations = []domain.Reservation{
		domain.NewReservation(uuid.NewString(), list[0].ID, list[0].Name, "demo-user-1", now.Add(24*time.Hour)),
		domain.NewReservation(uuid.NewString(), list[1].ID, list[1].Name, "demo-user-2", now.Add(48*time.Hour)),
		domain.NewReservation(uuid.NewString(), list[0].ID, list[0].Name, "demo-user-2", now.Add(72*time.Hour)),
	}
}
