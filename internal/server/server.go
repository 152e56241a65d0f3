// Package server wires handlers, middleware and routes together and owns
// the HTTP server lifecycle. It is the composition root: services,
// handlers and the recurrence scheduler are all assembled in New.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/huddleapp/huddle/internal/auth"
	"github.com/huddleapp/huddle/internal/config"
	"github.com/huddleapp/huddle/internal/handler"
	"github.com/huddleapp/huddle/internal/middleware"
	"github.com/huddleapp/huddle/internal/recurrence"
	"github.com/huddleapp/huddle/internal/repository/mongodb"
	"github.com/huddleapp/huddle/internal/service"
)

// Server bundles the router, configuration and the recurrence scheduler.
// The store is owned by main (it outlives request handling and is closed
// after shutdown).
type Server struct {
	router    *chi.Mux
	config    config.Config
	logger    *slog.Logger
	scheduler *recurrence.Scheduler
}

// New assembles the full dependency graph on top of the given store.
func New(cfg config.Config, logger *slog.Logger, store *mongodb.Store) (*Server, error) {
	tokens, err := auth.NewTokenService(cfg.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	users := store.Users()
	groups := store.Groups()
	events := store.Events()

	authService := service.NewAuthService(users, tokens, passwords, logger)
	userService := service.NewUserService(users, passwords, logger)
	groupService := service.NewGroupService(groups, events, logger)
	eventService := service.NewEventService(events, groups, logger)

	engine := recurrence.NewEngine(events, logger)
	scheduler, err := recurrence.NewScheduler(engine, cfg.ReconcileSpec, logger)
	if err != nil {
		return nil, fmt.Errorf("creating scheduler: %w", err)
	}

	s := &Server{
		router:    chi.NewRouter(),
		config:    cfg,
		logger:    logger,
		scheduler: scheduler,
	}

	s.setupRoutes(tokens, authService, userService, groupService, eventService)

	return s, nil
}

func (s *Server) setupRoutes(
	tokens *auth.TokenService,
	authService *service.AuthService,
	userService *service.UserService,
	groupService *service.GroupService,
	eventService *service.EventService,
) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	requireAuth := auth.RequireAuth(tokens, s.config.TokenHeaderName)

	authHandler := handler.NewAuthHandler(authService, s.config.TokenHeaderName, s.logger)
	userHandler := handler.NewUserHandler(userService, s.logger)
	groupHandler := handler.NewGroupHandler(groupService, s.logger)
	eventHandler := handler.NewEventHandler(eventService, s.logger)

	s.router.Get("/ping", handler.HandlePing)

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
	})

	s.router.Route("/events", func(r chi.Router) {
		r.Get("/get/{eventID}", eventHandler.HandleGet)
		r.Get("/get_all", eventHandler.HandleGetAll)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/create", eventHandler.HandleCreate)
			r.Get("/get_for_user", eventHandler.HandleGetForUser)
			r.Get("/get_for_group/{groupName}", eventHandler.HandleGetForGroup)
			r.Patch("/update/{eventID}", eventHandler.HandleUpdate)
			r.Delete("/delete/{eventID}", eventHandler.HandleDelete)
		})
	})

	s.router.Route("/groups", func(r chi.Router) {
		r.Get("/get/{groupID}", groupHandler.HandleGet)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/create", groupHandler.HandleCreate)
			r.Get("/get_for_user", groupHandler.HandleGetForUser)
			r.Get("/get_all", groupHandler.HandleGetAll)
			r.Patch("/update/{groupID}", groupHandler.HandleUpdate)
			r.Patch("/memberJoined/{groupID}", groupHandler.HandleMemberJoined)
			r.Patch("/memberLeft/{groupID}", groupHandler.HandleMemberLeft)
			r.Delete("/delete/{groupID}", groupHandler.HandleDelete)
		})
	})

	s.router.Route("/users", func(r chi.Router) {
		r.Get("/get/all", userHandler.HandleGetAll)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/get", userHandler.HandleGet)
			r.Patch("/update", userHandler.HandleUpdate)
			r.Patch("/updatePassword", userHandler.HandleUpdatePassword)
			r.Delete("/delete", userHandler.HandleDelete)
		})
	})

	// Anything else is an invalid endpoint.
	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Invalid endpoint"}` + "\n"))
	})
}

// Start runs the HTTP server and the recurrence scheduler until SIGINT or
// SIGTERM, then shuts both down gracefully: stop accepting connections,
// give in-flight requests 30 seconds, and wait out any running
// reconciliation pass.
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.scheduler.Start()
	defer s.scheduler.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("reconcileSchedule", s.config.ReconcileSpec),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
