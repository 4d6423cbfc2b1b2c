package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pawhome/adoption-api/internal/domain"
	"github.com/pawhome/adoption-api/internal/repository"
	"github.com/pawhome/adoption-api/internal/service"
)

// BlobUploader stores a binary payload and returns a durable URL for it.
type BlobUploader interface {
	Upload(ctx context.Context, r io.Reader, contentType string) (string, error)
}

type server struct {
	logger *slog.Logger

	jwtSecret []byte
	uploader  BlobUploader

	userRepository        domain.UserRepository
	petRepository         domain.PetRepository
	breedRepository       domain.BreedRepository
	applicationRepository domain.ApplicationRepository

	transitions *service.TransitionEngine
	events      *EventBroker
}

func NewServer(ctx context.Context, logger *slog.Logger, jwtSecret string, uploader BlobUploader, pool *pgxpool.Pool) (*server, error) {
	if jwtSecret == "" {
		return nil, fmt.Errorf("jwt secret must not be empty")
	}
	userRepo := repository.NewPostgresUser(pool)
	petRepo := repository.NewPostgresPet(pool)
	breedRepo := repository.NewPostgresBreed(pool)
	appRepo := repository.NewPostgresApplication(pool)
	events := NewEventBroker(logger)
	return &server{
		logger:                logger,
		jwtSecret:             []byte(jwtSecret),
		uploader:              uploader,
		userRepository:        userRepo,
		petRepository:         petRepo,
		breedRepository:       breedRepo,
		applicationRepository: appRepo,
		transitions:           service.NewTransitionEngine(logger, appRepo, events),
		events:                events,
	}, nil
}

func (s *server) Server(port int) *http.Server {
	return &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.routes(),
	}
}

func (s *server) routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))
	r.Get("/up", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "up!")
	})

	r.Post("/signup", s.handleSignup)
	r.Post("/login", s.handleLogin)

	r.Get("/breeds", s.handleListBreeds)
	r.Get("/pets", s.handleListPets)
	r.Get("/pets/{pet-id}", s.handleGetPet)

	r.Get("/ws/events", s.handleEventsFeed)

	r.Group(func(r chi.Router) {
		r.Use(s.jwtVerifier)

		r.Post("/pets", s.handleCreatePet)
		r.Put("/pets/{pet-id}", s.handleUpdatePet)
		r.Delete("/pets/{pet-id}", s.handleDeletePet)

		r.Post("/application", s.handleCreateApplication)
		r.Get("/applications", s.handleListApplications)
		r.Put("/applications/{application-id}/status", s.handleSetApplicationStatus)
		r.Delete("/applications/{application-id}", s.handleDeleteApplication)
	})
	return r
}
