package favorite

import (
	"context"
	"errors"
	"fmt"

	"github.com/maraton/maraton-api/internal/metrics"
	"github.com/maraton/maraton-api/internal/movie"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrMovieNotFound = errors.New("movie not found")
)

type Store interface {
	SetFavorite(ctx context.Context, userID, movieID int64, favorito bool) (bool, error)
	ListFavorites(ctx context.Context, userID int64) ([]movie.Movie, error)
}

// ExistenceChecker is satisfied by the user repository and the movie service
type ExistenceChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type Service struct {
	store  Store
	users  ExistenceChecker
	movies ExistenceChecker
}

func NewService(store Store, users, movies ExistenceChecker) *Service {
	return &Service{store: store, users: users, movies: movies}
}

// Set marks movieID as favorite or not for userID, creating the preference
// when it does not exist yet. The bool result is true on creation.
func (s *Service) Set(ctx context.Context, userID, movieID int64, favorito bool) (bool, error) {
	if err := s.checkExists(ctx, userID, movieID); err != nil {
		return false, err
	}

	created, err := s.store.SetFavorite(ctx, userID, movieID, favorito)
	if err != nil {
		return false, err
	}

	action := "updated"
	if created {
		action = "created"
	}
	metrics.FavoriteMutations.WithLabelValues(action).Inc()
	return created, nil
}

// Add is Set with favorito = true
func (s *Service) Add(ctx context.Context, userID, movieID int64) (bool, error) {
	return s.Set(ctx, userID, movieID, true)
}

func (s *Service) List(ctx context.Context, userID int64) ([]movie.Movie, error) {
	ok, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check user: %w", err)
	}
	if !ok {
		return nil, ErrUserNotFound
	}
	return s.store.ListFavorites(ctx, userID)
}

func (s *Service) checkExists(ctx context.Context, userID, movieID int64) error {
	ok, err := s.users.Exists(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to check user: %w", err)
	}
	if !ok {
		return ErrUserNotFound
	}

	ok, err = s.movies.Exists(ctx, movieID)
	if err != nil {
		return fmt.Errorf("failed to check movie: %w", err)
	}
	if !ok {
		return ErrMovieNotFound
	}
	return nil
}
