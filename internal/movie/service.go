package movie

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrGenreEmpty = errors.New("no movies for genre")

// Store is the catalog persistence
type Store interface {
	List(ctx context.Context) ([]Movie, error)
	GetByID(ctx context.Context, id int64) (*Movie, error)
	Exists(ctx context.Context, id int64) (bool, error)
	ListGenres(ctx context.Context) ([]Genre, error)
	ListByGenre(ctx context.Context, name string) ([]Movie, error)
}

type Service struct {
	store Store
	cache *Cache
}

// NewService creates the catalog service. cache may be nil.
func NewService(store Store, cache *Cache) *Service {
	return &Service{store: store, cache: cache}
}

func (s *Service) List(ctx context.Context) ([]Movie, error) {
	var movies []Movie
	if s.cache.get(ctx, "list", &movies) {
		return movies, nil
	}

	movies, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.set(ctx, "list", movies)
	return movies, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Movie, error) {
	key := fmt.Sprintf("detail:%d", id)

	var m Movie
	if s.cache.get(ctx, key, &m) {
		return &m, nil
	}

	found, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.set(ctx, key, found)
	return found, nil
}

// Exists is used by favorites and never cached so deletes are seen at once
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	return s.store.Exists(ctx, id)
}

func (s *Service) Genres(ctx context.Context) ([]Genre, error) {
	var genres []Genre
	if s.cache.get(ctx, "genres", &genres) {
		return genres, nil
	}

	genres, err := s.store.ListGenres(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.set(ctx, "genres", genres)
	return genres, nil
}

// ByGenre matches the genre name case-insensitively. An empty result is
// ErrGenreEmpty.
func (s *Service) ByGenre(ctx context.Context, name string) ([]Movie, error) {
	name = strings.TrimSpace(name)
	key := "genre:" + strings.ToLower(name)

	var movies []Movie
	if !s.cache.get(ctx, key, &movies) {
		var err error
		movies, err = s.store.ListByGenre(ctx, name)
		if err != nil {
			return nil, err
		}
		if len(movies) > 0 {
			s.cache.set(ctx, key, movies)
		}
	}

	if len(movies) == 0 {
		return nil, ErrGenreEmpty
	}
	return movies, nil
}
