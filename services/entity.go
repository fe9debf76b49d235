package services

import (
	"context"
	"errors"
	"fmt"

	"pro5/backend/models"
	"pro5/backend/restheart"

	"go.uber.org/zap"
)

var (
	// ErrNotFound means the store has no record with the requested id.
	ErrNotFound = restheart.ErrNotFound

	ErrIDNull         = errors.New("invalid id")
	ErrIDInvalid      = errors.New("invalid ID")
	ErrIDMismatch     = errors.New("ID in URL and request body must match")
	ErrEntityNotFound = errors.New("entity not found")
)

// Store is the remote collection an entity lives in.
type Store[T any] interface {
	Save(ctx context.Context, entity *T) (string, error)
	GetByID(ctx context.Context, id string) (*T, error)
	FindAll(ctx context.Context) ([]T, error)
	Update(ctx context.Context, id string, entity *T) error
	Delete(ctx context.Context, id string) error
}

// Mirror is the local copy kept alongside the store.
type Mirror[T any] interface {
	Save(ctx context.Context, entity T) error
	DeleteByID(ctx context.Context, id string) error
}

// record is satisfied by *models.Category and *models.Item.
type record[T any] interface {
	*T
	EntityID() string
	SetID(id string)
	Merge(patch T)
}

// crud implements the operations shared by every entity.
type crud[T any, P record[T]] struct {
	name   string
	store  Store[T]
	mirror Mirror[T]
	logger *zap.Logger
}

func newCrud[T any, P record[T]](name string, store Store[T], mirror Mirror[T], logger *zap.Logger) crud[T, P] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return crud[T, P]{
		name:   name,
		store:  store,
		mirror: mirror,
		logger: logger.With(zap.String("entity", name)),
	}
}

func (s crud[T, P]) FindAll(ctx context.Context) ([]T, error) {
	s.logger.Debug("Request to get all entities")
	entities, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing %s: %w", s.name, err)
	}
	return entities, nil
}

func (s crud[T, P]) FindOne(ctx context.Context, id string) (*T, error) {
	s.logger.Debug("Request to get entity", zap.String("id", id))
	entity, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting %s %s: %w", s.name, id, err)
	}
	return entity, nil
}

// Create stores entity under a freshly generated id; any id the caller set is replaced.
func (s crud[T, P]) Create(ctx context.Context, entity T) (*T, error) {
	P(&entity).SetID(models.NewID())
	s.logger.Debug("Request to save entity", zap.String("id", P(&entity).EntityID()))

	id, err := s.store.Save(ctx, &entity)
	if err != nil {
		return nil, fmt.Errorf("error creating %s: %w", s.name, err)
	}
	P(&entity).SetID(id)

	s.mirrorSave(ctx, entity)
	return &entity, nil
}

// Update replaces the stored record. An entity without id takes the path id.
func (s crud[T, P]) Update(ctx context.Context, id string, entity T) (*T, error) {
	s.logger.Debug("Request to update entity", zap.String("id", id))

	switch bodyID := P(&entity).EntityID(); {
	case bodyID == "":
		P(&entity).SetID(id)
	case bodyID != id:
		return nil, ErrIDMismatch
	}

	if err := s.store.Update(ctx, id, &entity); err != nil {
		return nil, fmt.Errorf("error updating %s %s: %w", s.name, id, err)
	}

	s.mirrorSave(ctx, entity)
	return &entity, nil
}

// PartialUpdate applies the non-nil fields of patch to the stored record.
func (s crud[T, P]) PartialUpdate(ctx context.Context, id string, patch T) (*T, error) {
	s.logger.Debug("Request to partially update entity", zap.String("id", id))

	patchID := P(&patch).EntityID()
	if patchID == "" {
		return nil, ErrIDNull
	}
	if patchID != id {
		return nil, ErrIDInvalid
	}

	existing, err := s.store.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrEntityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error getting %s %s: %w", s.name, id, err)
	}

	P(existing).Merge(patch)
	if err := s.store.Update(ctx, id, existing); err != nil {
		return nil, fmt.Errorf("error updating %s %s: %w", s.name, id, err)
	}

	s.mirrorSave(ctx, *existing)
	return existing, nil
}

func (s crud[T, P]) Delete(ctx context.Context, id string) error {
	s.logger.Debug("Request to delete entity", zap.String("id", id))

	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting %s %s: %w", s.name, id, err)
	}

	if s.mirror != nil {
		if err := s.mirror.DeleteByID(ctx, id); err != nil {
			s.logger.Warn("Failed to remove entity from mirror", zap.String("id", id), zap.Error(err))
		}
	}
	return nil
}

// mirrorSave copies entity into the mirror. The store is authoritative, so a
// mirror failure is only logged.
func (s crud[T, P]) mirrorSave(ctx context.Context, entity T) {
	if s.mirror == nil {
		return
	}
	if err := s.mirror.Save(ctx, entity); err != nil {
		s.logger.Warn("Failed to mirror entity", zap.String("id", P(&entity).EntityID()), zap.Error(err))
	}
}

// EntityService is the CRUD surface shared by CategoryService and ItemService.
type EntityService[T any] interface {
	FindAll(ctx context.Context) ([]T, error)
	FindOne(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, entity T) (*T, error)
	Update(ctx context.Context, id string, entity T) (*T, error)
	PartialUpdate(ctx context.Context, id string, patch T) (*T, error)
	Delete(ctx context.Context, id string) error
}

var (
	_ EntityService[models.Category] = (*CategoryService)(nil)
	_ EntityService[models.Item]     = (*ItemService)(nil)
)
