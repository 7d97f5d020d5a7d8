// internal/features/data-access/application-store/store.go
package applicationstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"membership-portal/internal/common/config"
	"membership-portal/internal/common/database"
	commonerrors "membership-portal/internal/common/errors"
	"membership-portal/internal/common/logger"
	"membership-portal/internal/common/validation"
	"membership-portal/internal/models"
)

const (
	FeatureName = "application-store"
)

var (
	ErrNotFound         = errors.New("APPLICATION_NOT_FOUND")
	ErrAlreadySubmitted = errors.New("APPLICATION_ALREADY_SUBMITTED")
	ErrSchemaInvalid    = errors.New("RECORD_SCHEMA_INVALID")
	ErrStoreFailed      = errors.New("STORE_FAILED")
)

// Store is the document store for application records, keyed by identity UID.
type Store interface {
	// Get returns ErrNotFound when no record exists for id.
	Get(ctx context.Context, id string) (*models.Application, error)
	// Merge writes the given fields over the stored record, creating it when
	// absent. Submitted records are never modified: ErrAlreadySubmitted.
	Merge(ctx context.Context, id string, doc map[string]interface{}) error
	// Put replaces the record unconditionally.
	Put(ctx context.Context, id string, app *models.Application) error
	// List returns the whole collection.
	List(ctx context.Context) ([]models.StoredApplication, error)
	Ping(ctx context.Context) error
}

// New builds the configured store, wrapped with schema validation when enabled.
func New(cfg *Config, pg *database.PostgresClient, es *database.ElasticsearchClient, log logger.Logger) (Store, error) {
	var store Store
	switch cfg.Driver {
	case config.StoreDriverPostgres:
		if pg == nil {
			return nil, fmt.Errorf("postgres store requires a postgres client")
		}
		s, err := NewPostgresStore(pg, cfg.Collection, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		store = s
	case config.StoreDriverElasticsearch:
		if es == nil {
			return nil, fmt.Errorf("elasticsearch store requires an elasticsearch client")
		}
		store = NewElasticsearchStore(es, cfg.Collection, cfg.Timeout)
	case config.StoreDriverMemory, "":
		store = NewMemoryStore()
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}

	if cfg.ValidateSchema {
		v, err := validation.NewApplicationValidator()
		if err != nil {
			return nil, err
		}
		store = NewValidatingStore(store, v, log)
	}
	return store, nil
}

// ToStandardError maps store errors to the portal's error taxonomy.
func ToStandardError(id string, err error, write bool) error {
	var stdErr *commonerrors.StandardError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &stdErr):
		return err
	case errors.Is(err, ErrNotFound):
		return commonerrors.NewApplicationNotFoundError(id)
	case errors.Is(err, ErrAlreadySubmitted):
		return commonerrors.NewApplicationAlreadySubmittedError(id)
	case errors.Is(err, ErrSchemaInvalid):
		return commonerrors.NewRecordSchemaInvalidError(err.Error())
	case write:
		return commonerrors.NewStoreWriteFailedError(err)
	default:
		return commonerrors.NewStoreReadFailedError(err)
	}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
