// internal/features/data-access/application-store/validating.go
package applicationstore

import (
	"context"
	"fmt"

	"membership-portal/internal/common/logger"
	"membership-portal/internal/common/validation"
	"membership-portal/internal/models"
)

// ValidatingStore rejects writes whose document does not match the record schema.
type ValidatingStore struct {
	Store
	validator *validation.RecordValidator
	logger    logger.Logger
}

func NewValidatingStore(inner Store, validator *validation.RecordValidator, log logger.Logger) *ValidatingStore {
	return &ValidatingStore{
		Store:     inner,
		validator: validator,
		logger:    log.WithFields(map[string]interface{}{"feature": FeatureName}),
	}
}

func (s *ValidatingStore) Merge(ctx context.Context, id string, doc map[string]interface{}) error {
	if err := s.check(id, doc); err != nil {
		return err
	}
	return s.Store.Merge(ctx, id, doc)
}

func (s *ValidatingStore) Put(ctx context.Context, id string, app *models.Application) error {
	if err := s.check(id, app); err != nil {
		return err
	}
	return s.Store.Put(ctx, id, app)
}

func (s *ValidatingStore) check(id string, doc interface{}) error {
	result := s.validator.Validate(doc)
	if result.Valid {
		return nil
	}
	s.logger.Warn("document rejected by schema", map[string]interface{}{
		"applicationId": id,
		"errors":        result.GetErrorMessages(),
	})
	return fmt.Errorf("%w: %s", ErrSchemaInvalid, result.Summary())
}
