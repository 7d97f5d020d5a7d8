// internal/features/data-access/application-store/postgres.go
package applicationstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"membership-portal/internal/common/database"
	"membership-portal/internal/models"
)

// PostgresStore keeps each application as a JSONB document.
type PostgresStore struct {
	client  *database.PostgresClient
	table   string
	timeout time.Duration
}

func NewPostgresStore(client *database.PostgresClient, table string, timeout time.Duration) (*PostgresStore, error) {
	if !database.ValidIdentifier(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &PostgresStore{client: client, table: table, timeout: timeout}, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*models.Application, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	var raw []byte
	query := fmt.Sprintf(`SELECT document FROM %s WHERE id = $1`, s.table)
	if err := s.client.QueryRow(ctx, query, id).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreFailed, err)
	}

	var app models.Application
	if err := json.Unmarshal(raw, &app); err != nil {
		return nil, fmt.Errorf("%w: decode document %s: %v", ErrStoreFailed, id, err)
	}
	return &app, nil
}

func (s *PostgresStore) Merge(ctx context.Context, id string, doc map[string]interface{}) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: encode document: %v", ErrStoreFailed, err)
	}

	query := fmt.Sprintf(`INSERT INTO %[1]s (id, document, updated_at)
VALUES ($1, $2::jsonb, NOW())
ON CONFLICT (id) DO UPDATE
SET document = %[1]s.document || EXCLUDED.document, updated_at = NOW()
WHERE NOT COALESCE((%[1]s.document->>'submitted')::boolean, false)`, s.table)

	res, err := s.client.Exec(ctx, query, id, string(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreFailed, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreFailed, err)
	}
	if n == 0 {
		return ErrAlreadySubmitted
	}
	return nil
}

func (s *PostgresStore) Put(ctx context.Context, id string, app *models.Application) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	data, err := json.Marshal(app)
	if err != nil {
		return fmt.Errorf("%w: encode document: %v", ErrStoreFailed, err)
	}

	query := fmt.Sprintf(`INSERT INTO %s (id, document, updated_at)
VALUES ($1, $2::jsonb, NOW())
ON CONFLICT (id) DO UPDATE
SET document = EXCLUDED.document, updated_at = NOW()`, s.table)

	if _, err := s.client.Exec(ctx, query, id, string(data)); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreFailed, err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]models.StoredApplication, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	query := fmt.Sprintf(`SELECT id, document FROM %s ORDER BY id`, s.table)
	rows, err := s.client.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreFailed, err)
	}
	defer rows.Close()

	var out []models.StoredApplication
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreFailed, err)
		}
		var app models.Application
		if err := json.Unmarshal(raw, &app); err != nil {
			return nil, fmt.Errorf("%w: decode document %s: %v", ErrStoreFailed, id, err)
		}
		out = append(out, models.StoredApplication{ID: id, Application: app})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreFailed, err)
	}
	return out, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}
