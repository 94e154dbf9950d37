// Package outbox provides a PostgreSQL-backed repository for signup events
// awaiting delivery to the profile service. Rows are inserted in the same
// transaction as the user record, so registration never waits on, or fails
// because of, the downstream call.
package outbox

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/authkeeper/internal/dbx"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new signup event.
func (r *PostgresRepository) Create(ctx context.Context, event *models.SignupEvent) error {
	query := `
		INSERT INTO signup_outbox (id, user_id, name, contact)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := r.db.ExecContext(ctx, query, event.ID, event.UserID, event.Name, event.Contact); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// ListPending returns up to limit undelivered events, oldest first.
func (r *PostgresRepository) ListPending(ctx context.Context, limit int) ([]*models.SignupEvent, error) {
	query := `
		SELECT id, user_id, name, contact, attempts, created_at
		FROM signup_outbox
		WHERE delivered_at IS NULL
		ORDER BY created_at
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var events []*models.SignupEvent
	for rows.Next() {
		e := &models.SignupEvent{}
		if err := rows.Scan(&e.ID, &e.UserID, &e.Name, &e.Contact, &e.Attempts, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return events, nil
}

// MarkDelivered stamps the event as delivered.
func (r *PostgresRepository) MarkDelivered(ctx context.Context, eventID string) error {
	query := `
		UPDATE signup_outbox SET delivered_at = now()
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, eventID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// MarkAttempted increments the delivery attempt counter.
func (r *PostgresRepository) MarkAttempted(ctx context.Context, eventID string) error {
	query := `
		UPDATE signup_outbox SET attempts = attempts + 1
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, eventID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
