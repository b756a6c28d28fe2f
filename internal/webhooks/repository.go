package webhooks

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a webhook subscription is not found.
var ErrNotFound = errors.New("webhook subscription not found")

// ErrNotOwner is returned when a caller tries to remove a subscription
// they did not create.
var ErrNotOwner = errors.New("subscription belongs to another account")

// Repository provides persistence for subscriptions and delivery records.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new webhook Repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Create inserts a new webhook subscription.
func (r *Repository) Create(ctx context.Context, sub *Subscription) error {
	sub.ID = uuid.New()
	sub.CreatedAt = time.Now().UTC()
	sub.Active = true

	q := `INSERT INTO webhook_subscriptions (id, owner_id, url, events, secret, active, created_at)
	      VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Exec(ctx, q,
		sub.ID, sub.OwnerID, sub.URL, sub.Events, sub.Secret, sub.Active, sub.CreatedAt,
	)
	return err
}

// GetByID retrieves a subscription by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Subscription, error) {
	q := `SELECT id, owner_id, url, events, secret, active, created_at
	      FROM webhook_subscriptions WHERE id = $1`
	row := r.db.QueryRow(ctx, q, id)

	var sub Subscription
	if err := row.Scan(&sub.ID, &sub.OwnerID, &sub.URL, &sub.Events, &sub.Secret, &sub.Active, &sub.CreatedAt); err != nil {
		return nil, ErrNotFound
	}
	return &sub, nil
}

// ListByOwner returns all subscriptions created by one account.
func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Subscription, error) {
	q := `SELECT id, owner_id, url, events, secret, active, created_at
	      FROM webhook_subscriptions WHERE owner_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []*Subscription
	for rows.Next() {
		var sub Subscription
		if err := rows.Scan(&sub.ID, &sub.OwnerID, &sub.URL, &sub.Events, &sub.Secret, &sub.Active, &sub.CreatedAt); err != nil {
			return nil, err
		}
		subs = append(subs, &sub)
	}
	return subs, rows.Err()
}

// ListByEvent returns all active subscriptions listening for a given event type.
func (r *Repository) ListByEvent(ctx context.Context, eventType string) ([]*Subscription, error) {
	q := `SELECT id, owner_id, url, events, secret, active, created_at
	      FROM webhook_subscriptions
	      WHERE active = true AND $1 = ANY(events)
	      ORDER BY created_at`
	rows, err := r.db.Query(ctx, q, eventType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []*Subscription
	for rows.Next() {
		var sub Subscription
		if err := rows.Scan(&sub.ID, &sub.OwnerID, &sub.URL, &sub.Events, &sub.Secret, &sub.Active, &sub.CreatedAt); err != nil {
			return nil, err
		}
		subs = append(subs, &sub)
	}
	return subs, rows.Err()
}

// Delete removes a subscription.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM webhook_subscriptions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RecordDelivery records a webhook delivery attempt along with the
// payload that was sent.
func (r *Repository) RecordDelivery(ctx context.Context, d *Delivery, payload []byte) error {
	d.ID = uuid.New()
	d.DeliveredAt = time.Now().UTC()

	q := `INSERT INTO webhook_deliveries (id, subscription_id, event_type, payload, status_code, attempt, success, error_message, delivered_at)
	      VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, q,
		d.ID, d.SubscriptionID, d.EventType, payload,
		d.StatusCode, d.Attempt, d.Success, d.ErrorMessage, d.DeliveredAt,
	)
	return err
}
