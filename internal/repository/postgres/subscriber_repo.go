// Package postgres implements the Subscriber Store and Query Log
// repositories against database/sql, following the same const-query +
// $N-placeholder + fmt.Errorf-wrap pattern as the teacher's source_repo.go.
package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"research-orchestrator/internal/domain/subscriber"
	"research-orchestrator/internal/repository"
)

// SubscriberRepo is the Postgres-backed SubscriberRepository.
type SubscriberRepo struct {
	db sqlExecutor
}

// NewSubscriberRepo constructs a SubscriberRepo. db is typically a *sql.DB or
// a *circuitbreaker.DBCircuitBreaker wrapping one.
func NewSubscriberRepo(db sqlExecutor) repository.SubscriberRepository {
	return &SubscriberRepo{db: db}
}

func (r *SubscriberRepo) Subscribe(ctx context.Context, phoneNumber string, preferences []string) error {
	const query = `
		INSERT INTO wa_subscribers (phone_number, subscribed_at, active, preferences)
		VALUES ($1, $2, true, $3)
		ON CONFLICT (phone_number) DO UPDATE
		SET active = true, preferences = EXCLUDED.preferences`

	_, err := r.db.ExecContext(ctx, query, phoneNumber, time.Now().UTC(), strings.Join(preferences, ","))
	if err != nil {
		return fmt.Errorf("Subscribe: %w", err)
	}
	return nil
}

func (r *SubscriberRepo) Unsubscribe(ctx context.Context, phoneNumber string) error {
	const query = `UPDATE wa_subscribers SET active = false WHERE phone_number = $1`

	result, err := r.db.ExecContext(ctx, query, phoneNumber)
	if err != nil {
		return fmt.Errorf("Unsubscribe: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("Unsubscribe: no subscriber with phone_number %q", phoneNumber)
	}
	return nil
}

func (r *SubscriberRepo) ListActive(ctx context.Context) ([]subscriber.Subscriber, error) {
	const query = `
		SELECT phone_number, subscribed_at, active, preferences
		FROM wa_subscribers
		WHERE active = true
		ORDER BY subscribed_at ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ListActive: %w", err)
	}
	defer rows.Close()

	var subs []subscriber.Subscriber
	for rows.Next() {
		var s subscriber.Subscriber
		var prefs string
		if err := rows.Scan(&s.PhoneNumber, &s.SubscribedAt, &s.Active, &prefs); err != nil {
			return nil, fmt.Errorf("ListActive: scan: %w", err)
		}
		if prefs != "" {
			s.Preferences = strings.Split(prefs, ",")
		}
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListActive: %w", err)
	}
	return subs, nil
}
