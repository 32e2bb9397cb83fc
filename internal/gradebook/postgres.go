package gradebook

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps the gradebook in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore uses pool, which must already be migrated (see Migrate).
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const lineItemColumns = `id, consumer_key, context_id, resource_link_id, activity_id, label, reporting_method,
	normal_maximum, extra_credit_maximum, total_maximum, created_at, updated_at`

const resultColumns = `id, line_item_id, consumer_key, COALESCE(sourced_id, ''), user_id, score, total_score,
	comment, status, created_at, updated_at`

func scanLineItem(row pgx.Row) (*LineItem, error) {
	var li LineItem
	err := row.Scan(&li.ID, &li.ConsumerKey, &li.ContextID, &li.ResourceLinkID, &li.ActivityID, &li.Label,
		&li.ReportingMethod, &li.NormalMaximum, &li.ExtraCreditMaximum, &li.TotalMaximum, &li.CreatedAt, &li.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &li, nil
}

func scanResult(row pgx.Row) (*Result, error) {
	var r Result
	err := row.Scan(&r.ID, &r.LineItemID, &r.ConsumerKey, &r.SourcedID, &r.UserID, &r.Score, &r.TotalScore,
		&r.Comment, &r.Status, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// mapError translates driver errors into the package errors.
func mapError(err error, action string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return ErrConflict
		case "23503": // foreign_key_violation
			return ErrNotFound
		}
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (s *PostgresStore) CreateLineItem(ctx context.Context, item *LineItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO line_items (id, consumer_key, context_id, resource_link_id, activity_id, label,
			reporting_method, normal_maximum, extra_credit_maximum, total_maximum)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`,
		item.ID, item.ConsumerKey, item.ContextID, item.ResourceLinkID, item.ActivityID, item.Label,
		item.ReportingMethod, item.NormalMaximum, item.ExtraCreditMaximum, item.TotalMaximum)
	if err := row.Scan(&item.CreatedAt, &item.UpdatedAt); err != nil {
		return mapError(err, "create line item")
	}
	return nil
}

func (s *PostgresStore) GetLineItem(ctx context.Context, consumerKey, id string) (*LineItem, error) {
	li, err := scanLineItem(s.pool.QueryRow(ctx,
		`SELECT `+lineItemColumns+` FROM line_items WHERE consumer_key = $1 AND id = $2`, consumerKey, id))
	if err != nil {
		return nil, mapError(err, "get line item")
	}
	return li, nil
}

func (s *PostgresStore) UpdateLineItem(ctx context.Context, item *LineItem) error {
	row := s.pool.QueryRow(ctx, `
		UPDATE line_items
		SET context_id = $3, resource_link_id = $4, activity_id = $5, label = $6, reporting_method = $7,
			normal_maximum = $8, extra_credit_maximum = $9, total_maximum = $10, updated_at = NOW()
		WHERE consumer_key = $1 AND id = $2
		RETURNING created_at, updated_at`,
		item.ConsumerKey, item.ID, item.ContextID, item.ResourceLinkID, item.ActivityID, item.Label,
		item.ReportingMethod, item.NormalMaximum, item.ExtraCreditMaximum, item.TotalMaximum)
	if err := row.Scan(&item.CreatedAt, &item.UpdatedAt); err != nil {
		return mapError(err, "update line item")
	}
	return nil
}

func (s *PostgresStore) DeleteLineItem(ctx context.Context, consumerKey, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM line_items WHERE consumer_key = $1 AND id = $2`, consumerKey, id)
	if err != nil {
		return mapError(err, "delete line item")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListLineItems(ctx context.Context, consumerKey string, filter LineItemFilter, opts ListOptions) ([]LineItem, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+lineItemColumns+`
		FROM line_items
		WHERE consumer_key = $1
			AND ($2 = '' OR context_id = $2)
			AND ($3 = '' OR resource_link_id = $3)
			AND ($4 = '' OR activity_id = $4)
		ORDER BY seq
		OFFSET $5 LIMIT $6`,
		consumerKey, filter.ContextID, filter.ResourceLinkID, filter.ActivityID, max(opts.Offset, 0), limitOrAll(opts.Limit))
	if err != nil {
		return nil, mapError(err, "list line items")
	}
	defer rows.Close()

	var items []LineItem
	for rows.Next() {
		li, err := scanLineItem(rows)
		if err != nil {
			return nil, mapError(err, "scan line item")
		}
		items = append(items, *li)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "list line items")
	}
	return items, nil
}

func (s *PostgresStore) CreateResult(ctx context.Context, result *Result) error {
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO results (id, line_item_id, consumer_key, sourced_id, user_id, score, total_score, comment, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`,
		result.ID, result.LineItemID, result.ConsumerKey, nullIfEmpty(result.SourcedID), result.UserID,
		result.Score, result.TotalScore, result.Comment, result.Status)
	if err := row.Scan(&result.CreatedAt, &result.UpdatedAt); err != nil {
		return mapError(err, "create result")
	}
	return nil
}

func (s *PostgresStore) GetResult(ctx context.Context, consumerKey, lineItemID, id string) (*Result, error) {
	r, err := scanResult(s.pool.QueryRow(ctx,
		`SELECT `+resultColumns+` FROM results WHERE consumer_key = $1 AND line_item_id = $2 AND id = $3`,
		consumerKey, lineItemID, id))
	if err != nil {
		return nil, mapError(err, "get result")
	}
	return r, nil
}

func (s *PostgresStore) UpdateResult(ctx context.Context, result *Result) error {
	row := s.pool.QueryRow(ctx, `
		UPDATE results
		SET sourced_id = $4, user_id = $5, score = $6, total_score = $7, comment = $8, status = $9, updated_at = NOW()
		WHERE consumer_key = $1 AND line_item_id = $2 AND id = $3
		RETURNING created_at, updated_at`,
		result.ConsumerKey, result.LineItemID, result.ID, nullIfEmpty(result.SourcedID), result.UserID,
		result.Score, result.TotalScore, result.Comment, result.Status)
	if err := row.Scan(&result.CreatedAt, &result.UpdatedAt); err != nil {
		return mapError(err, "update result")
	}
	return nil
}

func (s *PostgresStore) DeleteResult(ctx context.Context, consumerKey, lineItemID, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM results WHERE consumer_key = $1 AND line_item_id = $2 AND id = $3`,
		consumerKey, lineItemID, id)
	if err != nil {
		return mapError(err, "delete result")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListResults(ctx context.Context, consumerKey, lineItemID string, opts ListOptions) ([]Result, error) {
	if _, err := s.GetLineItem(ctx, consumerKey, lineItemID); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT `+resultColumns+`
		FROM results
		WHERE consumer_key = $1 AND line_item_id = $2
		ORDER BY seq
		OFFSET $3 LIMIT $4`,
		consumerKey, lineItemID, max(opts.Offset, 0), limitOrAll(opts.Limit))
	if err != nil {
		return nil, mapError(err, "list results")
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, mapError(err, "scan result")
		}
		results = append(results, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "list results")
	}
	return results, nil
}

func (s *PostgresStore) ReplaceScore(ctx context.Context, consumerKey, sourcedID string, score *float64) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE results SET score = $3, updated_at = NOW() WHERE consumer_key = $1 AND sourced_id = $2`,
		consumerKey, sourcedID, score)
	if err != nil {
		return mapError(err, "replace score")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ReadScore(ctx context.Context, consumerKey, sourcedID string) (*float64, error) {
	var score *float64
	err := s.pool.QueryRow(ctx,
		`SELECT score FROM results WHERE consumer_key = $1 AND sourced_id = $2`, consumerKey, sourcedID).Scan(&score)
	if err != nil {
		return nil, mapError(err, "read score")
	}
	return score, nil
}

func (s *PostgresStore) DeleteScore(ctx context.Context, consumerKey, sourcedID string) error {
	return s.ReplaceScore(ctx, consumerKey, sourcedID, nil)
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

// limitOrAll maps a non-positive limit to NULL, which LIMIT treats as no limit.
func limitOrAll(limit int) *int {
	if limit <= 0 {
		return nil
	}
	return &limit
}
