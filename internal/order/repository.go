package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sort"

	"quickpay-be/internal/logger"
	"quickpay-be/internal/provider"

	"go.uber.org/zap"
)

type Repository interface {
	CreateOrder(ctx context.Context, o *Order) (int64, error)

	GetByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)

	// GetByRemoteOrderID resolves an order through its cached gateway order
	// id property. Used for callbacks that carry no orderNumber variable.
	GetByRemoteOrderID(ctx context.Context, remoteOrderID string) (*Order, error)

	// SetProperties upserts the given properties, but only while the cached
	// payment hash still equals expectedHash. Returns ErrStaleSnapshot when
	// a concurrent writer won the race.
	SetProperties(ctx context.Context, orderID int64, expectedHash string, props map[string]string) error

	UpdateTransaction(ctx context.Context, orderID int64, transactionID, status string, amountAuthorized float64) error

	SaveCallbackEvent(
		ctx context.Context,
		eventID string,
		orderNumber string,
		payload json.RawMessage,
		signatureValid bool,
	) (eventRowID int64, isDuplicate bool, err error)

	MarkEventProcessed(ctx context.Context, eventRowID int64) error
	MarkEventFailed(ctx context.Context, eventRowID int64, reason string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateOrder(ctx context.Context, o *Order) (int64, error) {
	const q = `
		INSERT INTO orders (order_number, reference, currency, amount, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, q,
		o.OrderNumber, o.Reference, o.Currency, o.Amount, o.Status,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repository) GetByOrderNumber(ctx context.Context, orderNumber string) (*Order, error) {
	const q = `
		SELECT id, order_number, reference, currency, amount, status,
		       transaction_id, amount_authorized, created_at, updated_at
		FROM orders
		WHERE order_number = $1
	`

	var o Order
	err := r.db.QueryRowContext(ctx, q, orderNumber).Scan(
		&o.ID, &o.OrderNumber, &o.Reference, &o.Currency, &o.Amount, &o.Status,
		&o.TransactionID, &o.AmountAuthorized, &o.CreatedAt, &o.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadProperties(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) GetByRemoteOrderID(ctx context.Context, remoteOrderID string) (*Order, error) {
	const q = `
		SELECT o.id, o.order_number, o.reference, o.currency, o.amount, o.status,
		       o.transaction_id, o.amount_authorized, o.created_at, o.updated_at
		FROM orders o
		JOIN order_properties p ON p.order_id = o.id
		WHERE p.key = $1 AND p.value = $2
	`

	var o Order
	err := r.db.QueryRowContext(ctx, q, provider.PropOrderID, remoteOrderID).Scan(
		&o.ID, &o.OrderNumber, &o.Reference, &o.Currency, &o.Amount, &o.Status,
		&o.TransactionID, &o.AmountAuthorized, &o.CreatedAt, &o.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadProperties(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) loadProperties(ctx context.Context, o *Order) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT key, value FROM order_properties WHERE order_id = $1
	`, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	o.Properties = map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return err
		}
		o.Properties[k] = v
	}
	return rows.Err()
}

func (r *repository) SetProperties(ctx context.Context, orderID int64, expectedHash string, props map[string]string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "SetProperties"),
		zap.Int64("order_id", orderID),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	// Lock the hash row and compare against the snapshot the caller acted
	// on. A mismatch means another writer reconciled the session first.
	var currentHash string
	err = tx.QueryRowContext(ctx, `
		SELECT value FROM order_properties
		WHERE order_id = $1 AND key = $2
		FOR UPDATE
	`, orderID, provider.PropPaymentHash).Scan(&currentHash)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	if currentHash != expectedHash {
		log.Warn("concurrent property write detected")
		return ErrStaleSnapshot
	}

	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_properties (order_id, key, value)
			VALUES ($1, $2, $3)
			ON CONFLICT (order_id, key)
			DO UPDATE SET value = EXCLUDED.value
		`, orderID, k, props[k])
		if err != nil {
			log.Error("failed to upsert property", zap.String("key", k), zap.Error(err))
			return err
		}
	}

	return tx.Commit()
}

func (r *repository) UpdateTransaction(ctx context.Context, orderID int64, transactionID, status string, amountAuthorized float64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET transaction_id = $2, status = $3, amount_authorized = $4, updated_at = now()
		WHERE id = $1
	`, orderID, transactionID, status, amountAuthorized)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *repository) SaveCallbackEvent(
	ctx context.Context,
	eventID string,
	orderNumber string,
	payload json.RawMessage,
	signatureValid bool,
) (int64, bool, error) {

	const q = `
	INSERT INTO callback_events (
		event_id,
		order_number,
		signature_valid,
		payload
	)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (event_id)
	DO NOTHING
	RETURNING id;
	`

	var id int64
	err := r.db.QueryRowContext(ctx, q, eventID, orderNumber, signatureValid, payload).Scan(&id)
	if err != nil {
		// Duplicate delivery → idempotent success
		if errors.Is(err, sql.ErrNoRows) {
			return 0, true, nil
		}
		return 0, false, err
	}

	return id, false, nil
}

func (r *repository) MarkEventProcessed(ctx context.Context, eventRowID int64) error {
	const q = `
	UPDATE callback_events
	SET processed_at = now()
	WHERE id = $1;
	`

	_, err := r.db.ExecContext(ctx, q, eventRowID)
	return err
}

func (r *repository) MarkEventFailed(ctx context.Context, eventRowID int64, reason string) error {
	const q = `
	UPDATE callback_events
	SET process_error = $2
	WHERE id = $1;
	`

	_, err := r.db.ExecContext(ctx, q, eventRowID, reason)
	return err
}
