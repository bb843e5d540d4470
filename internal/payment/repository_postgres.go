package payment

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

type PostgresRepository struct {
	db *sql.DB
}

const paymentColumns = `payment_id, order_id, customer_id, status, method, payment_date`

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, p Payment) (Payment, error) {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO payments (order_id, customer_id, status, method, payment_date)
         VALUES ($1, $2, $3, $4, now())
         RETURNING `+paymentColumns,
		p.OrderID, p.CustomerID, p.Status, p.Method).
		Scan(&p.ID, &p.OrderID, &p.CustomerID, &p.Status, &p.Method, &p.PaymentDate)
	if err != nil {
		// the unique index on order_id backs the 1:1 invariant
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Payment{}, ErrDuplicate
		}
		return Payment{}, err
	}
	return p, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (Payment, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE payment_id = $1`, id))
}

func (r *PostgresRepository) FindByOrder(ctx context.Context, orderID int) (Payment, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE order_id = $1`, orderID))
}

func (r *PostgresRepository) scanOne(row *sql.Row) (Payment, error) {
	var p Payment
	err := row.Scan(&p.ID, &p.OrderID, &p.CustomerID, &p.Status, &p.Method, &p.PaymentDate)
	if err == sql.ErrNoRows {
		return Payment{}, ErrNotFound
	}
	if err != nil {
		return Payment{}, err
	}
	return p, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int, status Status) error {
	res, err := r.db.ExecContext(ctx, `UPDATE payments SET status = $1 WHERE payment_id = $2`, status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
