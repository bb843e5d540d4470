package order

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

const orderColumns = `order_id, customer_id, status, total_quantity, total_amount, shipping_method, payment_method, created_at`

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create writes the order and its lines in one transaction so a canceled
// request never leaves a partial order behind.
func (r *PostgresRepository) Create(ctx context.Context, o Order) (Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Order{}, err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO orders (customer_id, status, total_quantity, total_amount, shipping_method, payment_method, created_at)
         VALUES ($1, $2, $3, $4, $5, $6, now())
         RETURNING `+orderColumns,
		o.CustomerID, o.Status, o.TotalQuantity, o.TotalAmount, o.ShippingMethod, o.PaymentMethod).
		Scan(&o.ID, &o.CustomerID, &o.Status, &o.TotalQuantity, &o.TotalAmount, &o.ShippingMethod, &o.PaymentMethod, &o.CreatedAt)
	if err != nil {
		return Order{}, err
	}

	for _, l := range o.Lines {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO order_lines (order_id, product_id, quantity) VALUES ($1, $2, $3)`,
			o.ID, l.ProductID, l.Quantity); err != nil {
			return Order{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Order{}, err
	}
	return o, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (Order, error) {
	var o Order
	err := r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE order_id = $1`, id).
		Scan(&o.ID, &o.CustomerID, &o.Status, &o.TotalQuantity, &o.TotalAmount, &o.ShippingMethod, &o.PaymentMethod, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}

	lines, err := r.loadLines(ctx, []int{o.ID})
	if err != nil {
		return Order{}, err
	}
	o.Lines = lines[o.ID]
	if o.Lines == nil {
		o.Lines = []Line{}
	}
	return o, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY order_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]Order, 0)
	ids := make([]int, 0)
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.Status, &o.TotalQuantity, &o.TotalAmount, &o.ShippingMethod, &o.PaymentMethod, &o.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	lines, err := r.loadLines(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Lines = lines[orders[i].ID]
		if orders[i].Lines == nil {
			orders[i].Lines = []Line{}
		}
	}
	return orders, nil
}

func (r *PostgresRepository) loadLines(ctx context.Context, orderIDs []int) (map[int][]Line, error) {
	out := make(map[int][]Line, len(orderIDs))
	if len(orderIDs) == 0 {
		return out, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT order_id, product_id, quantity FROM order_lines WHERE order_id = ANY($1::int[])`,
		pq.Array(orderIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var orderID int
		var l Line
		if err := rows.Scan(&orderID, &l.ProductID, &l.Quantity); err != nil {
			return nil, err
		}
		out[orderID] = append(out[orderID], l)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int, status Status) error {
	res, err := r.db.ExecContext(ctx, `UPDATE orders SET status = $1 WHERE order_id = $2`, status, id)
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

func (r *PostgresRepository) Delete(ctx context.Context, id int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM order_lines WHERE order_id = $1`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE order_id = $1`, id)
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
	return tx.Commit()
}
