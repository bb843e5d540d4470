package cart

import (
	"context"
	"database/sql"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindByCustomer(ctx context.Context, customerID int) (Cart, error) {
	var c Cart
	err := r.db.QueryRowContext(ctx,
		`SELECT cart_id, customer_id, total_amount, version, created_at FROM carts WHERE customer_id = $1`,
		customerID).
		Scan(&c.ID, &c.CustomerID, &c.Total, &c.Version, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return Cart{}, ErrNotFound
	}
	if err != nil {
		return Cart{}, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT product_id, quantity FROM cart_lines WHERE cart_id = $1 ORDER BY product_id`, c.ID)
	if err != nil {
		return Cart{}, err
	}
	defer rows.Close()

	c.Lines = make([]Line, 0)
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ProductID, &l.Quantity); err != nil {
			return Cart{}, err
		}
		c.Lines = append(c.Lines, l)
	}
	return c, rows.Err()
}

func (r *PostgresRepository) Create(ctx context.Context, customerID int) (Cart, error) {
	var c Cart
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO carts (customer_id, total_amount, version, created_at, updated_at)
         VALUES ($1, 0, 1, now(), now())
         ON CONFLICT (customer_id) DO NOTHING
         RETURNING cart_id, customer_id, total_amount, version, created_at`,
		customerID).
		Scan(&c.ID, &c.CustomerID, &c.Total, &c.Version, &c.CreatedAt)
	if err == sql.ErrNoRows {
		// cart already existed; hand back the stored one
		return r.FindByCustomer(ctx, customerID)
	}
	if err != nil {
		return Cart{}, err
	}
	c.Lines = []Line{}
	return c, nil
}

// Save replaces the cart's lines and cached total inside one transaction.
// The version predicate on the UPDATE is the optimistic-concurrency guard:
// zero rows on an existing cart means another writer committed first.
func (r *PostgresRepository) Save(ctx context.Context, c Cart) (Cart, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Cart{}, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE carts SET total_amount = $1, version = version + 1, updated_at = now()
         WHERE cart_id = $2 AND version = $3`,
		c.Total, c.ID, c.Version)
	if err != nil {
		return Cart{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Cart{}, err
	}
	if n == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM carts WHERE cart_id = $1)`, c.ID).Scan(&exists); err != nil {
			return Cart{}, err
		}
		if exists {
			return Cart{}, ErrConflict
		}
		return Cart{}, ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_lines WHERE cart_id = $1`, c.ID); err != nil {
		return Cart{}, err
	}
	for _, l := range c.Lines {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO cart_lines (cart_id, product_id, quantity) VALUES ($1, $2, $3)`,
			c.ID, l.ProductID, l.Quantity); err != nil {
			return Cart{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Cart{}, err
	}

	c.Version++
	return c, nil
}
