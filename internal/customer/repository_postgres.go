package customer

import (
	"context"
	"database/sql"
)

type PostgresRepository struct {
	db *sql.DB
}

const customerColumns = `customer_id, email, password, first_name, last_name, phone, created_at, updated_at`

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanCustomer(row *sql.Row) (Customer, error) {
	var c Customer
	err := row.Scan(&c.ID, &c.Email, &c.Password, &c.FirstName, &c.LastName, &c.Phone, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return Customer{}, ErrNotFound
	}
	if err != nil {
		return Customer{}, err
	}
	return c, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (Customer, error) {
	return scanCustomer(r.db.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE customer_id = $1`, id))
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (Customer, error) {
	return scanCustomer(r.db.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE email = $1`, email))
}

func (r *PostgresRepository) Create(ctx context.Context, c Customer) (Customer, error) {
	return scanCustomer(r.db.QueryRowContext(ctx,
		`INSERT INTO customers (email, password, first_name, last_name, phone, created_at, updated_at)
         VALUES ($1, $2, $3, $4, $5, now(), now())
         RETURNING `+customerColumns,
		c.Email, c.Password, c.FirstName, c.LastName, c.Phone))
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id int, hash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE customers SET password = $1, updated_at = now() WHERE customer_id = $2`, hash, id)
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
