package product

import (
	"context"
	"database/sql"
)

type PostgresRepository struct {
	db *sql.DB
}

const productColumns = `product_id, product_name, product_desc, product_price, rating, created_at, updated_at`

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]Product, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+productColumns+` FROM products ORDER BY product_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Product, 0)
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Rating, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (Product, error) {
	var p Product
	err := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE product_id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Rating, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, p Product) (Product, error) {
	err := r.db.QueryRowContext(ctx, `INSERT INTO products (product_name, product_desc, product_price, rating, created_at, updated_at)
        VALUES ($1, $2, $3, $4, now(), now())
        RETURNING `+productColumns,
		p.Name, p.Description, p.Price, p.Rating).
		Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Rating, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Product{}, err
	}
	return p, nil
}
