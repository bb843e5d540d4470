package review

import (
	"context"
	"database/sql"
)

type PostgresRepository struct {
	db *sql.DB
}

const reviewColumns = `review_id, product_id, customer_id, rating, body, is_approved, created_at`

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, rev Review) (Review, error) {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO reviews (product_id, customer_id, rating, body, is_approved, created_at)
         VALUES ($1, $2, $3, $4, FALSE, now())
         RETURNING `+reviewColumns,
		rev.ProductID, rev.CustomerID, rev.Rating, rev.Body).
		Scan(&rev.ID, &rev.ProductID, &rev.CustomerID, &rev.Rating, &rev.Body, &rev.Approved, &rev.CreatedAt)
	if err != nil {
		return Review{}, err
	}
	return rev, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (Review, error) {
	var rev Review
	err := r.db.QueryRowContext(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE review_id = $1`, id).
		Scan(&rev.ID, &rev.ProductID, &rev.CustomerID, &rev.Rating, &rev.Body, &rev.Approved, &rev.CreatedAt)
	if err == sql.ErrNoRows {
		return Review{}, ErrNotFound
	}
	if err != nil {
		return Review{}, err
	}
	return rev, nil
}

func (r *PostgresRepository) ListApprovedByProduct(ctx context.Context, productID int) ([]Review, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE product_id = $1 AND is_approved ORDER BY review_id`,
		productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Review, 0)
	for rows.Next() {
		var rev Review
		if err := rows.Scan(&rev.ID, &rev.ProductID, &rev.CustomerID, &rev.Rating, &rev.Body, &rev.Approved, &rev.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rev)
	}
	return out, rows.Err()
}

// Approve flips the flag and recomputes the product rating in one
// transaction. The product row is locked first so two concurrent approvals
// for the same product recompute in sequence instead of from stale sets.
func (r *PostgresRepository) Approve(ctx context.Context, id int) (Review, float64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Review{}, 0, err
	}
	defer tx.Rollback()

	var rev Review
	err = tx.QueryRowContext(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE review_id = $1`, id).
		Scan(&rev.ID, &rev.ProductID, &rev.CustomerID, &rev.Rating, &rev.Body, &rev.Approved, &rev.CreatedAt)
	if err == sql.ErrNoRows {
		return Review{}, 0, ErrNotFound
	}
	if err != nil {
		return Review{}, 0, err
	}
	if rev.Approved {
		return Review{}, 0, ErrAlreadyApproved
	}

	if _, err := tx.ExecContext(ctx,
		`SELECT product_id FROM products WHERE product_id = $1 FOR UPDATE`, rev.ProductID); err != nil {
		return Review{}, 0, err
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE reviews SET is_approved = TRUE WHERE review_id = $1 AND NOT is_approved`, id)
	if err != nil {
		return Review{}, 0, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return Review{}, 0, err
	} else if n == 0 {
		return Review{}, 0, ErrAlreadyApproved
	}
	rev.Approved = true

	rating, err := r.writeRating(ctx, tx, rev.ProductID)
	if err != nil {
		return Review{}, 0, err
	}

	if err := tx.Commit(); err != nil {
		return Review{}, 0, err
	}
	return rev, rating, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int) (Review, float64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Review{}, 0, err
	}
	defer tx.Rollback()

	var rev Review
	err = tx.QueryRowContext(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE review_id = $1`, id).
		Scan(&rev.ID, &rev.ProductID, &rev.CustomerID, &rev.Rating, &rev.Body, &rev.Approved, &rev.CreatedAt)
	if err == sql.ErrNoRows {
		return Review{}, 0, ErrNotFound
	}
	if err != nil {
		return Review{}, 0, err
	}

	if rev.Approved {
		if _, err := tx.ExecContext(ctx,
			`SELECT product_id FROM products WHERE product_id = $1 FOR UPDATE`, rev.ProductID); err != nil {
			return Review{}, 0, err
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM reviews WHERE review_id = $1`, id); err != nil {
		return Review{}, 0, err
	}

	var rating float64
	if rev.Approved {
		rating, err = r.writeRating(ctx, tx, rev.ProductID)
		if err != nil {
			return Review{}, 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Review{}, 0, err
	}
	return rev, rating, nil
}

func (r *PostgresRepository) writeRating(ctx context.Context, tx *sql.Tx, productID int) (float64, error) {
	var avg sql.NullFloat64
	if err := tx.QueryRowContext(ctx,
		`SELECT AVG(rating) FROM reviews WHERE product_id = $1 AND is_approved`, productID).Scan(&avg); err != nil {
		return 0, err
	}
	rating := avg.Float64 // 0 when no approved reviews remain

	if _, err := tx.ExecContext(ctx,
		`UPDATE products SET rating = $1, updated_at = now() WHERE product_id = $2`, rating, productID); err != nil {
		return 0, err
	}
	return rating, nil
}
