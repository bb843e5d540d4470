package main

import "database/sql"

// ensureSchema creates the tables the app needs. Statements are idempotent
// so repeated startups are safe.
func ensureSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS customers (
			customer_id SERIAL PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			product_id SERIAL PRIMARY KEY,
			product_name TEXT NOT NULL,
			product_desc TEXT NOT NULL DEFAULT '',
			product_price NUMERIC NOT NULL DEFAULT 0,
			rating DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS carts (
			cart_id SERIAL PRIMARY KEY,
			customer_id INT NOT NULL UNIQUE,
			total_amount NUMERIC NOT NULL DEFAULT 0,
			version BIGINT NOT NULL DEFAULT 1,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS cart_lines (
			cart_id INT NOT NULL REFERENCES carts(cart_id),
			product_id INT NOT NULL,
			quantity INT NOT NULL CHECK (quantity > 0),
			PRIMARY KEY (cart_id, product_id)
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			order_id SERIAL PRIMARY KEY,
			customer_id INT NOT NULL,
			status TEXT NOT NULL,
			total_quantity INT NOT NULL DEFAULT 0,
			total_amount NUMERIC NOT NULL DEFAULT 0,
			shipping_method TEXT NOT NULL,
			payment_method TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS order_lines (
			order_id INT NOT NULL REFERENCES orders(order_id),
			product_id INT NOT NULL,
			quantity INT NOT NULL CHECK (quantity > 0)
		)`,
		`CREATE TABLE IF NOT EXISTS payments (
			payment_id SERIAL PRIMARY KEY,
			order_id INT NOT NULL UNIQUE,
			customer_id INT NOT NULL,
			status TEXT NOT NULL,
			method TEXT NOT NULL,
			payment_date TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS reviews (
			review_id SERIAL PRIMARY KEY,
			product_id INT NOT NULL,
			customer_id INT NOT NULL,
			rating INT NOT NULL CHECK (rating BETWEEN 1 AND 5),
			body TEXT NOT NULL,
			is_approved BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS auth_tokens (
			jti TEXT PRIMARY KEY,
			customer_id INT NOT NULL,
			token TEXT NOT NULL,
			expires_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_product_approved ON reviews (product_id) WHERE is_approved`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
