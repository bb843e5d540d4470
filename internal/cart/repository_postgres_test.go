package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPostgresSave_VersionMismatchConflicts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	// guarded update touches zero rows, but the cart row exists
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE carts SET").
		WithArgs(150.0, 3, int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	c := Cart{ID: 3, CustomerID: 7, Total: 150, Version: 2, Lines: []Line{{ProductID: 1, Quantity: 1}}}
	if _, err := repo.Save(context.Background(), c); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresSave_WritesLinesAndBumpsVersion(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE carts SET").
		WithArgs(250.0, 3, int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM cart_lines").
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO cart_lines").
		WithArgs(3, 1, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO cart_lines").
		WithArgs(3, 2, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	c := Cart{ID: 3, CustomerID: 7, Total: 250, Version: 2, Lines: []Line{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 1},
	}}
	saved, err := repo.Save(context.Background(), c)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if saved.Version != 3 {
		t.Fatalf("expected version bumped to 3, got %d", saved.Version)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresFindByCustomer_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("SELECT cart_id, customer_id").
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"cart_id"}))

	if _, err := repo.FindByCustomer(context.Background(), 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
