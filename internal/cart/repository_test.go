package cart

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestSave_StaleVersionConflicts(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, 7)
	if err != nil {
		t.Fatal(err)
	}

	// two writers read the same snapshot
	first := created
	second := created

	first.Lines = []Line{{ProductID: 1, Quantity: 1}}
	if _, err := repo.Save(ctx, first); err != nil {
		t.Fatalf("first save should succeed: %v", err)
	}

	second.Lines = []Line{{ProductID: 2, Quantity: 3}}
	if _, err := repo.Save(ctx, second); !errors.Is(err, ErrConflict) {
		t.Fatalf("second save with the stale stamp must conflict, got %v", err)
	}

	// the first writer's change survives untouched
	stored, err := repo.FindByCustomer(ctx, 7)
	if err != nil {
		t.Fatal(err)
	}
	if len(stored.Lines) != 1 || stored.Lines[0].ProductID != 1 {
		t.Fatalf("unexpected cart contents after conflict: %+v", stored.Lines)
	}
}

func TestSave_ConcurrentWritersExactlyOneWins(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, 7)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := cloneCart(created)
			c.Lines = []Line{{ProductID: i + 1, Quantity: 1}}
			_, results[i] = repo.Save(ctx, c)
		}(i)
	}
	wg.Wait()

	successes, conflicts := 0, 0
	for _, err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 || conflicts != 1 {
		t.Fatalf("expected exactly one success and one conflict, got %d/%d", successes, conflicts)
	}
}

func TestSave_MissingCart(t *testing.T) {
	repo := NewInMemoryRepository()
	_, err := repo.Save(context.Background(), Cart{CustomerID: 404, Version: 1})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
