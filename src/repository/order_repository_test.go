package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"orderengine/src/model"
)

func TestOrderCreateAssignsUID(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)

	order := &model.Order{AccountID: 1, Ticker: "AAPL", BotID: "bot-1", Side: model.OrderSideBuy, Amount: 1000}
	if err := repo.Create(context.Background(), order); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if order.OrderUID == "" {
		t.Fatalf("expected a generated order uid")
	}
	assert.NotContains(t, order.OrderUID, "-")
}

func TestOrderCreateRetriesOnUIDCollision(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	seeded := &model.Order{OrderUID: "taken", AccountID: 1, Ticker: "AAPL", Amount: 1}
	if err := NewOrderRepository(db).Create(ctx, seeded); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	// First draw collides with the seeded row, second succeeds.
	draws := []string{"taken", "fresh"}
	var drawn int
	repo := NewOrderRepository(db).WithUIDSource(func() string {
		uid := draws[drawn%len(draws)]
		drawn++
		return uid
	})

	order := &model.Order{AccountID: 1, Ticker: "AAPL", Amount: 1}
	if err := repo.Create(ctx, order); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	assert.Equal(t, "fresh", order.OrderUID)
	assert.Equal(t, 2, drawn)
}

func TestOrderCreateGivesUpAfterRetries(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	seeded := &model.Order{OrderUID: "taken", AccountID: 1, Ticker: "AAPL", Amount: 1}
	if err := NewOrderRepository(db).Create(ctx, seeded); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	repo := NewOrderRepository(db).WithUIDSource(func() string { return "taken" })
	err := repo.Create(ctx, &model.Order{AccountID: 1, Ticker: "AAPL", Amount: 1})
	if err == nil {
		t.Fatalf("expected the collision loop to give up")
	}
	assert.Contains(t, err.Error(), "collision retries exhausted")
}

func TestOrderFindByUIDNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)

	order, err := repo.FindByUID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order != nil {
		t.Fatalf("expected nil for a missing order, got %+v", order)
	}
}

func TestOrderPendingExists(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewOrderRepository(db)

	pending := &model.Order{
		AccountID: 1, Ticker: "AAPL", BotID: "bot-1",
		Side: model.OrderSideBuy, Status: model.OrderStatusPending, Amount: 100,
	}
	if err := repo.Create(ctx, pending); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	filled := &model.Order{
		AccountID: 1, Ticker: "TSLA", BotID: "bot-1",
		Side: model.OrderSideBuy, Status: model.OrderStatusFilled, Amount: 100,
	}
	if err := repo.Create(ctx, filled); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	found, err := repo.PendingExists(ctx, 1, "AAPL", "bot-1", model.OrderSideBuy)
	if err != nil || found == nil {
		t.Fatalf("expected pending order, got %+v err=%v", found, err)
	}

	// Side narrows the match.
	found, err = repo.PendingExists(ctx, 1, "AAPL", "bot-1", model.OrderSideSell)
	if err != nil || found != nil {
		t.Fatalf("expected no pending sell, got %+v err=%v", found, err)
	}

	// Empty side matches any pending order of the tuple.
	found, err = repo.PendingExists(ctx, 1, "AAPL", "bot-1", "")
	if err != nil || found == nil {
		t.Fatalf("expected pending order for any side, got %+v err=%v", found, err)
	}

	// Terminal statuses never count as pending.
	found, err = repo.PendingExists(ctx, 1, "TSLA", "bot-1", "")
	if err != nil || found != nil {
		t.Fatalf("expected no pending order for filled ticker, got %+v err=%v", found, err)
	}
}

func TestOrderFindLatest(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewOrderRepository(db)

	for i := 0; i < 3; i++ {
		order := &model.Order{
			OrderUID:  fmt.Sprintf("ord-%d", i),
			AccountID: 1, Ticker: "AAPL", Amount: float64(i + 1),
		}
		if err := repo.Create(ctx, order); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	orders, err := repo.FindLatest(ctx, 1, 2)
	if err != nil {
		t.Fatalf("find latest failed: %v", err)
	}
	assert.Len(t, orders, 2)
}
