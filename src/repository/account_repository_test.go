package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"orderengine/src/model"
)

func TestAccountBalanceOf(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewAccountRepository(db)

	account := &model.Account{Username: "trader"}
	if err := account.SetPassword("secret"); err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	account.Balance = &model.AccountBalance{Amount: 5000, CurrencyCode: "USD"}
	if err := repo.Create(ctx, account); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	balance, err := repo.BalanceOf(ctx, account.ID)
	if err != nil || balance == nil {
		t.Fatalf("expected balance, got %+v err=%v", balance, err)
	}
	assert.Equal(t, 5000.0, balance.Amount)
	assert.Equal(t, "USD", balance.CurrencyCode)

	found, err := repo.FindByID(ctx, account.ID)
	if err != nil || found == nil {
		t.Fatalf("expected account, got %+v err=%v", found, err)
	}
	if found.Balance == nil {
		t.Fatalf("expected balance to be preloaded")
	}
	if !found.CheckPassword("secret") {
		t.Fatalf("expected stored hash to verify")
	}
	if found.CheckPassword("wrong") {
		t.Fatalf("expected wrong password to fail")
	}
}

func TestInsufficientBalance(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewAccountRepository(db)

	account := &model.Account{Username: "trader"}
	account.Balance = &model.AccountBalance{Amount: 1000, CurrencyCode: "USD"}
	if err := repo.Create(ctx, account); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	order := &model.Order{AccountID: account.ID, Amount: 500}
	insufficient, err := repo.InsufficientBalance(ctx, order)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assert.False(t, insufficient)

	order.Amount = 1500
	insufficient, err = repo.InsufficientBalance(ctx, order)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assert.True(t, insufficient)

	// No balance row means nothing to spend.
	order.AccountID = 999
	insufficient, err = repo.InsufficientBalance(ctx, order)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assert.True(t, insufficient)
}
