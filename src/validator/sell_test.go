package validator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"orderengine/src/apperr"
	"orderengine/src/model"
	"orderengine/src/payload"
)

func sellPayload() *payload.SellPayload {
	return &payload.SellPayload{
		Setup:     map[string]interface{}{"position": "pos-1"},
		Side:      model.OrderSideSell,
		AccountID: 1,
	}
}

func seedLivePosition(t *testing.T, db *gorm.DB) {
	t.Helper()
	err := db.Create(&model.OrderPosition{
		PositionUID: "pos-1", AccountID: 1, Ticker: "AAPL", BotID: "bot-1",
		IsLive: true, Margin: 2.5,
	}).Error
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
}

func TestSellValidatorPassesAndCopiesPosition(t *testing.T) {
	db := newTestDB(t)
	seedLivePosition(t, db)

	p := sellPayload()
	v := NewSellValidator(db, p)
	if err := v.Validate(context.Background()); err != nil {
		t.Fatalf("expected validation to pass, got %v", err)
	}

	// The resolved position feeds the settlement step; margin and ticker
	// travel with the payload.
	if v.Position() == nil {
		t.Fatalf("expected resolved position")
	}
	assert.Equal(t, 2.5, p.Margin)
	assert.Equal(t, "AAPL", p.Ticker)
}

func TestSellValidatorPositionNotFound(t *testing.T) {
	db := newTestDB(t)

	err := NewSellValidator(db, sellPayload()).Validate(context.Background())
	if err == nil {
		t.Fatalf("expected rejection")
	}
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, "position not found", err.Error())
}

func TestSellValidatorWrongOwner(t *testing.T) {
	db := newTestDB(t)
	seedLivePosition(t, db)

	p := sellPayload()
	p.AccountID = 2
	err := NewSellValidator(db, p).Validate(context.Background())
	if err == nil {
		t.Fatalf("expected rejection")
	}
	assert.Contains(t, err.Error(), "credentials error")
}

func TestSellValidatorPendingOrderExists(t *testing.T) {
	db := newTestDB(t)
	seedLivePosition(t, db)
	db.Create(&model.Order{
		OrderUID: "pending-1", AccountID: 1, Ticker: "AAPL", BotID: "bot-1",
		Side: model.OrderSideSell, Status: model.OrderStatusPending, Amount: 100,
	})

	err := NewSellValidator(db, sellPayload()).Validate(context.Background())
	if err == nil {
		t.Fatalf("expected rejection")
	}
	assert.Contains(t, err.Error(), "pending-1")
}

func TestSellValidatorClosedPosition(t *testing.T) {
	db := newTestDB(t)
	seedLivePosition(t, db)
	db.Model(&model.OrderPosition{}).Where("position_uid = ?", "pos-1").Update("is_live", false)

	err := NewSellValidator(db, sellPayload()).Validate(context.Background())
	if err == nil {
		t.Fatalf("expected rejection")
	}
	assert.Equal(t, "position has been closed", err.Error())
	assert.Equal(t, apperr.KindNotAcceptable, apperr.KindOf(err))
}
