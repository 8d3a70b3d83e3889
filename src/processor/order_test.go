package processor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"orderengine/src/model"
	"orderengine/src/payload"
)

func TestBuyOrderProcessorCreatesReviewOrder(t *testing.T) {
	db := newTestDB(t)
	seedAccount(t, db, 10000)
	price := &fakePrice{price: 150}
	deps := testDeps(t, db, price, &fakeEmitter{}, &fakeQueue{})

	p, err := payload.NewBuy(payload.BuyPayload{
		Amount: 1000, BotID: "bot-1", Side: "buy", Ticker: "AAPL", AccountID: 1,
	})
	if err != nil {
		t.Fatalf("payload failed: %v", err)
	}

	pr := NewBuyOrderProcessor(deps, p)
	if err := pr.Execute(context.Background()); err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	order, ok := pr.Response().(*model.Order)
	if !ok || order == nil {
		t.Fatalf("expected order response, got %T", pr.Response())
	}
	assert.NotEmpty(t, order.OrderUID)
	assert.Equal(t, model.OrderStatusReview, order.Status)
	assert.False(t, order.Placed)
	assert.True(t, order.IsInit)
	assert.Equal(t, "apps", order.OrderType)
	assert.Equal(t, 150.0, order.Price)

	var stored model.Order
	if err := db.Where("order_uid = ?", order.OrderUID).First(&stored).Error; err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	assert.Equal(t, model.OrderStatusReview, stored.Status)
}

func TestBuyOrderProcessorQuoteFailure(t *testing.T) {
	db := newTestDB(t)
	deps := testDeps(t, db, &fakePrice{err: assert.AnError}, &fakeEmitter{}, &fakeQueue{})

	p, _ := payload.NewBuy(payload.BuyPayload{
		Amount: 1000, BotID: "bot-1", Side: "buy", Ticker: "AAPL", AccountID: 1,
	})
	err := NewBuyOrderProcessor(deps, p).Execute(context.Background())
	if err == nil {
		t.Fatalf("expected quote failure to abort execution")
	}

	// No order row may exist after a failed execute.
	var count int64
	db.Model(&model.Order{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestSellOrderProcessorSettlesPosition(t *testing.T) {
	db := newTestDB(t)
	seedAccount(t, db, 1000)
	must := func(err error) {
		if err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}
	must(db.Create(&model.Strategy{BotID: "bot-1", Kind: model.StrategyKindClassic, Active: true}).Error)
	must(db.Create(&model.OrderPosition{
		PositionUID: "pos-1", AccountID: 1, Ticker: "AAPL", BotID: "bot-1",
		IsLive: true, EntryPrice: 100, InvestmentAmount: 1000, ShareNum: 10, Margin: 1,
	}).Error)

	deps := testDeps(t, db, &fakePrice{price: 120}, &fakeEmitter{}, &fakeQueue{})
	p, err := payload.NewSell(payload.SellPayload{
		Side: "sell", AccountID: 1,
		Setup: map[string]interface{}{"position": "pos-1"},
	})
	if err != nil {
		t.Fatalf("payload failed: %v", err)
	}

	pr := NewSellOrderProcessor(deps, p)
	if err := pr.Validator().Validate(context.Background()); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if err := pr.Execute(context.Background()); err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	summary, ok := pr.Response().(map[string]interface{})
	if !ok {
		t.Fatalf("expected summary response, got %T", pr.Response())
	}
	assert.Equal(t, "classic_sell", summary["event"])
	assert.Equal(t, 120.0, summary["exit_price"])

	var stored model.OrderPosition
	if err := db.Where("position_uid = ?", "pos-1").First(&stored).Error; err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	assert.False(t, stored.IsLive)
}

func TestSellOrderProcessorRequiresValidation(t *testing.T) {
	db := newTestDB(t)
	deps := testDeps(t, db, &fakePrice{price: 120}, &fakeEmitter{}, &fakeQueue{})

	p, _ := payload.NewSell(payload.SellPayload{
		Side: "sell", AccountID: 1,
		Setup: map[string]interface{}{"position": "pos-1"},
	})
	err := NewSellOrderProcessor(deps, p).Execute(context.Background())
	if err == nil {
		t.Fatalf("expected execute before validation to fail")
	}
}
