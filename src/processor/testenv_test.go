package processor

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"orderengine/src/database"
	"orderengine/src/model"
	"orderengine/src/notifier"
	"orderengine/src/settlement"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

type fakePrice struct {
	price float64
	err   error
	calls int
}

func (f *fakePrice) GetPrice(ctx context.Context, tickers []string) (float64, error) {
	f.calls++
	return f.price, f.err
}

type fakeEmitter struct {
	mu       sync.Mutex
	messages []notifier.Message
}

func (f *fakeEmitter) Publish(ctx context.Context, msg notifier.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakeEmitter) last(t *testing.T) notifier.Message {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.messages) == 0 {
		t.Fatalf("expected a published message")
	}
	return f.messages[len(f.messages)-1]
}

func (f *fakeEmitter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages)
}

type fakeQueue struct {
	workIDs []string
	bodies  [][]byte
	err     error
}

func (f *fakeQueue) Enqueue(workID string, body []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.workIDs = append(f.workIDs, workID)
	f.bodies = append(f.bodies, body)
	return workID, nil
}

// testDeps builds a deps bundle with a frozen clock.
func testDeps(t *testing.T, db *gorm.DB, price *fakePrice, emitter *fakeEmitter, queue *fakeQueue) Deps {
	t.Helper()

	registry, err := settlement.DefaultRegistry()
	if err != nil {
		t.Fatalf("registry failed: %v", err)
	}
	return Deps{
		DB:       db,
		Price:    price,
		Emitter:  emitter,
		Queue:    queue,
		Registry: registry,
		Now:      func() time.Time { return time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC) },
	}
}

// seedMarket creates the instrument and its venue in the given open state.
func seedMarket(t *testing.T, db *gorm.DB, open bool) {
	t.Helper()

	must := func(err error) {
		if err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}
	must(db.Create(&model.Instrument{Ticker: "AAPL", CurrencyCode: "USD", MIC: "XNAS", IsActive: true}).Error)
	must(db.Create(&model.ExchangeMarket{MIC: "XNAS", Name: "NASDAQ", IsOpen: open}).Error)
}

// seedAccount creates a funded account.
func seedAccount(t *testing.T, db *gorm.DB, balance float64) {
	t.Helper()

	must := func(err error) {
		if err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}
	must(db.Create(&model.Account{ID: 1, Username: "trader"}).Error)
	must(db.Create(&model.AccountBalance{AccountID: 1, Amount: balance, CurrencyCode: "USD"}).Error)
}

// seedOrder creates an order in the given lifecycle status.
func seedOrder(t *testing.T, db *gorm.DB, status string) *model.Order {
	t.Helper()

	order := &model.Order{
		OrderUID:     "ord-1",
		AccountID:    1,
		Ticker:       "AAPL",
		BotID:        "bot-1",
		Side:         model.OrderSideBuy,
		Status:       status,
		Amount:       1000,
		Price:        100,
		Margin:       1,
		ExchangeRate: 1,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	return order
}
