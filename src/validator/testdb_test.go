package validator

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"orderengine/src/database"
	"orderengine/src/model"
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

// seedBuyWorld creates the strategy, instrument and funded account every
// buy check expects.
func seedBuyWorld(t *testing.T, db *gorm.DB) {
	t.Helper()

	must := func(err error) {
		if err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}
	must(db.Create(&model.Strategy{BotID: "bot-1", Kind: model.StrategyKindClassic, Active: true}).Error)
	must(db.Create(&model.Instrument{Ticker: "AAPL", CurrencyCode: "USD", MIC: "XNAS", IsActive: true}).Error)
	must(db.Create(&model.Account{ID: 1, Username: "trader"}).Error)
	must(db.Create(&model.AccountBalance{AccountID: 1, Amount: 10000, CurrencyCode: "USD"}).Error)
}
