package repository

import (
	"context"
	"errors"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"orderengine/src/model"
)

// InstrumentRepository reads instruments, currencies and market state.
type InstrumentRepository struct {
	db *gorm.DB
}

func NewInstrumentRepository(db *gorm.DB) *InstrumentRepository {
	return &InstrumentRepository{db: db}
}

func (r *InstrumentRepository) WithDB(db *gorm.DB) *InstrumentRepository {
	return &InstrumentRepository{db: db}
}

// FindByTicker fetches an instrument by symbol.
// Returns (nil, nil) if the instrument is not found.
func (r *InstrumentRepository) FindByTicker(ctx context.Context, ticker string) (*model.Instrument, error) {
	var instrument model.Instrument
	err := r.db.WithContext(ctx).
		Where("ticker = ?", ticker).
		First(&instrument).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.WithFields(map[string]interface{}{
			"repo":   "InstrumentRepository",
			"op":     "FindByTicker",
			"ticker": ticker,
		}).WithError(err).Error("Failed to fetch instrument")
		return nil, err
	}
	return &instrument, nil
}

// MarketByMIC fetches the venue state for a market identifier code.
// Returns (nil, nil) if the venue is unknown.
func (r *InstrumentRepository) MarketByMIC(ctx context.Context, mic string) (*model.ExchangeMarket, error) {
	var market model.ExchangeMarket
	err := r.db.WithContext(ctx).
		Where("mic = ?", mic).
		First(&market).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &market, nil
}

// CurrencyByCode fetches one currency row.
// Returns (nil, nil) if the currency is not found.
func (r *InstrumentRepository) CurrencyByCode(ctx context.Context, code string) (*model.Currency, error) {
	var currency model.Currency
	err := r.db.WithContext(ctx).
		Where("currency_code = ?", code).
		First(&currency).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &currency, nil
}
