package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	logger "github.com/sirupsen/logrus"

	"orderengine/src/apperr"
	"orderengine/src/controller"
	"orderengine/src/fx"
	"orderengine/src/model"
	"orderengine/src/payload"
	"orderengine/src/processor"
	"orderengine/src/repository"
)

type orderRequest struct {
	Side      string                 `json:"side"`
	Amount    float64                `json:"amount"`
	BotID     string                 `json:"bot_id"`
	Ticker    string                 `json:"ticker"`
	AccountID uint                   `json:"account_id"`
	Margin    float64                `json:"margin"`
	Setup     map[string]interface{} `json:"setup,omitempty"`
}

// PlaceOrderHandler accepts the initial buy/sell submission and runs it
// through the synchronous order controller.
func PlaceOrderHandler(deps processor.Deps) http.HandlerFunc {
	orderController := controller.NewOrderController()

	return func(w http.ResponseWriter, r *http.Request) {
		var req orderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeDetail(w, http.StatusBadRequest, "invalid request body")
			return
		}

		var protocol controller.OrderProtocol
		switch req.Side {
		case model.OrderSideBuy:
			rate, err := accountRate(r, deps, req.AccountID, req.Ticker)
			if err != nil {
				writeError(w, err)
				return
			}
			p, err := payload.NewBuy(payload.BuyPayload{
				Amount:       req.Amount,
				BotID:        req.BotID,
				Side:         req.Side,
				Ticker:       req.Ticker,
				AccountID:    req.AccountID,
				Margin:       req.Margin,
				ExchangeRate: rate,
				Setup:        req.Setup,
			})
			if err != nil {
				writeError(w, err)
				return
			}
			protocol = processor.NewBuyOrderProcessor(deps, p)
		case model.OrderSideSell:
			p, err := payload.NewSell(payload.SellPayload{
				Setup:     req.Setup,
				Side:      req.Side,
				Ticker:    req.Ticker,
				AccountID: req.AccountID,
				Margin:    req.Margin,
			})
			if err != nil {
				writeError(w, err)
				return
			}
			protocol = processor.NewSellOrderProcessor(deps, p)
		default:
			writeDetail(w, http.StatusNotAcceptable, "side must be buy or sell")
			return
		}

		response, err := orderController.Process(r.Context(), protocol)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, response)
	}
}

type actionRequest struct {
	Status        string `json:"status"`
	DeliveryToken string `json:"delivery_token,omitempty"`
}

// OrderActionHandler accepts a placed/cancel request for an existing order
// and dispatches it to the background executor. The response acknowledges
// acceptance; the final result arrives through the notification stream.
func OrderActionHandler(deps processor.Deps) http.HandlerFunc {
	orderController := controller.NewOrderController()

	return func(w http.ResponseWriter, r *http.Request) {
		orderUID := chi.URLParam(r, "orderUID")

		var req actionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeDetail(w, http.StatusBadRequest, "invalid request body")
			return
		}

		p, err := payload.NewAction(payload.ActionPayload{
			OrderUID:      orderUID,
			Status:        req.Status,
			DeliveryToken: req.DeliveryToken,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		protocol, err := processor.NewActionProcessor(r.Context(), deps, p)
		if err != nil {
			writeError(w, err)
			return
		}

		response, err := orderController.Process(r.Context(), protocol)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusAccepted, response)
	}
}

// GetOrderHandler answers the current lifecycle record of one order.
func GetOrderHandler(deps processor.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders := repository.NewOrderRepository(deps.DB)
		order, err := orders.FindByUID(r.Context(), chi.URLParam(r, "orderUID"))
		if err != nil {
			writeDetail(w, http.StatusInternalServerError, "failed to fetch order")
			return
		}
		if order == nil {
			writeDetail(w, http.StatusNotFound, "order not found")
			return
		}
		writeJSON(w, http.StatusOK, order)
	}
}

// accountRate resolves the FX rate from the account's funding currency
// into the instrument currency.
func accountRate(r *http.Request, deps processor.Deps, accountID uint, ticker string) (float64, error) {
	ctx := r.Context()
	accounts := repository.NewAccountRepository(deps.DB)
	instruments := repository.NewInstrumentRepository(deps.DB)

	balance, err := accounts.BalanceOf(ctx, accountID)
	if err != nil {
		return 0, apperr.Fatal(err, "balance lookup failed")
	}
	instrument, err := instruments.FindByTicker(ctx, ticker)
	if err != nil {
		return 0, apperr.Fatal(err, "instrument lookup failed")
	}
	if balance == nil || instrument == nil || balance.CurrencyCode == instrument.CurrencyCode {
		return 1, nil
	}

	from, err := instruments.CurrencyByCode(ctx, balance.CurrencyCode)
	if err != nil {
		return 0, apperr.Fatal(err, "currency lookup failed")
	}
	to, err := instruments.CurrencyByCode(ctx, instrument.CurrencyCode)
	if err != nil {
		return 0, apperr.Fatal(err, "currency lookup failed")
	}
	if from == nil || to == nil {
		return 1, nil
	}
	return fx.NewConverter(*from, *to).Rate(), nil
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.WithError(err).Error("failed to encode response")
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeError(w http.ResponseWriter, err error) {
	writeDetail(w, apperr.StatusOf(err), err.Error())
}
