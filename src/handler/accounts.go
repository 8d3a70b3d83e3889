package handler

import (
	"net/http"

	"github.com/goccy/go-json"

	"orderengine/src/model"
	"orderengine/src/processor"
	"orderengine/src/repository"
)

type accountRequest struct {
	Username     string  `json:"username"`
	Password     string  `json:"password"`
	Balance      float64 `json:"balance"`
	CurrencyCode string  `json:"currency_code"`
}

// CreateAccountHandler registers a funding account with its opening balance.
func CreateAccountHandler(deps processor.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req accountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeDetail(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Username == "" || req.Password == "" {
			writeDetail(w, http.StatusNotAcceptable, "username and password are required")
			return
		}

		account := &model.Account{Username: req.Username}
		if err := account.SetPassword(req.Password); err != nil {
			writeDetail(w, http.StatusInternalServerError, "failed to hash password")
			return
		}
		account.Balance = &model.AccountBalance{
			Amount:       req.Balance,
			CurrencyCode: req.CurrencyCode,
		}

		accounts := repository.NewAccountRepository(deps.DB)
		if err := accounts.Create(r.Context(), account); err != nil {
			writeDetail(w, http.StatusInternalServerError, "failed to create account")
			return
		}

		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"id":       account.ID,
			"username": account.Username,
		})
	}
}
