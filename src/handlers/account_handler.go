// backend/src/handlers/account_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/username/tradejournal/backend/src/logger"
	"github.com/username/tradejournal/backend/src/model"
	"github.com/username/tradejournal/backend/src/services"
	"github.com/username/tradejournal/backend/src/utils"
)

type AccountHandler struct {
	uploadService services.UploadService
}

func NewAccountHandler(service services.UploadService) *AccountHandler {
	return &AccountHandler{uploadService: service}
}

// accountIDParam reads the {id} URL parameter, writing a 400 response when it is invalid.
func accountIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		utils.SendJSONError(w, "Invalid account id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// sendLookupError answers 404 for unknown accounts or summaries and 500 otherwise.
func sendLookupError(w http.ResponseWriter, r *http.Request, what string, accountID int64, err error) {
	switch {
	case errors.Is(err, model.ErrAccountNotFound):
		utils.SendJSONError(w, fmt.Sprintf("Trading account %d not found", accountID), http.StatusNotFound)
	case errors.Is(err, model.ErrSummaryNotFound):
		utils.SendJSONError(w, fmt.Sprintf("No account summary stored for account %d", accountID), http.StatusNotFound)
	default:
		logger.FromContext(r.Context()).Error("Error retrieving "+what, "accountID", accountID, "error", err)
		utils.SendJSONError(w, "Error retrieving "+what, http.StatusInternalServerError)
	}
}

func (h *AccountHandler) HandleGetAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.uploadService.GetTradingAccounts()
	if err != nil {
		logger.FromContext(r.Context()).Error("Error retrieving trading accounts", "error", err)
		utils.SendJSONError(w, "Error retrieving trading accounts", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(accounts)
}

// HandleGetTrades answers with the stored trades of an account and supports
// conditional requests through ETag / If-None-Match.
func (h *AccountHandler) HandleGetTrades(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountIDParam(w, r)
	if !ok {
		return
	}
	ctxLogger := logger.FromContext(r.Context())
	ctxLogger.Debug("Handling GetTrades request with ETag support", "accountID", accountID)

	trades, err := h.uploadService.GetTrades(accountID)
	if err != nil {
		sendLookupError(w, r, "trades", accountID, err)
		return
	}

	currentETag, etagErr := utils.GenerateETag(trades)
	if etagErr != nil {
		ctxLogger.Error("Failed to generate ETag for trades", "accountID", accountID, "error", etagErr)
	}

	w.Header().Set("Cache-Control", "no-cache, private")

	if etagErr == nil && currentETag != "" {
		quotedETag := fmt.Sprintf("\"%s\"", currentETag)
		w.Header().Set("ETag", quotedETag)
		for _, cETag := range strings.Split(r.Header.Get("If-None-Match"), ",") {
			if strings.TrimSpace(cETag) == quotedETag {
				ctxLogger.Info("ETag match for trades", "accountID", accountID, "etag", currentETag)
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(trades); err != nil {
		ctxLogger.Error("Error generating JSON response for trades", "accountID", accountID, "error", err)
	}
}

func (h *AccountHandler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountIDParam(w, r)
	if !ok {
		return
	}
	summary, err := h.uploadService.GetAccountSummary(accountID)
	if err != nil {
		sendLookupError(w, r, "account summary", accountID, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

// HandleDeleteTrades removes every stored trade of an account so its emails can be
// imported again from scratch.
func (h *AccountHandler) HandleDeleteTrades(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountIDParam(w, r)
	if !ok {
		return
	}
	deleted, err := h.uploadService.DeleteTrades(accountID)
	if err != nil {
		sendLookupError(w, r, "trades", accountID, err)
		return
	}
	logger.FromContext(r.Context()).Info("Deleted trades for account", "accountID", accountID, "rowsAffected", deleted)
	w.WriteHeader(http.StatusNoContent)
}
