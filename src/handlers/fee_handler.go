package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/username/tradejournal/backend/src/logger"
	"github.com/username/tradejournal/backend/src/models"
	"github.com/username/tradejournal/backend/src/services"
)

type FeeHandler struct {
	uploadService services.UploadService
}

func NewFeeHandler(service services.UploadService) *FeeHandler {
	return &FeeHandler{uploadService: service}
}

func (h *FeeHandler) HandleGetFeeDetails(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountIDParam(w, r)
	if !ok {
		return
	}
	logger.FromContext(r.Context()).Info("Handling GetFeeDetails request", "accountID", accountID)

	feeDetails, err := h.uploadService.GetFeeDetails(accountID)
	if err != nil {
		sendLookupError(w, r, "fee details", accountID, err)
		return
	}
	if feeDetails == nil {
		feeDetails = []models.FeeDetail{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(feeDetails)
}
