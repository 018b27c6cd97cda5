package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avelien/shopkeeper/internal/core/domain"
	"github.com/avelien/shopkeeper/internal/core/service"
)

type HTTPHandler struct {
	merchant *service.MerchantService
}

type BuyHTTPResponse struct {
	Success   bool    `json:"success"`
	Message   string  `json:"message"`
	Status    string  `json:"status,omitempty"`
	Quantity  float64 `json:"quantity,omitempty"`
	PriceText string  `json:"price,omitempty"`
}

func NewHTTPHandler(merchant *service.MerchantService) *HTTPHandler {
	return &HTTPHandler{merchant: merchant}
}

// Buy accepts the remote buy message from a player client and routes it into
// the transaction engine.
func (h *HTTPHandler) Buy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var msg domain.BuyMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		writeJSON(w, http.StatusBadRequest, BuyHTTPResponse{
			Success: false,
			Message: "invalid request body",
		})
		return
	}

	if msg.Action == "" {
		msg.Action = domain.BuyAction
	}
	if msg.Action != domain.BuyAction || msg.BuyerID == "" || msg.SellerTokenID == "" || msg.ItemID == "" {
		writeJSON(w, http.StatusBadRequest, BuyHTTPResponse{
			Success: false,
			Message: "missing required fields",
		})
		return
	}

	receipt, err := h.merchant.HandleBuyMessage(r.Context(), msg)
	if err != nil {
		status := http.StatusInternalServerError
		message := "internal error"

		switch {
		case errors.Is(err, service.ErrDuplicateRequest):
			status = http.StatusConflict
			message = "duplicate request"
		case errors.Is(err, service.ErrNegativeQuantity):
			status = http.StatusBadRequest
			message = "negative quantity"
		case errors.Is(err, service.ErrInsufficientFunds):
			status = http.StatusPaymentRequired
			message = "insufficient funds"
		case errors.Is(err, service.ErrTargetUnavailable):
			status = http.StatusNotFound
			message = "merchant not on scene"
		case errors.Is(err, service.ErrItemNotFound), errors.Is(err, service.ErrActorNotFound):
			status = http.StatusNotFound
			message = "not found"
		}

		writeJSON(w, status, BuyHTTPResponse{
			Success: false,
			Message: message,
		})
		return
	}

	resp := BuyHTTPResponse{
		Success: true,
		Message: "purchase completed",
	}
	if receipt != nil {
		resp.Status = string(receipt.Status)
		resp.Quantity = receipt.Quantity
		resp.PriceText = receipt.PriceText
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
