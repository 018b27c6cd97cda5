package domain

import "github.com/shopspring/decimal"

type TransactionStatus string

const (
	StatusRequested    TransactionStatus = "requested"
	StatusValidated    TransactionStatus = "validated"
	StatusFundsSettled TransactionStatus = "funds_settled"
	StatusItemsMoved   TransactionStatus = "items_moved"
	StatusCompleted    TransactionStatus = "completed"
	StatusRejected     TransactionStatus = "rejected"
	StatusNoOp         TransactionStatus = "noop"
)

// TransactionRequest is one purchase attempt. Built per attempt, discarded
// after processing.
type TransactionRequest struct {
	SellerID string
	BuyerID  string
	ItemID   string
	Quantity float64
}

// Receipt summarizes a processed transaction for the caller. Item is the
// post-move snapshot stamped with the transferred quantity, or the original
// listing for service sales.
type Receipt struct {
	ID        string
	Status    TransactionStatus
	Item      *Item
	Quantity  float64
	Cost      decimal.Decimal
	PriceText string
}

// MoveRequest is one (item, quantity) pair of a batch transfer.
type MoveRequest struct {
	ItemID   string
	Quantity float64
}

// MoveResult reports what was actually transferred for one MoveRequest;
// Quantity may be less than requested, never more.
type MoveResult struct {
	Item     *Item
	Quantity float64
}

// QuantityUpdate is a partial item write applied by the store.
type QuantityUpdate struct {
	ItemID   string
	Quantity float64
}

// BuyMessage is the remote buy request routed from a player client to the
// authoritative host. Transport is an external concern. RequestID is minted
// by the client per attempt so redeliveries of one message can be told apart
// from a fresh purchase of the same item.
type BuyMessage struct {
	RequestID     string  `json:"requestId"`
	Action        string  `json:"action"`
	BuyerID       string  `json:"buyerId"`
	SellerTokenID string  `json:"sellerTokenId"`
	ItemID        string  `json:"itemId"`
	Quantity      float64 `json:"quantity"`
}

const BuyAction = "buy"
