package port

import "context"

// Message keys for user-facing errors. Rendering and delivery are host
// concerns; the core only picks the key.
const (
	MsgNegativeQuantity  = "negative-quantity"
	MsgInsufficientFunds = "insufficient-funds"
	MsgNoTargetInScene   = "no-target-in-scene"
)

// Notifier delivers a localized error to the initiating actor.
type Notifier interface {
	Error(ctx context.Context, actorID, messageKey string)
}

// Localizer renders a message key into display text.
type Localizer interface {
	Localize(messageKey string) string
}
