package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/avelien/shopkeeper/internal/port"
)

// Table is a Localizer backed by a fixed message table. The host's i18n
// bundle replaces it in an embedded deployment.
type Table map[string]string

func (t Table) Localize(messageKey string) string {
	if text, ok := t[messageKey]; ok {
		return text
	}
	return messageKey
}

// DefaultTable carries English renderings for the core's message keys.
func DefaultTable() Table {
	return Table{
		port.MsgNegativeQuantity:  "You cannot buy a negative amount of items.",
		port.MsgInsufficientFunds: "You do not have enough funds for this purchase.",
		port.MsgNoTargetInScene:   "The merchant is not present on the active scene.",
	}
}

// LogNotifier localizes errors and surfaces them through the log. The host
// UI layer replaces it with real player notifications.
type LogNotifier struct {
	localizer port.Localizer
	log       *zap.Logger
}

func NewLogNotifier(localizer port.Localizer, log *zap.Logger) *LogNotifier {
	return &LogNotifier{localizer: localizer, log: log}
}

func (n *LogNotifier) Error(ctx context.Context, actorID, messageKey string) {
	n.log.Warn("transaction rejected",
		zap.String("actorID", actorID),
		zap.String("key", messageKey),
		zap.String("message", n.localizer.Localize(messageKey)),
	)
}
