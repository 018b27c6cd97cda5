package port

import "context"

// Settings exposes the module-level toggles the host keeps.
type Settings interface {
	// AllowNoGM reports whether transactions may proceed without a GM
	// connected. When engaged, depleted listings are kept instead of deleted
	// so a GM can reconcile them later.
	AllowNoGM(ctx context.Context) bool
}
