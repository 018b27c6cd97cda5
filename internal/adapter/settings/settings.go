package settings

import "context"

// Static serves module toggles fixed at startup. The host's settings
// registry replaces it in an embedded deployment.
type Static struct {
	NoGM bool
}

func (s Static) AllowNoGM(ctx context.Context) bool {
	return s.NoGM
}
