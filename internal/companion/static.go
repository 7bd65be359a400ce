package companion

import (
	"context"
	"fmt"
	"strings"
)

// Static is a deterministic model that answers without a provider. It
// backs local development and tests where no API key is configured.
type Static struct{}

var _ Model = Static{}

func (Static) Reply(_ context.Context, persona, message string) (string, error) {
	return fmt.Sprintf(
		"static_reply persona_bytes=%d message=%q",
		len(persona),
		strings.TrimSpace(message),
	), nil
}
