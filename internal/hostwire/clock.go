package hostwire

import (
	"context"
	"time"

	"github.com/Incarra/svm-contract/incarra"
)

// systemClock supplies wall time in whole unix seconds, the resolution
// record timestamps are kept at.
type systemClock struct{}

var _ incarra.Clock = systemClock{}

func (systemClock) Now(ctx context.Context) (int64, error) {
	if ctx == nil {
		return 0, incarra.ErrContextNil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return time.Now().Unix(), nil
}
