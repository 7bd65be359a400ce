package hostwire

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/Incarra/svm-contract/incarra"
	"github.com/Incarra/svm-contract/internal/config"
)

type agentEventLogSink struct {
	logger    *slog.Logger
	logFormat config.LogFormat
}

func newAgentEventLogSink(logger *slog.Logger, logFormat config.LogFormat) incarra.EventSink {
	if logger == nil {
		return nil
	}
	if logFormat == "" {
		logFormat = config.LogFormatText
	}
	return agentEventLogSink{
		logger:    logger,
		logFormat: logFormat,
	}
}

func (s agentEventLogSink) Publish(ctx context.Context, event incarra.Event) error {
	if ctx == nil {
		return incarra.ErrContextNil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	if s.logFormat == config.LogFormatJSON {
		s.logger.Debug("agent event", slog.Any("event", event))
		return nil
	}

	eventPayload, marshalErr := json.Marshal(event)
	if marshalErr != nil {
		return marshalErr
	}

	s.logger.Debug("agent event", slog.String("event", string(eventPayload)))
	return nil
}
