package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

// maxLoggedArg caps how much of a query argument reaches the trace log. Collection payloads
// are whole JSON arrays and would otherwise flood it.
const maxLoggedArg = 256

// pgxLogger adapts zerolog.Logger to pgx's tracelog interface.
// I keep this tiny, only translating levels and passing fields through.
type pgxLogger struct {
	logger zerolog.Logger
}

// newPgxLogger builds a child logger scoped to the pgx component.
// I like to tag component explicitly so SQL noise stays filterable.
func newPgxLogger(logger zerolog.Logger) *pgxLogger {
	l := logger.With().Str("module", "repository").Str("component", "pgx").Logger()
	return &pgxLogger{logger: l}
}

// Log implements tracelog.Logger by mapping pgx levels to zerolog and
// adding SQL and shortened args when present.
func (l *pgxLogger) Log(_ context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
	if level == tracelog.LogLevelNone {
		return
	}

	var event *zerolog.Event

	switch level {
	case tracelog.LogLevelTrace:
		event = l.logger.Trace()
		if sqlVal, ok := data["sql"]; ok {
			if s, ok := sqlVal.(string); ok {
				event = event.Str("sql", s)
			} else {
				event = event.Interface("sql", sqlVal)
			}
			delete(data, "sql")
		}
		if args, ok := data["args"].([]any); ok {
			event = event.Strs("args", shortenArgs(args))
			delete(data, "args")
		}
	case tracelog.LogLevelDebug:
		event = l.logger.Debug()
	case tracelog.LogLevelInfo:
		event = l.logger.Info()
	case tracelog.LogLevelWarn:
		event = l.logger.Warn()
	case tracelog.LogLevelError:
		event = l.logger.Error()
	default:
		// If pgx adds new levels, I'll fall back to info and keep the original level as a field.
		event = l.logger.Info().Str("pgx_log_level", level.String())
	}

	// Non-trace levels still carry args; never log full payloads there either.
	if args, ok := data["args"].([]any); ok {
		data["args"] = shortenArgs(args)
	}
	if len(data) > 0 {
		event = event.Fields(data)
	}
	event.Msg(msg)
}

func shortenArgs(args []any) []string {
	out := make([]string, len(args))
	for i, a := range args {
		s := fmt.Sprint(a)
		if len(s) > maxLoggedArg {
			s = fmt.Sprintf("%s... (%d bytes)", s[:maxLoggedArg], len(s))
		}
		out[i] = s
	}
	return out
}
