// Package logger provides structured logging utilities built on Go's standard slog package.
//
// # Basic Usage
//
//	log := logger.New(
//		logger.WithProduction("idlesession"),
//		logger.WithLevel(logger.ParseLevel(os.Getenv("LOG_LEVEL"))),
//	)
//
//	log.Info("session expired",
//		logger.Component("idle_guard"),
//		logger.SessionID(id.SessionID),
//		logger.ActorID(id.ActorID),
//		logger.Phase(decision.Phase),
//	)
//
// Presets:
//
//	WithDevelopment: text format, debug level
//	WithStaging:     JSON format, info level
//	WithProduction:  JSON format, info level
//
// # Context-Aware Logging
//
// Extractors add request-scoped attributes to every record logged with a
// context:
//
//	log := logger.New(
//		logger.WithJSONFormatter(),
//		logger.WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
//			id := middleware.GetRequestID(ctx)
//			return logger.RequestID(id), id != ""
//		}),
//	)
//
// # Attribute Helpers
//
// Helpers return an empty slog.Attr for nil errors and empty identifiers,
// so call sites never need nil checks:
//
//	log.Error("touch failed", logger.Error(err), logger.SessionID(""))
//
// Components that accept a *slog.Logger default to Discard when none is given.
package logger
