// Package logging builds harbor's structured logger on top of log/slog.
//
// # Usage
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json"})
//	if err != nil {
//		return err
//	}
//	slog.SetDefault(logger.Slog())
//
//	ctx = logging.WithRequestID(ctx, id)
//	slog.InfoContext(ctx, "request completed", "status", 200)
//
// Records logged through a *Context method pick up the request ID stored in
// the context without the caller passing it explicitly.
//
// # Dynamic Level
//
// The minimum level is held in a slog.LevelVar and can be changed while the
// process runs with SetLevel. The config watcher uses this to apply a new
// level from a reloaded file.
//
// # Bridging
//
// LogLogger returns a *log.Logger that writes through the same handler at
// INFO, for libraries that accept a Printf-style logger.
package logging
