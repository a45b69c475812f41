// Package logging builds the zap loggers used by the utilfuncs command.
//
// Two output modes:
//   - Production: JSON lines on stderr
//   - Development: colored console output with caller and stack traces
//
// Library packages take a plain *zap.Logger; this package only decides how
// the command constructs one.
//
// Example Usage:
//
//	logger, err := logging.New(logging.Config{Level: "debug", Development: true})
//	if err != nil {
//		return err
//	}
//	defer logger.Sync()
//	ops := filesystem.New(logger.Logger)
package logging
