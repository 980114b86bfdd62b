// Package logging provides the structured logging facade for intra42.
//
// It is a thin layer over log/slog: InitForCLI installs a text handler at the
// requested level and makes it the slog default, so components that accept a
// *slog.Logger and components that call the package helpers end up on the same
// output.
//
// # Usage
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	logging.Info("Config", "Loaded configuration from %s", path)
//	logging.Error("Session", err, "Token acquisition failed")
//
//	// Structured logger for a component
//	log := logging.Logger("Session")
//	log.Debug("token validated", "expires_in_seconds", 7200)
//
// Every record carries a "subsystem" attribute. Credentials and tokens must
// never be passed to the logger; log their length or presence instead.
package logging
