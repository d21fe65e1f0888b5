// Package log provides redacting logging built on top of the standard
// slog package.
//
// Notes in a vault are private, and so is the layout of the vault on
// disk. The RedactHandler rewrites every record before it reaches the
// underlying handler:
//   - the user's home directory in string attributes, errors and the
//     message becomes "~"
//   - attributes named content, block, body, text or markup are cut to
//     MaxContentRunes runes
//
// Even in verbose mode, logs can therefore be pasted into an issue.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	logger.Debug("rendered region", "path", "/home/me/vault/a.md") // path=~/vault/a.md
//	slog.SetDefault(logger)
package log
