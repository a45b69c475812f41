// Package config provides configuration for the utilfuncs command.
//
// Configuration starts from Default, is optionally overlaid by a YAML or TOML
// file, and is finally overridden by environment variables.
//
// Configuration Sections:
//   - Logging: log level and output format
//   - Archive: default archive format
//   - Retry: error substring and interval for retried operations
//   - CSV: field delimiter
//
// Example Usage:
//
//	cfg, err := config.LoadFile("utilfuncs.yaml")
//	if err != nil {
//		return err
//	}
//	format, _ := cfg.ArchiveFormat()
//
// Environment Variables:
//   - LOG_LEVEL, LOG_DEV
//   - UTILFUNCS_ARCHIVE_FORMAT
//   - UTILFUNCS_RETRY_MATCH, UTILFUNCS_RETRY_INTERVAL
//   - UTILFUNCS_CSV_DELIMITER
package config
