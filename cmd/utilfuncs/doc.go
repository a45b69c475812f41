// Command utilfuncs runs the archive, move, encoding and CSV helpers from the
// command line.
//
// Usage:
//
//	utilfuncs [-config file] [-level debug] [-dev] <command> [flags] [args]
//
// Commands:
//
//	zipdir    archive a directory
//	zipfiles  archive a set of files and directories flattened
//	list      list archive entries
//	extract   extract an archive
//	move      move files by extension, substring or glob
//	movedir   move a directory under a new parent
//	glob      filter arguments by a single-wildcard pattern
//	utf8      print or rewrite files as UTF-8
//	prune     delete files older than an age
//	size      report a directory's total size
//	csv2json  convert a CSV file to a JSON array
//	csvgrep   print CSV rows whose column equals a value
//
// Configuration:
//   - Defaults, overlaid by the -config YAML or TOML file
//   - Environment variables (LOG_LEVEL, UTILFUNCS_*) override the file
//   - -level and -dev override everything
//
// When UTILFUNCS_RETRY_MATCH (or retry.match) is set, moves and archive
// writes that fail with a matching error are retried every retry interval
// until they succeed or the command is interrupted.
//
// Signals:
//   - SIGINT, SIGTERM: cancel the running command
package main
