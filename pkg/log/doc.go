// Package log provides structured logging for eelog components: levels,
// key/value fields, text or JSON output, and a bridge for dependencies
// that use the standard library logger.
package log
