package logging

import (
	"log/slog"
)

// WithPage creates a logger with page context.
// Useful for page store and B-tree traversal logging.
//
// Example:
//
//	log := logging.WithPage(pageNo)
//	log.Debug("page read", "type", pageType)
func WithPage(pageNo uint32) *slog.Logger {
	return GetLogger().With("page", pageNo)
}

// WithTable creates a logger with table context.
// Use this for catalog and scan operations.
//
// Example:
//
//	log := logging.WithTable("users")
//	log.Debug("full scan", "root", rootPage)
func WithTable(tableName string) *slog.Logger {
	return GetLogger().With("table", tableName)
}

// WithIndex creates a logger with index context.
//
// Example:
//
//	log := logging.WithIndex("idx_user_email")
//	log.Debug("index probe", "key", email)
func WithIndex(indexName string) *slog.Logger {
	return GetLogger().With("index", indexName)
}

// WithQuery creates a logger with the SQL text being executed.
//
// Example:
//
//	log := logging.WithQuery(sql)
//	log.Debug("planning")
func WithQuery(sql string) *slog.Logger {
	return GetLogger().With("query", sql)
}

// WithDatabase creates a logger with the database file path.
//
// Example:
//
//	log := logging.WithDatabase(path)
//	log.Info("database opened", "pages", pageCount)
func WithDatabase(path string) *slog.Logger {
	return GetLogger().With("database", path)
}

// WithComponent creates a logger with component/subsystem context.
//
// Example:
//
//	log := logging.WithComponent("catalog")
//	log.Info("schema loaded")
func WithComponent(component string) *slog.Logger {
	return GetLogger().With("component", component)
}

// WithError creates a logger with error context.
// Use this when logging errors to include the error in structured format.
//
// Example:
//
//	log := logging.WithError(err)
//	log.Error("query failed", "sql", sql)
func WithError(err error) *slog.Logger {
	return GetLogger().With("error", err.Error())
}
