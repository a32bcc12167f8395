package docstore

import (
	"log/slog"

	"github.com/jmoiron/sqlx"
)

// NewSQLiteDB opens the SQLite database at dbPath. A single connection is
// used so writers never contend for the file lock.
func NewSQLiteDB(dbPath string) (*sqlx.DB, error) {
	slog.Info("opening SQLite DB", "dbPath", dbPath)
	db, err := sqlx.Open(SQLiteDriverName, dbPath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
