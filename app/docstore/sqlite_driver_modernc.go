//go:build !cgo_sqlite

package docstore

import (
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func init() {
	// modernc registers as "sqlite"; use ? bindvars for it
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

const SQLiteDriverName = "sqlite"
