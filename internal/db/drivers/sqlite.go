package drivers

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

const (
	SQLiteDriverName = sqliteshim.ShimName
	LibSQLDriverName = "libsql"
)

type SQLiteDriver struct {
	db *bun.DB
}

// NewSQLiteDriver opens a SQLite-compatible database. name selects the
// database/sql driver: the local sqlite shim or the libsql (Turso) client.
func NewSQLiteDriver(ctx context.Context, name, dsn string) (*SQLiteDriver, error) {
	if name == SQLiteDriverName {
		if err := ensureFileDir(dsn); err != nil {
			return nil, err
		}
	}

	sqldb, err := sql.Open(name, dsn)
	if err != nil {
		return nil, err
	}

	if name == SQLiteDriverName && strings.Contains(dsn, "mode=memory") {
		sqldb.SetMaxOpenConns(1)
	}

	if err := sqldb.PingContext(ctx); err != nil {
		sqldb.Close()
		return nil, err
	}

	return &SQLiteDriver{db: bun.NewDB(sqldb, sqlitedialect.New())}, nil
}

func (d *SQLiteDriver) GetDB() *bun.DB {
	return d.db
}

func (d *SQLiteDriver) Close() error {
	return d.db.Close()
}

func ensureFileDir(dsn string) error {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" || path == ":memory:" || strings.Contains(dsn, "mode=memory") {
		return nil
	}

	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
