package storage

import (
	"fadebot/utils/fileutil"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"strings"
	"time"
)

var sqlitePragmas = []string{
	"_pragma=busy_timeout(5000)",
	"_pragma=journal_mode(WAL)",
	"_pragma=foreign_keys(1)",
}

// Open picks the dialect from the DSN: postgres URLs or key=value DSNs go to
// postgres, anything else is treated as a sqlite file path.
func Open(dsn string, config *gorm.Config) (*SQL, error) {
	dialect, err := Dialector(dsn)
	if err != nil {
		return nil, err
	}
	if config == nil {
		config = &gorm.Config{}
	}
	if config.NowFunc == nil {
		config.NowFunc = func() time.Time { return time.Now().UTC() }
	}
	return FromSQL(dialect, config)
}

func Dialector(dsn string) (gorm.Dialector, error) {
	if IsPostgresDSN(dsn) {
		return postgres.Open(dsn), nil
	}
	path := strings.TrimPrefix(dsn, "sqlite://")
	file := strings.TrimPrefix(strings.SplitN(path, "?", 2)[0], "file:")
	if file != ":memory:" && file != "" {
		if err := fileutil.EnsureParent(file); err != nil {
			return nil, err
		}
	}
	return sqlite.Open(withPragmas(path)), nil
}

func IsPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=")
}

func withPragmas(path string) string {
	if strings.Contains(path, "_pragma=") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + strings.Join(sqlitePragmas, "&")
}
