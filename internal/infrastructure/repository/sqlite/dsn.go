package sqlite

import (
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const defaultBusyTimeout = 5 * time.Second

// buildDSN turns a file path into a modernc DSN with the pragmas every
// connection needs: a busy timeout, WAL journaling and fully synced commits.
func buildDSN(path string, busyTimeout time.Duration) string {
	if busyTimeout <= 0 {
		busyTimeout = defaultBusyTimeout
	}

	query := url.Values{}
	query.Add("_pragma", "busy_timeout("+strconv.FormatInt(busyTimeout.Milliseconds(), 10)+")")
	query.Add("_pragma", "journal_mode(WAL)")
	query.Add("_pragma", "synchronous(FULL)")
	query.Set("_txlock", "immediate")

	return "file:" + filepath.ToSlash(strings.TrimSpace(path)) + "?" + query.Encode()
}

// dbNameFromPath labels spans with the database file name.
func dbNameFromPath(path string) string {
	base := filepath.Base(strings.TrimSpace(path))
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// sidecarFiles lists the files SQLite keeps next to the database in WAL mode.
func sidecarFiles(path string) []string {
	return []string{path, path + "-wal", path + "-shm", path + "-journal"}
}
