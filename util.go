package parquet2bcf

import (
	"os/user"
	"path/filepath"
	"strings"
)

// WhichSQLiteDriver names the database/sql driver backing the index, which
// depends on whether the binary was built with cgo.
func WhichSQLiteDriver() string {
	return whichSQLiteDriver
}

// ExpandHome replaces a leading ~/ with the current user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	usr, err := user.Current()
	if err != nil {
		return path
	}
	return filepath.Join(usr.HomeDir, path[2:])
}
