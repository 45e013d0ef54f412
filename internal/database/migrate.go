package database

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/RahulLalwani5726/Stream-X/internal/middleware"
)

// Migration is one versioned schema change shipped as NNNNNN_name.up.sql and NNNNNN_name.down.sql.
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

func (m Migration) String() string {
	return fmt.Sprintf("%06d_%s", m.Version, m.Name)
}

type migrationSet []Migration

func (s migrationSet) find(version int) (Migration, bool) {
	for _, m := range s {
		if m.Version == version {
			return m, true
		}
	}
	return Migration{}, false
}

// pending returns the migrations not in applied, oldest first.
func (s migrationSet) pending(applied []int) []Migration {
	done := make(map[int]bool, len(applied))
	for _, v := range applied {
		done[v] = true
	}
	var out []Migration
	for _, m := range s {
		if !done[m.Version] {
			out = append(out, m)
		}
	}
	return out
}

// unknown returns applied versions this binary does not ship, sorted.
func (s migrationSet) unknown(applied []int) []int {
	var out []int
	for _, v := range applied {
		if _, ok := s.find(v); !ok {
			out = append(out, v)
		}
	}
	sort.Ints(out)
	return out
}

var migrationFile = regexp.MustCompile(`^(\d{6})_([a-z0-9_]+)\.up\.sql$`)

//go:embed migrations/*.sql
var migrationFS embed.FS

var migrations = mustLoadMigrations(migrationFS, "migrations")

func mustLoadMigrations(fsys fs.FS, dir string) migrationSet {
	set, err := loadMigrations(fsys, dir)
	if err != nil {
		panic(fmt.Sprintf("embedded migrations: %v", err))
	}
	return set
}

// loadMigrations reads every up/down pair in dir. Badly named files are
// skipped with a warning; a missing down script or a reused version is an error.
func loadMigrations(fsys fs.FS, dir string) (migrationSet, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	var set migrationSet
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".up.sql") {
			continue
		}
		match := migrationFile.FindStringSubmatch(name)
		if match == nil {
			middleware.Logger.Warn("Skipping migration with invalid naming", slog.String("file", name))
			continue
		}
		version, _ := strconv.Atoi(match[1])
		if version == 0 {
			middleware.Logger.Warn("Skipping migration with version 0", slog.String("file", name))
			continue
		}
		if prev, dup := set.find(version); dup {
			return nil, fmt.Errorf("version %06d used by both %s and %s", version, prev.Name, match[2])
		}

		up, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		if strings.TrimSpace(string(up)) == "" {
			return nil, fmt.Errorf("%s is empty", name)
		}
		downName := strings.TrimSuffix(name, ".up.sql") + ".down.sql"
		down, err := fs.ReadFile(fsys, path.Join(dir, downName))
		if err != nil {
			return nil, fmt.Errorf("%s has no down script: %w", name, err)
		}

		set = append(set, Migration{Version: version, Name: match[2], Up: string(up), Down: string(down)})
	}

	sort.Slice(set, func(i, j int) bool { return set[i].Version < set[j].Version })
	return set, nil
}

// GetMigrations returns the embedded migrations in version order.
func GetMigrations() []Migration {
	return migrations
}
