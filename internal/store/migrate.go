package store

import (
	"context"
	"embed"
	"sort"
	"strings"

	"github.com/go-faster/errors"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate runs the embedded migrations in file name order, substituting the
// table prefix for {prefix}. The migrations are idempotent.
func (s *Store) Migrate(ctx context.Context) error {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return errors.Wrap(err, "read migrations")
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		raw, err := migrationsFS.ReadFile("migrations/" + name)
		if err != nil {
			return errors.Wrapf(err, "read migration %s", name)
		}
		stmt := strings.ReplaceAll(string(raw), "{prefix}", s.prefix)
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "execute migration %s", name)
		}
	}
	return nil
}
