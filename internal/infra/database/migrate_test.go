package database

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMigrationsStoreAmountAsText - valor monetário é texto decimal, sem arredondamento da coluna
func TestMigrationsStoreAmountAsText(t *testing.T) {
	for _, name := range []string{"000002_create_payments.up.sql", "000003_create_pricing.up.sql"} {
		t.Run(name, func(t *testing.T) {
			raw, err := fs.ReadFile(migrationsFS, "migrations/"+name)
			require.NoError(t, err)

			ddl := string(raw)
			assert.NotContains(t, ddl, "NUMERIC(")
			assert.Regexp(t, `amount\s+TEXT NOT NULL`, ddl)
		})
	}
}

func TestMigrationsHaveDownFiles(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	require.NoError(t, err)

	names := map[string]bool{}
	for _, e := range entries {
		names[e.Name()] = true
	}
	for name := range names {
		if strings.HasSuffix(name, ".up.sql") {
			assert.True(t, names[strings.TrimSuffix(name, ".up.sql")+".down.sql"], name)
		}
	}
}
