package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"litequery/pkg/sqlerr"
)

func TestCheckCountsEveryObject(t *testing.T) {
	db := openFixture(t, twoTableBuilder())

	results, err := db.Check(context.Background())
	require.NoError(t, err)

	byName := make(map[string]CheckResult, len(results))
	for _, r := range results {
		byName[r.Name] = r
	}
	require.Len(t, results, 4)
	require.Equal(t, int64(3), byName["sqlite_schema"].Entries, "schema tree holds three object rows")
	require.Equal(t, int64(2), byName["t1"].Entries)
	require.Equal(t, int64(3), byName["t2"].Entries)
	require.Equal(t, int64(2), byName["idx_t1_name"].Entries)
	require.Equal(t, uint32(1), byName["sqlite_schema"].Root)
}

func TestCheckHonorsCanceledContext(t *testing.T) {
	db := openFixture(t, twoTableBuilder())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := db.Check(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestCheckReportsCorruptTree(t *testing.T) {
	b := twoTableBuilder()
	data, err := b.Build()
	require.NoError(t, err)

	// Smash t1's root page type byte; the schema tree on page 1 stays intact
	// so the database still opens.
	root := b.Root("t1")
	require.NotZero(t, root)
	data[(root-1)*512] = 0x99

	path := filepath.Join(t.TempDir(), "corrupt.db")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	db, err := Open(path, Options{})
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Check(context.Background())
	require.True(t, sqlerr.HasCode(err, sqlerr.CodeCorruptBTree),
		"corrupt tree = %v, want CORRUPT_BTREE", err)

	res, cmdErr := db.ExecuteQuery(".check")
	require.Error(t, cmdErr)
	require.Empty(t, res.Rows)
}
