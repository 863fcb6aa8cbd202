package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestObjectPath(t *testing.T) {
	t.Parallel()

	p, err := ObjectPath("backups/20260901T093000Z", "tenants")
	require.NoError(t, err)
	require.Equal(t, "backups/20260901T093000Z/tenants.json", p)
}

func TestObjectPathTrimsPrefixSlashes(t *testing.T) {
	t.Parallel()

	p, err := ObjectPath("/backups/run1/", "bills")
	require.NoError(t, err)
	require.Equal(t, "backups/run1/bills.json", p)
}

func TestObjectPathValidates(t *testing.T) {
	t.Parallel()

	_, err := ObjectPath("", "tenants")
	require.Error(t, err)

	_, err = ObjectPath("backups/run1", "")
	require.Error(t, err)

	_, err = ObjectPath("backups/run1", "../tenants")
	require.Error(t, err)
}

func TestSnapshotPrefix(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 1, 9, 30, 0, 0, time.UTC)
	require.Equal(t, "backups/20260901T093000Z", SnapshotPrefix(now))
}
