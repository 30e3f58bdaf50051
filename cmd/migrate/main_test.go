package main

import (
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/trades-booking-api/migrations"
)

type fakeMigrator struct {
	upErr  error
	steps  []int
	forced []int
}

func (f *fakeMigrator) Up() error { return f.upErr }

func (f *fakeMigrator) Steps(n int) error {
	f.steps = append(f.steps, n)
	return nil
}

func (f *fakeMigrator) Force(version int) error {
	f.forced = append(f.forced, version)
	return nil
}

func TestRunCommands(t *testing.T) {
	f := &fakeMigrator{upErr: migrate.ErrNoChange}
	require.NoError(t, run(f, nil), "no change is not an error")

	require.NoError(t, run(f, []string{"down", "2"}))
	require.NoError(t, run(f, []string{"down"}))
	assert.Equal(t, []int{-2, -1}, f.steps)

	require.NoError(t, run(f, []string{"force", "1"}))
	assert.Equal(t, []int{1}, f.forced)

	require.NoError(t, run(f, []string{"version"}))
}

func TestRunRejectsBadInput(t *testing.T) {
	f := &fakeMigrator{}
	assert.Error(t, run(f, []string{"down", "zero"}))
	assert.Error(t, run(f, []string{"force"}))
	assert.Error(t, run(f, []string{"sideways"}))
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	entries, err := migrations.FS.ReadDir(".")
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Contains(t, names, "000001_create_bookings.up.sql")
	assert.Contains(t, names, "000001_create_bookings.down.sql")
}
