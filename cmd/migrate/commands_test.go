package main

import (
	"bytes"
	"errors"
	"testing"

	"shoppinglist-api/internal/migration"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMigrator struct {
	status migration.Status
	err    error
	calls  []string
	closed bool
}

func (f *fakeMigrator) Up() error {
	f.calls = append(f.calls, "up")
	f.status = migration.Status{Version: 1, Applied: true}
	return f.err
}

func (f *fakeMigrator) Down() error {
	f.calls = append(f.calls, "down")
	f.status = migration.Status{}
	return f.err
}

func (f *fakeMigrator) Steps(n int) error {
	f.calls = append(f.calls, "steps")
	f.status.Version += uint(n)
	f.status.Applied = true
	return f.err
}

func (f *fakeMigrator) Status() (migration.Status, error) {
	return f.status, nil
}

func (f *fakeMigrator) Force(version int) error {
	f.calls = append(f.calls, "force")
	f.status = migration.Status{Version: uint(version), Applied: true}
	return f.err
}

func (f *fakeMigrator) Close() error {
	f.closed = true
	return nil
}

func execute(t *testing.T, fake *fakeMigrator, args ...string) (string, string, error) {
	t.Helper()
	var gotURL string
	root := newRootCmd(func(url string) (migrator, error) {
		gotURL = url
		return fake, nil
	})

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), gotURL, err
}

func TestUpCommand(t *testing.T) {
	fake := &fakeMigrator{}
	out, _, err := execute(t, fake, "up")

	require.NoError(t, err)
	assert.Equal(t, []string{"up"}, fake.calls)
	assert.True(t, fake.closed)
	assert.Equal(t, "Migrations applied\nCurrent version: 1\n", out)
}

func TestDownCommand(t *testing.T) {
	fake := &fakeMigrator{status: migration.Status{Version: 1, Applied: true}}
	out, _, err := execute(t, fake, "down")

	require.NoError(t, err)
	assert.Contains(t, out, "Current version: none")
}

func TestStepsCommand(t *testing.T) {
	fake := &fakeMigrator{}
	out, _, err := execute(t, fake, "steps", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Ran 1 migration steps")

	_, _, err = execute(t, &fakeMigrator{}, "steps", "many")
	assert.EqualError(t, err, `invalid number of steps "many"`)

	_, _, err = execute(t, &fakeMigrator{}, "steps")
	assert.Error(t, err)
}

func TestStatusCommand(t *testing.T) {
	fake := &fakeMigrator{status: migration.Status{Version: 1, Dirty: true, Applied: true}}
	out, _, err := execute(t, fake, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "Current version: 1 (dirty)")
	assert.Contains(t, out, "force")
	assert.Empty(t, fake.calls)
}

func TestForceCommand(t *testing.T) {
	fake := &fakeMigrator{status: migration.Status{Version: 1, Dirty: true, Applied: true}}
	out, _, err := execute(t, fake, "force", "1")

	require.NoError(t, err)
	assert.Equal(t, []string{"force"}, fake.calls)
	assert.Contains(t, out, "Forced migration version to 1\nCurrent version: 1\n")
}

func TestCommandErrorsPropagate(t *testing.T) {
	fake := &fakeMigrator{err: errors.New("failed to run migrations: boom")}
	_, _, err := execute(t, fake, "up")

	assert.EqualError(t, err, "failed to run migrations: boom")
	assert.True(t, fake.closed)
}

func TestOpenFailure(t *testing.T) {
	root := newRootCmd(func(string) (migrator, error) {
		return nil, errors.New("connection refused")
	})
	root.SetArgs([]string{"status"})
	root.SetOut(&bytes.Buffer{})

	err := root.Execute()
	assert.EqualError(t, err, "failed to create migrator: connection refused")
}

func TestDatabaseURLFlag(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, url, err := execute(t, &fakeMigrator{}, "status", "--database-url", "postgres://localhost/shop")

	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/shop", url)
}

func TestFilesCommand(t *testing.T) {
	root := newRootCmd(func(string) (migrator, error) {
		t.Fatal("files must not open the database")
		return nil, nil
	})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"files"})

	require.NoError(t, root.Execute())
	assert.Equal(t, "000001_create_lists_and_items.down.sql\n000001_create_lists_and_items.up.sql\n", out.String())
}
