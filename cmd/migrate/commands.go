package main

import (
	"fmt"
	"os"
	"strconv"

	"shoppinglist-api/internal/migration"

	"github.com/spf13/cobra"
)

// migrator is the part of *migration.Migrator the commands drive
type migrator interface {
	Up() error
	Down() error
	Steps(n int) error
	Status() (migration.Status, error)
	Force(version int) error
	Close() error
}

// opener connects to the database at url, or to the one described by the
// DB_* environment when url is empty
type opener func(url string) (migrator, error)

func newRootCmd(open opener) *cobra.Command {
	var databaseURL string

	root := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the shopping list PostgreSQL schema",
		Long: `Applies and rolls back the SQL migrations embedded in the server.

The database is taken from --database-url, DATABASE_URL, or the DB_HOST,
DB_PORT, DB_USER, DB_PASSWORD, DB_NAME and DB_SSL_MODE variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection URL")

	// withMigrator opens a migrator for the duration of one command
	withMigrator := func(fn func(cmd *cobra.Command, m migrator, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			m, err := open(databaseURL)
			if err != nil {
				return fmt.Errorf("failed to create migrator: %w", err)
			}
			defer m.Close()
			return fn(cmd, m, args)
		}
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: withMigrator(func(cmd *cobra.Command, m migrator, _ []string) error {
				if err := m.Up(); err != nil {
					return err
				}
				return printStatus(cmd, m, "Migrations applied")
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the last migration",
			Args:  cobra.NoArgs,
			RunE: withMigrator(func(cmd *cobra.Command, m migrator, _ []string) error {
				if err := m.Down(); err != nil {
					return err
				}
				return printStatus(cmd, m, "Migration rolled back")
			}),
		},
		&cobra.Command{
			Use:   "steps <n>",
			Short: "Run n migrations (positive = up, negative = down)",
			Example: `  migrate steps 2
  migrate steps -- -1`,
			Args: cobra.ExactArgs(1),
			RunE: withMigrator(func(cmd *cobra.Command, m migrator, args []string) error {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid number of steps %q", args[0])
				}
				if err := m.Steps(n); err != nil {
					return err
				}
				return printStatus(cmd, m, fmt.Sprintf("Ran %d migration steps", n))
			}),
		},
		&cobra.Command{
			Use:     "status",
			Aliases: []string{"version"},
			Short:   "Show the current migration version",
			Args:    cobra.NoArgs,
			RunE: withMigrator(func(cmd *cobra.Command, m migrator, _ []string) error {
				return printStatus(cmd, m, "")
			}),
		},
		&cobra.Command{
			Use:   "force <version>",
			Short: "Set the migration version without running migrations",
			Long: `Marks the database as being at <version> and clears the dirty flag.
Use it to recover from a failed migration once the schema has been fixed by hand.`,
			Args: cobra.ExactArgs(1),
			RunE: withMigrator(func(cmd *cobra.Command, m migrator, args []string) error {
				version, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid version number %q", args[0])
				}
				if err := m.Force(version); err != nil {
					return err
				}
				return printStatus(cmd, m, fmt.Sprintf("Forced migration version to %d", version))
			}),
		},
		&cobra.Command{
			Use:   "files",
			Short: "List the embedded migration files",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				names, err := migration.Files()
				if err != nil {
					return err
				}
				for _, name := range names {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			},
		},
	)

	return root
}

func printStatus(cmd *cobra.Command, m migrator, headline string) error {
	status, err := m.Status()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if headline != "" {
		fmt.Fprintln(out, headline)
	}
	switch {
	case !status.Applied:
		fmt.Fprintln(out, "Current version: none")
	case status.Dirty:
		fmt.Fprintf(out, "Current version: %d (dirty)\n", status.Version)
		fmt.Fprintln(out, "Warning: database is in a dirty state, fix the schema and run 'force'")
	default:
		fmt.Fprintf(out, "Current version: %d\n", status.Version)
	}
	return nil
}
