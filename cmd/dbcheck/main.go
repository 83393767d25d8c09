package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	dbcheck "github.com/juvalmar2915/organizacion-del-desarrollo-actividad-integradora"
	"github.com/juvalmar2915/organizacion-del-desarrollo-actividad-integradora/internal/config"
)

var (
	mysqlURL   string
	sqlitePath string
	configFile string
)

// errCheckFailed marks a run that completed but found problems
var errCheckFailed = errors.New("check failed")

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dbcheck",
		Short: "Verify a table's schema and constraints against a declared contract",
		Long: `dbcheck compares a live table in PostgreSQL, MySQL, or SQLite against an expected field list and runs insert scenarios to confirm that its NOT NULL, CHECK, length and type constraints reject what they should.

The scenarios empty the target table before and after every insert.`,
		SilenceUsage: true,
		RunE:         run,
	}

	cmd.Flags().String("db-url", "", "PostgreSQL connection string (or any postgres://, mysql://, sqlite:// URL)")
	cmd.Flags().StringVar(&mysqlURL, "mysql-url", "", "MySQL connection string")
	cmd.Flags().StringVar(&sqlitePath, "sqlite", "", "SQLite database file path")
	cmd.Flags().StringP("table", "t", "", "Table to check (default: the table named by the expected definition)")
	cmd.Flags().StringP("schema", "s", "", "Database schema name (default: public for PostgreSQL)")
	cmd.Flags().String("expected", "", "YAML file with the expected fields (default: built-in users definition)")
	cmd.Flags().String("scenarios", "", "YAML file with insert scenarios (default: built-in users suite)")
	cmd.Flags().Bool("skip-schema", false, "Skip the schema comparison")
	cmd.Flags().Bool("skip-inserts", false, "Skip the insert scenarios")
	cmd.Flags().StringP("format", "f", "text", "Output format: text, markdown or json")
	cmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&configFile, "config", "", "Config file (default is ./dbcheck.yaml)")
	cmd.Flags().String("log-level", "info", "Log level: debug, info, warn or error")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}

	databaseURL, err := resolveDatabaseURL(cfg.Database.URL, cmd.Flags().Changed("db-url"))
	if err != nil {
		return err
	}

	level, _ := cfg.Log.SlogLevel()
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	rep, checkErr := dbcheck.Check(ctx, databaseURL, &dbcheck.Options{
		Table:         cfg.Check.Table,
		SchemaName:    cfg.Database.Schema,
		ExpectedFile:  cfg.Check.Expected,
		ScenariosFile: cfg.Check.Scenarios,
		SkipSchema:    cfg.Check.SkipSchema,
		SkipInserts:   cfg.Check.SkipInserts,
		Logger:        logger,
	})
	if rep == nil {
		return checkErr
	}

	// Output
	var writer io.Writer = cmd.OutOrStdout()
	if cfg.Output.File != "" {
		f, err := os.Create(cfg.Output.File)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				logger.Warn("failed to close output file", "error", err)
			}
		}()
		writer = f
	}

	if err := dbcheck.FormatReport(rep, &dbcheck.OutputOptions{Writer: writer, Format: cfg.Output.Format}); err != nil {
		return err
	}

	if checkErr != nil {
		return checkErr
	}
	if !rep.Passed() {
		return fmt.Errorf("%w: %s", errCheckFailed, rep.Summary())
	}
	return nil
}

// resolveDatabaseURL picks the connection from --mysql-url, --sqlite or the
// configured URL. Only one source may be given explicitly.
func resolveDatabaseURL(configured string, dbURLFlag bool) (string, error) {
	dbCount := 0
	if dbURLFlag {
		dbCount++
	}
	if mysqlURL != "" {
		dbCount++
	}
	if sqlitePath != "" {
		dbCount++
	}
	if dbCount > 1 {
		return "", fmt.Errorf("only one of --db-url, --mysql-url, or --sqlite can be specified")
	}

	switch {
	case mysqlURL != "":
		return "mysql://" + mysqlURL, nil
	case sqlitePath != "":
		return "sqlite://" + sqlitePath, nil
	case configured != "":
		return configured, nil
	default:
		return "", fmt.Errorf("one of --db-url, --mysql-url, or --sqlite must be specified (or set DATABASE_URL)")
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
