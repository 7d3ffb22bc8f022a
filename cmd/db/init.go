package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	cfgpkg "github.com/flarebyte/baldrick-casetrail/internal/config"
	pgdao "github.com/flarebyte/baldrick-casetrail/internal/dao/postgres"
	"github.com/spf13/cobra"
)

var (
	flagInitYes        bool
	flagInitSchemaOnly bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Use admin credentials to create the app role, database and schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cfgpkg.Load()
		if err != nil {
			return err
		}
		if cfg.Postgres.Admin.User == "" || cfg.Postgres.Admin.Password == "" {
			return errors.New("postgres admin credentials missing; set postgres.admin.user and postgres.admin.password in config.yaml")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if !flagInitSchemaOnly {
			if !flagInitYes {
				return errors.New("refusing to modify roles/databases without --yes; re-run with --yes to confirm")
			}
			fmt.Fprintf(os.Stderr, "db:init - connecting to Postgres (postgres db) as admin %q...\n", cfg.Postgres.Admin.User)
			sysdb, err := pgdao.OpenAdmin(ctx, cfg, "postgres")
			if err != nil {
				return err
			}
			defer sysdb.Close()

			fmt.Fprintf(os.Stderr, "db:init - ensuring app role %q...\n", cfg.Postgres.App.User)
			if err := pgdao.EnsureRole(ctx, sysdb, cfg.Postgres.App.User, cfg.Postgres.App.Password); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "db:init - ensuring database %q (owner %q)...\n", cfg.Postgres.DBName, cfg.Postgres.Admin.User)
			if err := pgdao.EnsureDatabase(ctx, sysdb, cfg.Postgres.DBName, cfg.Postgres.Admin.User); err != nil {
				return err
			}
			if err := pgdao.GrantConnect(ctx, sysdb, cfg.Postgres.DBName, cfg.Postgres.App.User); err != nil {
				return err
			}
		}

		fmt.Fprintf(os.Stderr, "db:init - connecting to target DB %q as admin...\n", cfg.Postgres.DBName)
		pool, err := pgdao.OpenAdminPool(ctx, cfg)
		if err != nil {
			return err
		}
		defer pool.Close()

		fmt.Fprintln(os.Stderr, "db:init - ensuring schema (tables, indexes)...")
		if err := pgdao.EnsureSchema(ctx, pool); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "db:init - granting runtime privileges to app role...")
		if err := pgdao.GrantRuntimePrivileges(ctx, pool, cfg.Postgres.App.User); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "db:init - done")
		return nil
	},
}

func init() {
	DBCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&flagInitYes, "yes", false, "Confirm structural changes (roles, database)")
	initCmd.Flags().BoolVar(&flagInitSchemaOnly, "schema-only", false, "Only apply the schema; skip role and database creation")
}
