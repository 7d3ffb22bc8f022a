package configcmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	cfgpkg "github.com/flarebyte/baldrick-casetrail/internal/config"
	"github.com/flarebyte/baldrick-casetrail/internal/paths"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

var (
	flagOverwrite bool
	flagDryRun    bool
	flagPrompt    bool
	// Server
	flagServerPort int
	// Postgres base
	flagPGHost    string
	flagPGPort    int
	flagPGDBName  string
	flagPGSSLMode string
	// Postgres app creds
	flagPGAppUser     string
	flagPGAppPassword string
	// Postgres admin creds
	flagPGAdminUser     string
	flagPGAdminPassword string
	// Logging
	flagLogLevel  string
	flagLogPretty bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create or update the global config.yaml",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := paths.EnsureHome(); err != nil {
			return err
		}
		path := cfgpkg.Path()
		if !flagOverwrite && !flagDryRun {
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("config already exists at %s (use --overwrite to replace)", path)
			}
		}

		// Start from existing config (or defaults if missing) to preserve secrets
		cfg, _ := cfgpkg.Load()

		if cmd.Flags().Changed("server-port") {
			cfg.Server.Port = flagServerPort
		}
		if cmd.Flags().Changed("pg-host") {
			cfg.Postgres.Host = flagPGHost
		}
		if cmd.Flags().Changed("pg-port") {
			cfg.Postgres.Port = flagPGPort
		}
		if cmd.Flags().Changed("pg-dbname") {
			cfg.Postgres.DBName = flagPGDBName
		}
		if cmd.Flags().Changed("pg-sslmode") {
			cfg.Postgres.SSLMode = flagPGSSLMode
		}
		if cmd.Flags().Changed("pg-app-user") {
			cfg.Postgres.App.User = flagPGAppUser
		}
		if cmd.Flags().Changed("pg-app-password") {
			cfg.Postgres.App.Password = flagPGAppPassword
		}
		if cmd.Flags().Changed("pg-admin-user") {
			cfg.Postgres.Admin.User = flagPGAdminUser
		}
		if cmd.Flags().Changed("pg-admin-password") {
			cfg.Postgres.Admin.Password = flagPGAdminPassword
		}
		if cmd.Flags().Changed("log-level") {
			cfg.Log.Level = flagLogLevel
		}
		if cmd.Flags().Changed("log-pretty") {
			cfg.Log.Pretty = flagLogPretty
		}

		if flagPrompt {
			pw, err := promptPassword(fmt.Sprintf("Password for app role %q: ", cfg.Postgres.App.User))
			if err != nil {
				return err
			}
			if pw != "" {
				cfg.Postgres.App.Password = pw
			}
			pw, err = promptPassword(fmt.Sprintf("Password for admin role %q (empty to keep): ", cfg.Postgres.Admin.User))
			if err != nil {
				return err
			}
			if pw != "" {
				cfg.Postgres.Admin.Password = pw
			}
		}

		b, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		if flagDryRun {
			os.Stdout.Write(b)
			if len(b) == 0 || b[len(b)-1] != '\n' {
				fmt.Fprintln(os.Stdout)
			}
			fmt.Fprintf(os.Stderr, "dry-run: not writing %s\n", path)
			return nil
		}
		if err := os.WriteFile(path, b, 0o600); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wrote config to %s\n", path)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&flagOverwrite, "overwrite", false, "Overwrite existing config.yaml if present")
	initCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Print merged config to stdout without writing")
	initCmd.Flags().BoolVar(&flagPrompt, "prompt-passwords", false, "Prompt for role passwords without echo")

	initCmd.Flags().IntVar(&flagServerPort, "server-port", cfgpkg.DefaultServerPort, "Server port")

	initCmd.Flags().StringVar(&flagPGHost, "pg-host", "127.0.0.1", "Postgres host")
	initCmd.Flags().IntVar(&flagPGPort, "pg-port", cfgpkg.DefaultPostgresPort, "Postgres port")
	initCmd.Flags().StringVar(&flagPGDBName, "pg-dbname", cfgpkg.DefaultDBName, "Postgres database name")
	initCmd.Flags().StringVar(&flagPGSSLMode, "pg-sslmode", "disable", "Postgres SSL mode")

	initCmd.Flags().StringVar(&flagPGAppUser, "pg-app-user", "casetrail_app", "Postgres app user (runtime)")
	initCmd.Flags().StringVar(&flagPGAppPassword, "pg-app-password", "", "Postgres app password")
	initCmd.Flags().StringVar(&flagPGAdminUser, "pg-admin-user", "casetrail_admin", "Postgres admin user (db init)")
	initCmd.Flags().StringVar(&flagPGAdminPassword, "pg-admin-password", "", "Postgres admin password")

	initCmd.Flags().StringVar(&flagLogLevel, "log-level", "info", "Log level (trace..error)")
	initCmd.Flags().BoolVar(&flagLogPretty, "log-pretty", false, "Human-readable console logging")
}

// promptPassword reads without echo when stdin is a terminal, falling back to
// a plain line read otherwise.
func promptPassword(prompt string) (string, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprint(os.Stderr, prompt)
		b, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return strings.TrimRight(string(b), "\r\n"), nil
	}
	fmt.Fprintln(os.Stderr, "warning: reading password from stdin; input will not be masked")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
