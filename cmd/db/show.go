package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	cfgpkg "github.com/flarebyte/baldrick-casetrail/internal/config"
	pgdao "github.com/flarebyte/baldrick-casetrail/internal/dao/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	flagShowOutput  string
	flagShowSchema  string
	flagShowConcise bool
)

type columnInfo struct {
	Name     string
	DataType string
	Nullable string
	Default  string
	PK       bool
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show database table schemas",
	RunE: func(cmd *cobra.Command, args []string) error {
		outFmt := strings.ToLower(strings.TrimSpace(flagShowOutput))
		if outFmt == "" {
			outFmt = "tables"
		}
		if outFmt != "tables" && outFmt != "json" {
			return errors.New("--output must be 'tables' or 'json'")
		}
		schema := strings.TrimSpace(flagShowSchema)
		if schema == "" {
			schema = "public"
		}

		cfg, err := cfgpkg.Load()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		db, err := pgdao.OpenApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		tblRows, err := db.Query(ctx, `SELECT table_name FROM information_schema.tables
            WHERE table_schema=$1 AND table_type='BASE TABLE'
            ORDER BY table_name`, schema)
		if err != nil {
			return err
		}
		defer tblRows.Close()
		tables := []string{}
		for tblRows.Next() {
			var t string
			if err := tblRows.Scan(&t); err != nil {
				return err
			}
			tables = append(tables, t)
		}
		if err := tblRows.Err(); err != nil {
			return err
		}

		// Core tables first, in dependency order
		priority := map[string]int{
			"suites": 0, "cases": 1, "case_versions": 2, "steps": 3,
			"runs": 4, "run_cases": 5, "results": 6, "step_results": 7,
		}
		sort.Slice(tables, func(i, j int) bool {
			pi, pj := 1000, 1000
			if v, ok := priority[tables[i]]; ok {
				pi = v
			}
			if v, ok := priority[tables[j]]; ok {
				pj = v
			}
			if pi != pj {
				return pi < pj
			}
			return tables[i] < tables[j]
		})

		if outFmt == "json" {
			return showAsJSON(ctx, db, schema, tables, flagShowConcise)
		}
		return showAsTables(ctx, db, schema, tables, flagShowConcise)
	},
}

func init() {
	DBCmd.AddCommand(showCmd)
	showCmd.Flags().StringVar(&flagShowOutput, "output", "tables", "Output format: tables or json")
	showCmd.Flags().StringVar(&flagShowSchema, "schema", "public", "Schema to inspect (default public)")
	showCmd.Flags().BoolVar(&flagShowConcise, "concise", false, "Concise view (columns and types only)")
}

func fetchColumns(ctx context.Context, db *pgxpool.Pool, schema, table string) ([]columnInfo, error) {
	pkset := map[string]bool{}
	pkRows, err := db.Query(ctx, `SELECT kcu.column_name
        FROM information_schema.table_constraints tc
        JOIN information_schema.key_column_usage kcu
          ON tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema
        WHERE tc.table_schema=$1 AND tc.table_name=$2 AND tc.constraint_type='PRIMARY KEY'`, schema, table)
	if err == nil {
		defer pkRows.Close()
		for pkRows.Next() {
			var col string
			if err := pkRows.Scan(&col); err == nil {
				pkset[col] = true
			}
		}
		_ = pkRows.Err()
	}

	rows, err := db.Query(ctx, `SELECT column_name, data_type, is_nullable, COALESCE(column_default,'')
        FROM information_schema.columns
        WHERE table_schema=$1 AND table_name=$2
        ORDER BY ordinal_position`, schema, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	cols := []columnInfo{}
	for rows.Next() {
		var c columnInfo
		if err := rows.Scan(&c.Name, &c.DataType, &c.Nullable, &c.Default); err != nil {
			return nil, err
		}
		c.PK = pkset[c.Name]
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

func showAsTables(ctx context.Context, db *pgxpool.Pool, schema string, tables []string, concise bool) error {
	for i, t := range tables {
		cols, err := fetchColumns(ctx, db, schema, t)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "TABLE: %s\n", t)
		table := tablewriter.NewWriter(os.Stdout)
		if concise {
			table.SetHeader([]string{"COLUMN", "TYPE"})
			for _, c := range cols {
				table.Append([]string{c.Name, c.DataType})
			}
		} else {
			table.SetHeader([]string{"COLUMN", "TYPE", "NULL", "DEFAULT", "PK"})
			for _, c := range cols {
				pk := ""
				if c.PK {
					pk = "yes"
				}
				table.Append([]string{c.Name, c.DataType, strings.ToLower(c.Nullable), c.Default, pk})
			}
		}
		table.Render()
		if i < len(tables)-1 {
			fmt.Fprintln(os.Stdout)
		}
	}

	fmt.Fprintln(os.Stdout)
	fmt.Fprintln(os.Stdout, "RELATIONSHIPS:")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"FROM", "RELATION", "TO", "ON DELETE"})
	for _, r := range relationships() {
		table.Append([]string{r.From, r.Rel, r.To, r.OnDelete})
	}
	table.Render()
	return nil
}

type relRow struct{ From, Rel, To, OnDelete string }

// relationships returns the curated FK list; cases.current_version_id is a
// soft pointer with no FK, so it is not listed here.
func relationships() []relRow {
	return []relRow{
		{"cases.suite_id", "->", "suites.id", "set null"},
		{"case_versions.case_id", "->", "cases.id", "cascade"},
		{"steps.version_id", "->", "case_versions.id", "cascade"},
		{"run_cases.run_id", "->", "runs.id", "cascade"},
		{"run_cases.case_id", "->", "cases.id", "cascade"},
		{"run_cases.case_version_id", "->", "case_versions.id", "cascade"},
		{"results.run_case_id", "->", "run_cases.id", "cascade"},
		{"step_results.result_id", "->", "results.id", "cascade"},
	}
}

type jsonColumn struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable string `json:"nullable,omitempty"`
	Default  string `json:"default,omitempty"`
	PK       bool   `json:"pk,omitempty"`
}

type jsonTable struct {
	Name    string       `json:"name"`
	Columns []jsonColumn `json:"columns"`
}

type jsonOut struct {
	Schema        string      `json:"schema"`
	Tables        []jsonTable `json:"tables"`
	Relationships []relRow    `json:"relationships"`
}

func showAsJSON(ctx context.Context, db *pgxpool.Pool, schema string, tables []string, concise bool) error {
	out := jsonOut{Schema: schema}
	for _, t := range tables {
		cols, err := fetchColumns(ctx, db, schema, t)
		if err != nil {
			return err
		}
		jt := jsonTable{Name: t}
		for _, c := range cols {
			jc := jsonColumn{Name: c.Name, Type: c.DataType}
			if !concise {
				jc.Nullable = strings.ToLower(c.Nullable)
				jc.Default = c.Default
				jc.PK = c.PK
			}
			jt.Columns = append(jt.Columns, jc)
		}
		out.Tables = append(out.Tables, jt)
	}
	out.Relationships = relationships()
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
