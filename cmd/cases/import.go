package cases

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/flarebyte/baldrick-casetrail/internal/service/importer"
	"github.com/spf13/cobra"
)

var (
	flagImportProject string
	flagImportFile    string
	flagImportActor   string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import cases from a CSV file (one row per step)",
	Long: "Rows sharing the same suite and title form one case. A title already\n" +
		"present in the project gets a new version instead of a duplicate case.",
	RunE: func(cmd *cobra.Command, args []string) error {
		project := strings.TrimSpace(flagImportProject)
		if project == "" {
			return errors.New("--project is required")
		}
		if flagImportFile == "" {
			return errors.New("--file is required ('-' reads stdin)")
		}
		var r io.Reader = os.Stdin
		if flagImportFile != "-" {
			f, err := os.Open(flagImportFile)
			if err != nil {
				return err
			}
			defer f.Close()
			r = f
		}
		rows, err := importer.Parse(r)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		svc, closeFn, err := openService(ctx)
		if err != nil {
			return err
		}
		defer closeFn()
		imp := importer.New(svc, svcLogger())
		rep, err := imp.Import(ctx, project, rows, flagImportActor)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "imported %d row(s): %d case(s) created, %d version(s) added\n",
			rep.RowsRead, rep.CasesCreated, rep.VersionsCreated)
		return printJSON(map[string]any{
			"rows_read":        rep.RowsRead,
			"cases_created":    rep.CasesCreated,
			"versions_created": rep.VersionsCreated,
		})
	},
}

func init() {
	importCmd.Flags().StringVar(&flagImportProject, "project", "", "Project id (required)")
	importCmd.Flags().StringVar(&flagImportFile, "file", "", "Path to a CSV file, or '-' for stdin (required)")
	importCmd.Flags().StringVar(&flagImportActor, "actor", "", "Name recorded as the author of imported versions")
}
