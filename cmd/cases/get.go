package cases

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	flagGetID      string
	flagGetVersion string
)

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Show a case with its version history, or one version with steps",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		svc, closeFn, err := openService(ctx)
		if err != nil {
			return err
		}
		defer closeFn()

		if vid := strings.TrimSpace(flagGetVersion); vid != "" {
			v, err := svc.GetVersion(ctx, vid)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "version %d of case %s (%d steps)\n", v.VersionNo, v.CaseID, len(v.Steps))
			return printJSON(map[string]any{
				"id":         v.ID,
				"case_id":    v.CaseID,
				"version_no": v.VersionNo,
				"snapshot":   v.Snap,
				"steps":      v.Steps,
				"created":    v.Created,
			})
		}

		id := strings.TrimSpace(flagGetID)
		if id == "" {
			return errors.New("--id or --version is required")
		}
		d, err := svc.GetCaseDetail(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "case %q with %d version(s)\n", d.Case.Title, len(d.Versions))
		versions := make([]map[string]any, 0, len(d.Versions))
		for _, v := range d.Versions {
			versions = append(versions, map[string]any{
				"id":         v.ID,
				"version_no": v.VersionNo,
				"title":      v.Snap.Title,
				"created":    v.Created,
			})
		}
		return printJSON(map[string]any{
			"id":                 d.Case.ID,
			"project_id":         d.Case.ProjectID,
			"title":              d.Case.Title,
			"priority":           d.Case.Priority,
			"tags":               d.Case.Tags,
			"current_version_id": d.Case.CurrentVersionID.String,
			"versions":           versions,
		})
	},
}

func init() {
	getCmd.Flags().StringVar(&flagGetID, "id", "", "Case id")
	getCmd.Flags().StringVar(&flagGetVersion, "version", "", "Version id (prints the frozen snapshot with steps)")
}
