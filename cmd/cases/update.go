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
	flagUpdateID    string
	flagUpdateFile  string
	flagUpdateActor string
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Write a new version of a case from a JSON document",
	Long: "Cases are immutable: update never modifies an existing version, it\n" +
		"appends the next version and moves the head pointer to it. The document\n" +
		"must carry the full case content, not a delta.",
	RunE: func(cmd *cobra.Command, args []string) error {
		id := strings.TrimSpace(flagUpdateID)
		if id == "" {
			return errors.New("--id is required")
		}
		if flagUpdateFile == "" {
			return errors.New("--file is required ('-' reads stdin)")
		}
		doc, err := readInput(flagUpdateFile)
		if err != nil {
			return err
		}
		if len(doc.Steps) == 0 {
			return errors.New("case document must contain at least one step")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		svc, closeFn, err := openService(ctx)
		if err != nil {
			return err
		}
		defer closeFn()
		detail, err := svc.GetCaseDetail(ctx, id)
		if err != nil {
			return err
		}
		in, err := toServiceInput(ctx, svc, detail.Case.ProjectID, doc)
		if err != nil {
			return err
		}
		v, err := svc.CreateVersion(ctx, id, in, flagUpdateActor)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "case %s now at version %d\n", id, v.VersionNo)
		return printJSON(map[string]any{
			"case_id":    id,
			"version_id": v.ID,
			"version_no": v.VersionNo,
			"steps":      len(v.Steps),
		})
	},
}

func init() {
	updateCmd.Flags().StringVar(&flagUpdateID, "id", "", "Case id (required)")
	updateCmd.Flags().StringVar(&flagUpdateFile, "file", "", "Path to a JSON case document, or '-' for stdin (required)")
	updateCmd.Flags().StringVar(&flagUpdateActor, "actor", "", "Name recorded as the author of the version")
}
