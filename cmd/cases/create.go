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
	flagCreateProject string
	flagCreateFile    string
	flagCreateActor   string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a case from a JSON document (writes version 1)",
	RunE: func(cmd *cobra.Command, args []string) error {
		project := strings.TrimSpace(flagCreateProject)
		if project == "" {
			return errors.New("--project is required")
		}
		if flagCreateFile == "" {
			return errors.New("--file is required ('-' reads stdin)")
		}
		doc, err := readInput(flagCreateFile)
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
		in, err := toServiceInput(ctx, svc, project, doc)
		if err != nil {
			return err
		}
		c, v, err := svc.CreateCase(ctx, project, in, flagCreateActor)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "case created id=%s version=1\n", c.ID)
		return printJSON(map[string]any{
			"id":         c.ID,
			"title":      c.Title,
			"version_id": v.ID,
			"version_no": v.VersionNo,
			"steps":      len(v.Steps),
		})
	},
}

func init() {
	createCmd.Flags().StringVar(&flagCreateProject, "project", "", "Project id (required)")
	createCmd.Flags().StringVar(&flagCreateFile, "file", "", "Path to a JSON case document, or '-' for stdin (required)")
	createCmd.Flags().StringVar(&flagCreateActor, "actor", "", "Name recorded as the author of the version")
}
