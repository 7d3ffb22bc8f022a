package suite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	flagSetProject string
	flagSetName    string
)

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Create a suite, or return the existing one with that name",
	RunE: func(cmd *cobra.Command, args []string) error {
		project := strings.TrimSpace(flagSetProject)
		name := strings.TrimSpace(flagSetName)
		if project == "" {
			return errors.New("--project is required")
		}
		if name == "" {
			return errors.New("--name is required")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		svc, closeFn, err := openService(ctx)
		if err != nil {
			return err
		}
		defer closeFn()
		id, err := svc.EnsureSuite(ctx, project, name)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "suite %q ready id=%s\n", name, id)
		out := map[string]any{"id": id, "project_id": project, "name": name}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	setCmd.Flags().StringVar(&flagSetProject, "project", "", "Project id (required)")
	setCmd.Flags().StringVar(&flagSetName, "name", "", "Suite name, unique within the project (required)")
}
