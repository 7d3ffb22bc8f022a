package run

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
	flagStatusID    string
	flagStatusValue string
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Open or close a run",
	RunE: func(cmd *cobra.Command, args []string) error {
		id := strings.TrimSpace(flagStatusID)
		if id == "" {
			return errors.New("--id is required")
		}
		status := strings.ToLower(strings.TrimSpace(flagStatusValue))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		svc, closeFn, err := openService(ctx)
		if err != nil {
			return err
		}
		defer closeFn()
		if err := svc.SetStatus(ctx, id, status); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "run %s is now %s\n", id, status)
		return printJSON(map[string]any{"id": id, "status": status})
	},
}

func init() {
	statusCmd.Flags().StringVar(&flagStatusID, "id", "", "Run id (required)")
	statusCmd.Flags().StringVar(&flagStatusValue, "set", "", "New status: open or closed (required)")
}
