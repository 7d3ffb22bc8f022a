package run

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	runsvc "github.com/flarebyte/baldrick-casetrail/internal/service/runs"
	"github.com/spf13/cobra"
)

var (
	flagDeleteID     string
	flagDeleteForce  bool
	flagDeleteIgnore bool
)

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a run and its results; cases are untouched",
	RunE: func(cmd *cobra.Command, args []string) error {
		id := strings.TrimSpace(flagDeleteID)
		if id == "" {
			return errors.New("--id is required")
		}
		if !flagDeleteForce {
			fmt.Fprintf(os.Stderr, "About to delete run %q with its results. Type yes to confirm: ", id)
			reader := bufio.NewReader(os.Stdin)
			line, _ := reader.ReadString('\n')
			if strings.TrimSpace(strings.ToLower(line)) != "yes" {
				return errors.New("confirmation not 'yes'")
			}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		svc, closeFn, err := openService(ctx)
		if err != nil {
			return err
		}
		defer closeFn()
		if err := svc.DeleteRun(ctx, id); err != nil {
			if errors.Is(err, runsvc.ErrRunNotFound) && flagDeleteIgnore {
				fmt.Fprintf(os.Stderr, "run %q not found; ignoring\n", id)
				return printJSON(map[string]any{"status": "not_found_ignored"})
			}
			return err
		}
		fmt.Fprintf(os.Stderr, "run deleted id=%s\n", id)
		return printJSON(map[string]any{"status": "deleted", "id": id, "deleted": true})
	},
}

func init() {
	deleteCmd.Flags().StringVar(&flagDeleteID, "id", "", "Run id (required)")
	deleteCmd.Flags().BoolVar(&flagDeleteForce, "force", false, "Do not prompt for confirmation")
	deleteCmd.Flags().BoolVar(&flagDeleteIgnore, "ignore-missing", false, "Do not error if not found")
}
