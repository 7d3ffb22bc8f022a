package cases

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	casesvc "github.com/flarebyte/baldrick-casetrail/internal/service/cases"
	"github.com/spf13/cobra"
)

var (
	flagDeleteID     string
	flagDeleteForce  bool
	flagDeleteIgnore bool
)

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a case with all its versions and run history",
	Long: "Deleting a case removes every version, every run binding and every\n" +
		"result that references it, in all runs. This cannot be undone.",
	RunE: func(cmd *cobra.Command, args []string) error {
		id := strings.TrimSpace(flagDeleteID)
		if id == "" {
			return errors.New("--id is required")
		}
		if !flagDeleteForce {
			fmt.Fprintf(os.Stderr, "About to delete case %q including its run history. Type yes to confirm: ", id)
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
		if err := svc.DeleteCase(ctx, id); err != nil {
			if errors.Is(err, casesvc.ErrCaseNotFound) && flagDeleteIgnore {
				fmt.Fprintf(os.Stderr, "case %q not found; ignoring\n", id)
				return printJSON(map[string]any{"status": "not_found_ignored"})
			}
			return err
		}
		fmt.Fprintf(os.Stderr, "case deleted id=%s\n", id)
		return printJSON(map[string]any{"status": "deleted", "id": id, "deleted": true})
	},
}

func init() {
	deleteCmd.Flags().StringVar(&flagDeleteID, "id", "", "Case id (required)")
	deleteCmd.Flags().BoolVar(&flagDeleteForce, "force", false, "Do not prompt for confirmation")
	deleteCmd.Flags().BoolVar(&flagDeleteIgnore, "ignore-missing", false, "Do not error if not found")
}
