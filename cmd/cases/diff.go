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
	flagDiffFrom string
	flagDiffTo   string
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Compare two versions of a case",
	RunE: func(cmd *cobra.Command, args []string) error {
		from := strings.TrimSpace(flagDiffFrom)
		to := strings.TrimSpace(flagDiffTo)
		if from == "" || to == "" {
			return errors.New("--from and --to are required")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		svc, closeFn, err := openService(ctx)
		if err != nil {
			return err
		}
		defer closeFn()
		d, err := svc.Diff(ctx, from, to)
		if err != nil {
			return err
		}
		if d.Empty() {
			fmt.Fprintln(os.Stderr, "versions are identical")
		} else {
			fmt.Fprintf(os.Stderr, "%d field(s), +%d/-%d/~%d step(s)\n",
				len(d.Fields), len(d.StepsAdded), len(d.StepsRemoved), len(d.StepsChanged))
		}
		return printJSON(map[string]any{"identical": d.Empty(), "diff": d})
	},
}

func init() {
	diffCmd.Flags().StringVar(&flagDiffFrom, "from", "", "Older version id (required)")
	diffCmd.Flags().StringVar(&flagDiffTo, "to", "", "Newer version id (required)")
}
