package configcmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/flarebyte/baldrick-casetrail/internal/config"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Report configuration problems",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cfgpkg.Load()
		if err != nil {
			return err
		}
		problems := cfgpkg.Validate(cfg)
		if len(problems) == 0 {
			fmt.Fprintln(os.Stderr, "config ok")
			return nil
		}
		for _, p := range problems {
			fmt.Fprintf(os.Stderr, "problem: %s\n", p)
		}
		return fmt.Errorf("%d configuration problem(s)", len(problems))
	},
}
