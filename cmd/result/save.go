package result

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	runsvc "github.com/flarebyte/baldrick-casetrail/internal/service/runs"
	"github.com/spf13/cobra"
)

var (
	flagSaveRunCase string
	flagSaveComment string
	flagSaveActor   string
	flagSaveSteps   []string
	flagSaveFile    string
)

type stepDoc struct {
	StepNo  int    `json:"step_no"`
	Status  string `json:"status"`
	Comment string `json:"comment,omitempty"`
}

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save step outcomes for a run case and derive its overall status",
	Long: "Saving replaces any previous result for the run case. Step statuses are\n" +
		"untested, pass, fail or blocked; the overall status is derived, never\n" +
		"supplied. Steps come from repeated --step 'no:status[:comment]' flags or\n" +
		"a JSON file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		runCase := strings.TrimSpace(flagSaveRunCase)
		if runCase == "" {
			return errors.New("--run-case is required")
		}
		steps, err := collectSteps()
		if err != nil {
			return err
		}
		if len(steps) == 0 {
			return errors.New("at least one --step or a --file with steps is required")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		svc, closeFn, err := openService(ctx)
		if err != nil {
			return err
		}
		defer closeFn()
		overall, resultID, err := svc.SaveResult(ctx, runCase, flagSaveComment, steps, flagSaveActor)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "result saved overall=%s\n", overall)
		return printJSON(map[string]any{
			"result_id":   resultID,
			"run_case_id": runCase,
			"overall":     string(overall),
			"steps":       len(steps),
		})
	},
}

func init() {
	saveCmd.Flags().StringVar(&flagSaveRunCase, "run-case", "", "Run case id (required)")
	saveCmd.Flags().StringVar(&flagSaveComment, "comment", "", "Overall comment")
	saveCmd.Flags().StringVar(&flagSaveActor, "actor", "", "Name recorded as the executor")
	saveCmd.Flags().StringArrayVar(&flagSaveSteps, "step", nil, "Step outcome as 'no:status[:comment]' (repeatable)")
	saveCmd.Flags().StringVar(&flagSaveFile, "file", "", "Path to a JSON array of step outcomes, or '-' for stdin")
}

func collectSteps() ([]runsvc.StepResultInput, error) {
	var out []runsvc.StepResultInput
	for _, raw := range flagSaveSteps {
		parts := strings.SplitN(raw, ":", 3)
		if len(parts) < 2 {
			return nil, fmt.Errorf("invalid --step %q: want 'no:status[:comment]'", raw)
		}
		no, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, fmt.Errorf("invalid --step %q: %w", raw, err)
		}
		in := runsvc.StepResultInput{StepNo: no, Status: runsvc.Status(strings.ToLower(strings.TrimSpace(parts[1])))}
		if len(parts) == 3 {
			in.Comment = parts[2]
		}
		out = append(out, in)
	}
	if flagSaveFile != "" {
		var r io.Reader = os.Stdin
		if flagSaveFile != "-" {
			f, err := os.Open(flagSaveFile)
			if err != nil {
				return nil, err
			}
			defer f.Close()
			r = f
		}
		var docs []stepDoc
		if err := json.NewDecoder(r).Decode(&docs); err != nil {
			return nil, fmt.Errorf("parse steps file: %w", err)
		}
		for _, d := range docs {
			out = append(out, runsvc.StepResultInput{StepNo: d.StepNo, Status: runsvc.Status(d.Status), Comment: d.Comment})
		}
	}
	return out, nil
}
