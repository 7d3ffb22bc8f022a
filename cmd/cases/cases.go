package cases

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	cfgpkg "github.com/flarebyte/baldrick-casetrail/internal/config"
	pgdao "github.com/flarebyte/baldrick-casetrail/internal/dao/postgres"
	"github.com/flarebyte/baldrick-casetrail/internal/logger"
	casesvc "github.com/flarebyte/baldrick-casetrail/internal/service/cases"
	"github.com/flarebyte/baldrick-casetrail/internal/service/snapshot"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var CaseCmd = &cobra.Command{
	Use:   "case",
	Short: "Manage versioned test cases",
}

func init() {
	CaseCmd.AddCommand(createCmd)
	CaseCmd.AddCommand(updateCmd)
	CaseCmd.AddCommand(getCmd)
	CaseCmd.AddCommand(listCmd)
	CaseCmd.AddCommand(deleteCmd)
	CaseCmd.AddCommand(diffCmd)
	CaseCmd.AddCommand(importCmd)
}

func openService(ctx context.Context) (*casesvc.Service, func(), error) {
	cfg, err := cfgpkg.Load()
	if err != nil {
		return nil, nil, err
	}
	db, err := pgdao.OpenApp(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	return casesvc.New(casesvc.NewPGStore(db), log), db.Close, nil
}

func svcLogger() zerolog.Logger {
	cfg, _ := cfgpkg.Load()
	return logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
}

// fileInput is the JSON document accepted by `case create` and
// `case update`.
type fileInput struct {
	Suite            string               `json:"suite,omitempty"`
	Title            string               `json:"title"`
	QualityAttribute string               `json:"quality_attribute,omitempty"`
	CategoryLarge    string               `json:"category_large,omitempty"`
	CategoryMedium   string               `json:"category_medium,omitempty"`
	Preconditions    string               `json:"preconditions,omitempty"`
	Priority         string               `json:"priority,omitempty"`
	Tags             []string             `json:"tags,omitempty"`
	Steps            []snapshot.StepInput `json:"steps"`
}

// readInput parses the case document from the given path, or stdin when the
// path is "-".
func readInput(path string) (fileInput, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fileInput{}, err
		}
		defer f.Close()
		r = f
	}
	var in fileInput
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return fileInput{}, fmt.Errorf("parse case document: %w", err)
	}
	return in, nil
}

// toServiceInput resolves the suite name and converts to the service input.
func toServiceInput(ctx context.Context, svc *casesvc.Service, projectID string, in fileInput) (casesvc.Input, error) {
	out := casesvc.Input{
		Title:            in.Title,
		QualityAttribute: in.QualityAttribute,
		CategoryLarge:    in.CategoryLarge,
		CategoryMedium:   in.CategoryMedium,
		Preconditions:    in.Preconditions,
		Priority:         in.Priority,
		Tags:             in.Tags,
		Steps:            in.Steps,
	}
	if s := strings.TrimSpace(in.Suite); s != "" {
		suiteID, err := svc.EnsureSuite(ctx, projectID, s)
		if err != nil {
			return casesvc.Input{}, err
		}
		out.SuiteID = suiteID
	}
	return out, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
