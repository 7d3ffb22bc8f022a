package cmd

import (
	casecmd "github.com/flarebyte/baldrick-casetrail/cmd/cases"
	configcmd "github.com/flarebyte/baldrick-casetrail/cmd/config"
	dbcmd "github.com/flarebyte/baldrick-casetrail/cmd/db"
	reportcmd "github.com/flarebyte/baldrick-casetrail/cmd/report"
	resultcmd "github.com/flarebyte/baldrick-casetrail/cmd/result"
	runcmd "github.com/flarebyte/baldrick-casetrail/cmd/run"
	srvcmd "github.com/flarebyte/baldrick-casetrail/cmd/server"
	suitecmd "github.com/flarebyte/baldrick-casetrail/cmd/suite"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "casetrail",
	Short: "Versioned test case and run management",
	Long: "casetrail keeps test cases under immutable versioning, binds runs to the\n" +
		"case versions in effect when the run was created, and aggregates results\n" +
		"into progress reports.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(configcmd.ConfigCmd)
	rootCmd.AddCommand(dbcmd.DBCmd)
	rootCmd.AddCommand(suitecmd.SuiteCmd)
	rootCmd.AddCommand(casecmd.CaseCmd)
	rootCmd.AddCommand(runcmd.RunCmd)
	rootCmd.AddCommand(resultcmd.ResultCmd)
	rootCmd.AddCommand(reportcmd.ReportCmd)
	rootCmd.AddCommand(srvcmd.ServerCmd)
}
