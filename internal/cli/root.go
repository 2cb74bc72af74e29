package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// BuildInfo contains build-time information
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

var buildInfo BuildInfo

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dbx-deploy",
	Short: "Deploy Spark jobs to Databricks from a build pipeline",
	Long: `dbx-deploy - continuous delivery of Spark jobs to Databricks.

Given a built application package and its entry-point script, this tool
replaces the previously deployed job in the target workspace with a fresh
definition rendered from the job template. Tagged commits deploy to PRD,
untagged trunk builds deploy to DEV as SNAPSHOT, and every other branch is
skipped.`,
	Version: buildInfo.Version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(info BuildInfo) error {
	buildInfo = info
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().IntP("verbosity", "v", 0, "Log verbosity (0 = progress only, 1 = API request logging)")
}
