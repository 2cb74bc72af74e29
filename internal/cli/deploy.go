package cli

import (
	"fmt"
	stdlog "log"
	"os"

	"github.com/go-logr/stdr"
	"github.com/spf13/cobra"

	"github.com/sdhdata/dbx-deploy/pkg/config"
	"github.com/sdhdata/dbx-deploy/pkg/databricks"
	"github.com/sdhdata/dbx-deploy/pkg/deploy"
	"github.com/sdhdata/dbx-deploy/pkg/jobspec"
	"github.com/sdhdata/dbx-deploy/pkg/release"
)

// deployCmd represents the deploy command
var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Redeploy the application's job to its target workspace",
	Long: `Redeploy the application's Databricks job for the current build.

The build is classified by version-control state: an exact-match tag on HEAD
deploys that version to PRD, an untagged build of the trunk branch deploys
SNAPSHOT to DEV, and any other branch skips deployment as a successful no-op.

The job definition is rendered from the JSON template: the lowercased tier
name replaces the {dtap} placeholder in the warehouse directory, the job name
and entry-point script are filled in, and the built package is appended to
the library list. Any previously deployed job with the same application name
is deleted first; a streaming job (one carrying a schedule block) also has
its active runs canceled, and the new one is started immediately.`,
	Example: `  # Deploy from a pipeline step, all inputs from the environment
  dbx-deploy deploy

  # Render the job definition without touching the workspace
  dbx-deploy deploy --dry-run

  # Use an explicit checkout path and template
  dbx-deploy deploy --repo=/agent/checkout --template=conf/job_config.json`,
	RunE: runDeploy,
}

func runDeploy(cmd *cobra.Command, args []string) error {
	repoPath, _ := cmd.Flags().GetString("repo")
	templateArg, _ := cmd.Flags().GetString("template")
	envFile, _ := cmd.Flags().GetString("env-file")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	verbosity, _ := cmd.Flags().GetInt("verbosity")

	stdr.SetVerbosity(verbosity)
	log := stdr.New(stdlog.New(os.Stderr, "", stdlog.LstdFlags))

	// Step 1: Load configuration
	fmt.Println("📄 Loading configuration...")
	configLoader := config.NewDotEnvLoader(envFile)
	cfg, err := configLoader.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Step 2: Classify the build
	classifier := release.NewClassifier(release.NewGitTagFinder())
	outcome, err := classifier.Classify(repoPath, cfg.Branch)
	if err != nil {
		return fmt.Errorf("failed to classify build: %w", err)
	}
	if outcome.Skip {
		fmt.Printf("⏭️  %s\n", outcome)
		return nil
	}
	fmt.Printf("🏷️  Deploying %s as %s\n", cfg.ApplicationName, outcome)

	// Step 3: Build the job definition from the template
	templatePath := cfg.TemplatePath
	if templateArg != "" {
		templatePath = templateArg
	}
	artifacts := deploy.BuildArtifacts(cfg.LibraryRoot, cfg.ApplicationName, outcome.Version)

	spec, err := jobspec.Build(templatePath, jobspec.Params{
		Name:       artifacts.JobName,
		Tier:       outcome.Tier,
		Egg:        artifacts.Egg,
		PythonFile: artifacts.PythonFile,
	})
	if err != nil {
		return fmt.Errorf("failed to build job definition: %w", err)
	}
	streaming := spec.Streaming()

	rendered, err := spec.YAML()
	if err != nil {
		return fmt.Errorf("failed to render job definition: %w", err)
	}
	fmt.Println("📋 Job definition:")
	fmt.Print(rendered)

	if dryRun {
		fmt.Println("🧪 Dry run, not touching the workspace")
		return nil
	}

	// Step 4: Connect to the target workspace
	ws, err := cfg.Workspace(outcome.Tier)
	if err != nil {
		return err
	}
	fmt.Printf("🔗 Connecting to Databricks (%s)...\n", outcome.Tier)
	client := databricks.NewClient(ws, log)
	deployer := deploy.New(client, log)

	ctx := cmd.Context()

	// Step 5: Remove the previously deployed job, if any
	fmt.Println("🗑️  Removing old job...")
	if err := deployer.RemoveExisting(ctx, cfg.ApplicationName, streaming); err != nil {
		return fmt.Errorf("failed to remove existing job: %w", err)
	}

	// Step 6: Submit the new job
	fmt.Println("🚀 Submitting new job...")
	jobID, err := deployer.Submit(ctx, spec, streaming)
	if err != nil {
		return fmt.Errorf("failed to submit job: %w", err)
	}

	if streaming {
		fmt.Printf("✅ Deployed %s as streaming job %d and started it\n", artifacts.JobName, jobID)
	} else {
		fmt.Printf("✅ Deployed %s as batch job %d, execution left to its schedule\n", artifacts.JobName, jobID)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(deployCmd)

	deployCmd.Flags().StringP("repo", "r", ".", "Path inside the git checkout to classify (the repository is detected upward)")
	deployCmd.Flags().StringP("template", "t", "", "Job template path (overrides JOB_TEMPLATE_PATH)")
	deployCmd.Flags().String("env-file", "", "Load environment variables from this .env file")
	deployCmd.Flags().Bool("dry-run", false, "Render the job definition without calling the workspace")
}
