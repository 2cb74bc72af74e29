package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// initCheckout creates a git checkout with one commit, optionally tagged
func initCheckout(t *testing.T, tag string) string {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	wt, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.py"), []byte("pass\n"), 0644))
	_, err = wt.Add("main.py")
	require.NoError(t, err)

	hash, err := wt.Commit("build", &git.CommitOptions{Author: &object.Signature{
		Name:  "CI",
		Email: "ci@example.com",
		When:  time.Now(),
	}})
	require.NoError(t, err)

	if tag != "" {
		_, err = repo.CreateTag(tag, hash, nil)
		require.NoError(t, err)
	}
	return dir
}

func writeTemplate(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "job_config.json")
	content := `{
  "new_cluster": {"spark_conf": {"spark.sql.warehouse.dir": "/mnt/{dtap}"}},
  "spark_python_task": {},
  "libraries": []
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDeploy_SkippedBranchIsSuccess(t *testing.T) {
	t.Setenv("BUILD_DEFINITIONNAME", "app")
	t.Setenv("BUILD_SOURCEBRANCHNAME", "feature/x")

	checkout := initCheckout(t, "")

	rootCmd.SetArgs([]string{"deploy", "--repo=" + checkout})
	err := rootCmd.Execute()

	// Not a release and not trunk: a normal, successful no-op
	require.NoError(t, err)
}

func TestDeploy_DryRunNeedsNoWorkspaceCredentials(t *testing.T) {
	t.Setenv("BUILD_DEFINITIONNAME", "app")
	t.Setenv("BUILD_SOURCEBRANCHNAME", "master")

	checkout := initCheckout(t, "")
	template := writeTemplate(t)

	rootCmd.SetArgs([]string{"deploy", "--repo=" + checkout, "--template=" + template, "--dry-run"})
	err := rootCmd.Execute()

	require.NoError(t, err)
}

func TestDeploy_MissingTemplateIsFatal(t *testing.T) {
	t.Setenv("BUILD_DEFINITIONNAME", "app")
	t.Setenv("BUILD_SOURCEBRANCHNAME", "master")

	checkout := initCheckout(t, "1.0.0")

	rootCmd.SetArgs([]string{"deploy", "--repo=" + checkout, "--template=/does/not/exist.json", "--dry-run"})
	err := rootCmd.Execute()

	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to build job definition")
}

func TestDeploy_MissingEnvironmentIsFatal(t *testing.T) {
	t.Setenv("BUILD_DEFINITIONNAME", "")
	t.Setenv("BUILD_SOURCEBRANCHNAME", "")

	rootCmd.SetArgs([]string{"deploy"})
	err := rootCmd.Execute()

	require.Error(t, err)
	require.Contains(t, err.Error(), "BUILD_DEFINITIONNAME is required")
}
