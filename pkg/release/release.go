package release

import (
	"fmt"

	"github.com/sdhdata/dbx-deploy/pkg/config"
)

// TrunkBranch is the branch whose untagged builds are deployed as snapshots.
const TrunkBranch = "master"

// Snapshot is the version string used for untagged trunk builds.
const Snapshot = "SNAPSHOT"

// Outcome is the result of classifying the current build.
type Outcome struct {
	// Version is the semantic version tag for releases, or "SNAPSHOT"
	Version string

	// Tier is the deployment tier the version maps to
	Tier config.Tier

	// Skip is set when the build is neither a release nor a trunk build.
	// A skipped deployment is a normal, successful no-op.
	Skip bool

	// Branch is the branch the classification was made for
	Branch string
}

// String describes the outcome for operator output.
func (o Outcome) String() string {
	if o.Skip {
		return fmt.Sprintf("not a release (tag not available), nor %s branch (branch = %q), not deploying", TrunkBranch, o.Branch)
	}
	return fmt.Sprintf("version %s to %s", o.Version, o.Tier)
}

// Decide classifies a build from its exact-match tag and branch name.
// A tagged commit is a production release; an untagged trunk build is a
// development snapshot; anything else is skipped.
func Decide(tag, branch string) Outcome {
	if tag != "" {
		return Outcome{Version: tag, Tier: config.TierPRD, Branch: branch}
	}
	if branch == TrunkBranch {
		return Outcome{Version: Snapshot, Tier: config.TierDEV, Branch: branch}
	}
	return Outcome{Skip: true, Branch: branch}
}

// TagFinder looks up the version-control tag of the current commit.
// This enables dependency injection and testing with mock implementations.
type TagFinder interface {
	// HeadTag returns the name of a tag pointing at the HEAD commit of the
	// repository at repoPath, or "" if the commit is untagged.
	HeadTag(repoPath string) (string, error)
}

// Classifier combines tag inspection with the release decision.
type Classifier struct {
	tags TagFinder
}

// NewClassifier creates a classifier using the given tag finder.
func NewClassifier(tags TagFinder) *Classifier {
	return &Classifier{tags: tags}
}

// Classify inspects the repository at repoPath and decides the deployment
// outcome for the given branch name. The branch comes from the build
// environment rather than from git: CI agents check out a detached HEAD.
func (c *Classifier) Classify(repoPath, branch string) (Outcome, error) {
	tag, err := c.tags.HeadTag(repoPath)
	if err != nil {
		return Outcome{}, err
	}
	return Decide(tag, branch), nil
}
