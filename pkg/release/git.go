package release

import (
	"errors"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// GitTagFinder implements TagFinder using the go-git library
type GitTagFinder struct{}

// NewGitTagFinder creates a tag finder backed by the on-disk repository.
func NewGitTagFinder() TagFinder {
	return &GitTagFinder{}
}

// HeadTag returns the name of a tag pointing at the HEAD commit, or "" if
// none does. The repository is detected upward from repoPath, matching how
// a build step runs from a subdirectory of the checkout.
func (g *GitTagFinder) HeadTag(repoPath string) (string, error) {
	repo, err := git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", &GitError{
			Type:    "repository_not_found",
			Message: "failed to open git repository",
			Err:     err,
			Context: repoPath,
		}
	}

	head, err := repo.Head()
	if err != nil {
		return "", &GitError{
			Type:    "git_operation_error",
			Message: "failed to resolve HEAD",
			Err:     err,
			Context: repoPath,
		}
	}

	tags, err := repo.Tags()
	if err != nil {
		return "", &GitError{
			Type:    "git_operation_error",
			Message: "failed to list tags",
			Err:     err,
			Context: repoPath,
		}
	}

	var found string
	err = tags.ForEach(func(ref *plumbing.Reference) error {
		target := ref.Hash()

		// Annotated tags point at a tag object; peel it to the commit.
		// Lightweight tags point at the commit directly.
		if tagObj, tagErr := repo.TagObject(ref.Hash()); tagErr == nil {
			target = tagObj.Target
		} else if !errors.Is(tagErr, plumbing.ErrObjectNotFound) {
			return tagErr
		}

		if target == head.Hash() {
			found = ref.Name().Short()
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return "", &GitError{
			Type:    "git_operation_error",
			Message: "failed to iterate tags",
			Err:     err,
			Context: repoPath,
		}
	}

	return found, nil
}
