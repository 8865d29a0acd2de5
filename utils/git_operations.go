package utils

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// GitOperations handles the few git queries the destructive commands make
type GitOperations struct {
	workingDir string
}

// NewGitOperations creates a new GitOperations instance
func NewGitOperations(workingDir string) *GitOperations {
	return &GitOperations{workingDir: workingDir}
}

// CheckGitRepo checks if the working directory is inside a git repository
func (g *GitOperations) CheckGitRepo(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--git-dir")
	cmd.Dir = g.workingDir
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("not a git repository")
	}
	return nil
}

// GetGitStatus returns the porcelain status limited to the given pathspecs
func (g *GitOperations) GetGitStatus(ctx context.Context, paths ...string) (string, error) {
	args := []string{"status", "--porcelain"}
	if len(paths) > 0 {
		args = append(args, "--")
		args = append(args, paths...)
	}
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.workingDir
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to get git status: %w", err)
	}
	return string(output), nil
}

// UncommittedChanges lists paths with pending changes under the given pathspecs.
func (g *GitOperations) UncommittedChanges(ctx context.Context, paths ...string) ([]string, error) {
	status, err := g.GetGitStatus(ctx, paths...)
	if err != nil {
		return nil, err
	}
	var changed []string
	for _, line := range strings.Split(status, "\n") {
		if len(line) < 4 {
			continue
		}
		changed = append(changed, strings.TrimSpace(line[3:]))
	}
	return changed, nil
}
