// Package distgit acquires distgit repositories through the external
// rhpkg-style helper. The helper is an opaque subprocess: zero exit
// code means success, anything else is fatal for the current image.
package distgit

import (
	"context"
	"os/exec"
	"strings"

	"github.com/openshift-eng/distsync/internal/errdefs"
)

// Client provides distgit repository acquisition
type Client interface {
	// Clone clones qualifiedName (e.g. "rpms/my-image") into workDir.
	// The helper names the checkout after the repository.
	Clone(ctx context.Context, qualifiedName, workDir string) error

	// SwitchBranch switches the checkout at repoDir to branch.
	SwitchBranch(ctx context.Context, repoDir, branch string) error
}

// ShellClient implements Client by shelling out to the distgit helper
type ShellClient struct {
	command string
	user    string
}

// NewShellClient creates a client invoking the given helper command.
// user, when non-empty, is passed as --user=<user> on every call.
func NewShellClient(command, user string) *ShellClient {
	return &ShellClient{
		command: command,
		user:    user,
	}
}

// Clone clones the qualified repository into workDir
func (c *ShellClient) Clone(ctx context.Context, qualifiedName, workDir string) error {
	cmd := exec.CommandContext(ctx, c.command, c.args("clone", qualifiedName)...)
	cmd.Dir = workDir
	return c.run(cmd)
}

// SwitchBranch switches the checkout at repoDir to the target branch
func (c *ShellClient) SwitchBranch(ctx context.Context, repoDir, branch string) error {
	cmd := exec.CommandContext(ctx, c.command, c.args("switch-branch", branch)...)
	cmd.Dir = repoDir
	return c.run(cmd)
}

// args builds the helper argument list, inserting --user before the
// subcommand when configured.
func (c *ShellClient) args(subcommand string, rest ...string) []string {
	var args []string
	if c.user != "" {
		args = append(args, "--user="+c.user)
	}
	args = append(args, subcommand)
	return append(args, rest...)
}

// run executes a helper command, capturing combined output for diagnosis
func (c *ShellClient) run(cmd *exec.Cmd) error {
	output, err := cmd.CombinedOutput()
	if err != nil {
		return &errdefs.CommandError{
			Cmd:    strings.Join(cmd.Args, " "),
			Output: string(output),
			Err:    err,
		}
	}
	return nil
}
