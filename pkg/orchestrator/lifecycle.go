package orchestrator

import (
	"bytes"
	"context"
	"os"
	"os/exec"

	"github.com/arthur-debert/monobuild/pkg/errors"
	"github.com/arthur-debert/monobuild/pkg/types"
)

// runLifecycleScript runs the named lifecycle script declared in pkg's
// manifest, if any, in pkg's own directory. A package with no script
// registered for name is a no-op, not an error.
func runLifecycleScript(ctx context.Context, pkg *types.Package, name string) error {
	script, ok := pkg.Scripts[name]
	if !ok || script == "" {
		return nil
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", script)
	cmd.Dir = pkg.Location
	cmd.Env = append(os.Environ(),
		"MONOBUILD_PACKAGE="+pkg.Name,
		"MONOBUILD_PACKAGE_DIR="+pkg.Location,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, errors.ErrLifecycleScript,
			"%s script for %s failed: %s", name, pkg.Name, stderr.String())
	}
	return nil
}
