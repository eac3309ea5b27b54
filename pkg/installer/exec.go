package installer

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"os"
	"os/exec"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/monobuild/pkg/errors"
	"github.com/arthur-debert/monobuild/pkg/logging"
)

// PreferredMutexPort is the TCP port yarn's --mutex network flag binds to
// when the orchestrator hasn't been told one explicitly.
const PreferredMutexPort = 42424

// ExecInstaller shells out to a real package-manager binary (npm, yarn,
// pnpm, ...) via os/exec. It is the implementation the orchestrator uses
// outside of tests.
type ExecInstaller struct {
	logger zerolog.Logger
}

func NewExecInstaller() *ExecInstaller {
	return &ExecInstaller{logger: logging.GetLogger("installer")}
}

func (e *ExecInstaller) InstallInDir(ctx context.Context, dir string, specs []string, cfg Config, globalStyle bool) error {
	args := []string{"install"}
	args = append(args, specs...)
	if !globalStyle {
		args = append(args, flatFlag(cfg.NPMClient)...)
	}
	return e.run(ctx, dir, cfg, args)
}

func (e *ExecInstaller) InstallInDirOriginalManifest(ctx context.Context, dir string, cfg Config) error {
	return e.run(ctx, dir, cfg, []string{"install"})
}

func (e *ExecInstaller) run(ctx context.Context, dir string, cfg Config, args []string) error {
	client := cfg.NPMClient
	if client == "" {
		client = "npm"
	}

	if cfg.Registry != "" {
		args = append(args, "--registry", cfg.Registry)
	}
	if cfg.Mutex != "" && client == "yarn" {
		args = append(args, "--mutex", cfg.Mutex)
	}

	e.logger.Info().
		Str("client", client).
		Strs("args", args).
		Str("dir", dir).
		Msg("running installer")

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return errors.Newf(errors.ErrFilesystemFailed, "installer working directory does not exist: %s", dir)
	}

	cmd := exec.CommandContext(ctx, client, args...)
	cmd.Dir = dir
	cmd.Env = os.Environ()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	if stdout.Len() > 0 {
		e.logger.Debug().Str("output", stdout.String()).Msg("installer stdout")
	}
	if stderr.Len() > 0 {
		e.logger.Debug().Str("output", stderr.String()).Msg("installer stderr")
	}

	if err != nil {
		return errors.Wrapf(err, errors.ErrInstallerFailed,
			"%s %v failed in %s: %s", client, args, dir, stderr.String())
	}
	return nil
}

func flatFlag(client string) []string {
	if client == "npm" {
		return nil
	}
	return []string{"--flat"}
}

// AllocateMutexPort picks the TCP port yarn's concurrent installs should
// coordinate through: PreferredMutexPort if free, otherwise any ephemeral
// port the OS hands back.
func AllocateMutexPort() (int, error) {
	if port, ok := tryBind(PreferredMutexPort); ok {
		return port, nil
	}
	port, ok := tryBind(0)
	if !ok {
		return 0, errors.New(errors.ErrPortAllocation, "no free TCP port available for installer mutex")
	}
	return port, nil
}

func tryBind(port int) (int, bool) {
	l, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return 0, false
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, true
}
