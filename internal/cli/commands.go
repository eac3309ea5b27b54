package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/monobuild/internal/version"
	"github.com/arthur-debert/monobuild/pkg/config"
	"github.com/arthur-debert/monobuild/pkg/diagnostics"
	"github.com/arthur-debert/monobuild/pkg/filesystem"
	"github.com/arthur-debert/monobuild/pkg/fsops"
	"github.com/arthur-debert/monobuild/pkg/graph"
	"github.com/arthur-debert/monobuild/pkg/installer"
	"github.com/arthur-debert/monobuild/pkg/logging"
	"github.com/arthur-debert/monobuild/pkg/orchestrator"
	"github.com/arthur-debert/monobuild/pkg/planner"
	"github.com/arthur-debert/monobuild/pkg/reposcan"
	"github.com/arthur-debert/monobuild/pkg/types"
	"github.com/arthur-debert/monobuild/pkg/utils"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var verbosity int

	rootCmd := &cobra.Command{
		Use:   "monobuild",
		Short: "Dependency-placement planner and bootstrap orchestrator for npm-compatible monorepos",
		Long: `monobuild plans where each package's external dependencies should be
installed — hoisted to the repository root or kept local to a package —
and then bootstraps the repository: installing, linking siblings,
linking hoisted binaries, and running lifecycle scripts in dependency
order.`,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase verbosity (-v info, -vv debug, -vvv trace)")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newPlanCmd())
	rootCmd.AddCommand(newBootstrapCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("monobuild version %s\n", version.Version)
			if version.Commit != "" {
				fmt.Printf("Commit: %s\n", version.Commit)
			}
			if version.Date != "" {
				fmt.Printf("Built:  %s\n", version.Date)
			}
		},
	}
}

// buildPlan scans rootDir, loads its configuration, and builds the
// placement Plan against the real OS filesystem.
func buildPlan(rootDir string) (*config.BootstrapConfig, *types.RootManifest, *graph.Graph, *types.Plan, error) {
	rootDir = utils.ExpandPath(rootDir)
	cfg, err := config.Load(rootDir)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("loading configuration: %w", err)
	}

	rootManifest, g, err := reposcan.Scan(rootDir)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("scanning repository: %w", err)
	}

	fsys := filesystem.NewOS()
	probeInstalled(fsys, g)

	probe := func(location, spec string) bool {
		name, _ := types.SplitSpec(spec)
		return fsops.DependencyPresent(fsys, location, name)
	}

	plan := planner.Plan(g, rootManifest, cfg.HoistMatcher(), probe)
	return cfg, rootManifest, g, plan, nil
}

// probeInstalled stamps every package in g with whether each of its
// declared dependencies is already materially present on disk, so the
// planner's sibling-satisfaction shortcut and leaf IsSatisfied checks
// read real state instead of an always-empty map.
func probeInstalled(fsys types.FS, g *graph.Graph) {
	for _, name := range g.Names() {
		pkg, _ := g.Get(name)
		for depName := range pkg.Dependencies {
			pkg.SetInstalled(depName, fsops.DependencyPresent(fsys, pkg.Location, depName))
		}
	}
}

func newPlanCmd() *cobra.Command {
	var rootDir string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the dependency-placement plan without executing it",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, _, plan, err := buildPlan(rootDir)
			if err != nil {
				return err
			}
			printPlan(cmd, plan)
			return nil
		},
	}

	cmd.Flags().StringVar(&rootDir, "root", ".", "repository root to plan")
	return cmd
}

func newBootstrapCmd() *cobra.Command {
	var rootDir string

	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Install dependencies, link siblings, and run lifecycle scripts across the monorepo",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, rootManifest, g, plan, err := buildPlan(rootDir)
			if err != nil {
				return err
			}

			sink := diagnostics.MultiSink{
				diagnostics.NewConsoleSink(os.Stdout, nil),
				diagnostics.NewLogSink(""),
			}
			for _, d := range plan.Diagnostics {
				sink.Warn(d)
			}

			matcher := cfg.HoistMatcher()
			orch := orchestrator.New(g, installer.NewExecInstaller(), filesystem.NewOS(), sink, orchestrator.Config{
				Concurrency:       cfg.Concurrency,
				WorkspacesManaged: cfg.UseWorkspaces,
				HoistEnabled:      matcher.Enabled(),
				Installer: installer.Config{
					NPMClient: cfg.NPMClient,
					Registry:  cfg.Registry,
					Mutex:     cfg.Mutex,
				},
			})

			return orch.Run(cmd.Context(), rootManifest, plan)
		},
	}

	cmd.Flags().StringVar(&rootDir, "root", ".", "repository root to bootstrap")
	return cmd
}

func printPlan(cmd *cobra.Command, plan *types.Plan) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "root installs (%d):\n", len(plan.RootInstalls))
	for _, ri := range plan.RootInstalls {
		fmt.Fprintf(out, "  %s (satisfied=%v, dependents=%v)\n", ri.Spec, ri.IsSatisfied, ri.Dependents)
	}

	fmt.Fprintf(out, "leaf installs (%d requesters):\n", len(plan.Leaves))
	for requester, leaves := range plan.Leaves {
		for _, l := range leaves {
			fmt.Fprintf(out, "  %s: %s (satisfied=%v)\n", requester, l.Spec, l.IsSatisfied)
		}
	}

	for _, d := range plan.Diagnostics {
		fmt.Fprintf(out, "warning: %s %s\n", d.Kind, d.Name)
	}
}
