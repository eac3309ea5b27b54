package orchestrator

import (
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/arthur-debert/monobuild/pkg/diagnostics"
	"github.com/arthur-debert/monobuild/pkg/fsops"
	"github.com/arthur-debert/monobuild/pkg/graph"
	"github.com/arthur-debert/monobuild/pkg/installer"
	"github.com/arthur-debert/monobuild/pkg/types"
)

const (
	PhasePreinstall  = "preinstall"
	PhaseInstall     = "install"
	PhaseSymlink     = "symlink"
	PhasePostinstall = "postinstall"
	PhasePrepublish  = "prepublish"
	PhasePrepare     = "prepare"
)

// Config carries the orchestrator's run-wide knobs.
type Config struct {
	// Concurrency bounds how many actions run simultaneously in any one
	// phase or batch.
	Concurrency int

	// WorkspacesManaged, when true, skips every phase and delegates the
	// entire bootstrap to a single root-install call.
	WorkspacesManaged bool

	// HoistEnabled mirrors whether the hoist matcher was enabled when the
	// Plan was built; it becomes the leaf install actions' global-style
	// flag.
	HoistEnabled bool

	Installer installer.Config
}

// Orchestrator executes a Plan against a Graph, using an Installer for
// subprocess work and an FS for symlinking and pruning.
type Orchestrator struct {
	graph     *graph.Graph
	installer installer.Installer
	fs        types.FS
	sink      diagnostics.Sink
	cfg       Config
}

func New(g *graph.Graph, inst installer.Installer, fs types.FS, sink diagnostics.Sink, cfg Config) *Orchestrator {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &Orchestrator{graph: g, installer: inst, fs: fs, sink: sink, cfg: cfg}
}

// Run drives root and plan through the full bootstrap state machine. A
// phase failure aborts immediately; no later phase runs.
func (o *Orchestrator) Run(ctx context.Context, root *types.RootManifest, plan *types.Plan) error {
	names := o.graph.Names()
	o.sink.Info(fmt.Sprintf("bootstrapping %d packages", len(names)))

	if o.cfg.WorkspacesManaged {
		o.sink.Info("workspaces-managed mode: delegating to a single root install")
		return o.installer.InstallInDirOriginalManifest(ctx, root.RootPath, o.cfg.Installer)
	}

	if err := o.runLifecyclePhase(ctx, PhasePreinstall); err != nil {
		return err
	}
	if err := o.runInstallPhase(ctx, root, plan); err != nil {
		return err
	}
	if err := o.runSymlinkPhase(ctx); err != nil {
		return err
	}
	if err := o.runLifecyclePhase(ctx, PhasePostinstall); err != nil {
		return err
	}
	if err := o.runLifecyclePhase(ctx, PhasePrepublish); err != nil {
		return err
	}
	if err := o.runLifecyclePhase(ctx, PhasePrepare); err != nil {
		return err
	}
	return nil
}

// runLifecyclePhase runs the named lifecycle script in every package,
// batch by batch: batch N+1 does not start until batch N has finished
// entirely. A script failure aborts the run.
func (o *Orchestrator) runLifecyclePhase(ctx context.Context, name string) error {
	batches, err := o.graph.TopologicalBatches()
	if err != nil {
		return err
	}

	o.sink.PhaseBegin(name)

	total := 0
	for _, batch := range batches {
		total += len(batch)
	}
	o.sink.WorkAdded(name, total)

	for _, batch := range batches {
		if err := o.runBatch(ctx, name, batch); err != nil {
			o.sink.PhaseEnd(name, err)
			return err
		}
	}

	o.sink.PhaseEnd(name, nil)
	return nil
}

func (o *Orchestrator) runBatch(ctx context.Context, phase string, batch []string) error {
	g, gctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(int64(o.cfg.Concurrency))

	for _, name := range batch {
		name := name
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			pkg, _ := o.graph.Get(name)
			if err := runLifecycleScript(gctx, pkg, phase); err != nil {
				return err
			}
			o.sink.WorkCompleted(phase, 1)
			return nil
		})
	}

	return g.Wait()
}

// runSymlinkPhase links every repo-local dependency a package declares
// into that package's local module directory.
func (o *Orchestrator) runSymlinkPhase(ctx context.Context) error {
	o.sink.PhaseBegin(PhaseSymlink)

	type link struct {
		dependent *types.Package
		sibling   *types.Package
	}
	var links []link
	for _, name := range o.graph.Names() {
		pkg, _ := o.graph.Get(name)
		for depName, rng := range pkg.Dependencies {
			if sibling, ok := o.graph.Find(depName, rng); ok {
				links = append(links, link{dependent: pkg, sibling: sibling})
			}
		}
	}
	o.sink.WorkAdded(PhaseSymlink, len(links))

	g, gctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(int64(o.cfg.Concurrency))
	for _, l := range links {
		l := l
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)
			if err := fsops.LinkSibling(o.fs, l.dependent, l.sibling); err != nil {
				return err
			}
			o.sink.WorkCompleted(PhaseSymlink, 1)
			return nil
		})
	}

	err := g.Wait()
	o.sink.PhaseEnd(PhaseSymlink, err)
	return err
}

// runInstallPhase composes phase B's independent actions (root install,
// prune, one leaf install per requester) and runs them bounded by
// concurrency with no batch barrier between them.
func (o *Orchestrator) runInstallPhase(ctx context.Context, root *types.RootManifest, plan *types.Plan) error {
	o.sink.PhaseBegin(PhaseInstall)

	actions := o.buildInstallActions(root, plan)
	o.sink.WorkAdded(PhaseInstall, len(actions))

	g, gctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(int64(o.cfg.Concurrency))
	for _, action := range actions {
		action := action
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)
			if err := action(gctx); err != nil {
				return err
			}
			o.sink.WorkCompleted(PhaseInstall, 1)
			return nil
		})
	}

	err := g.Wait()
	o.sink.PhaseEnd(PhaseInstall, err)
	return err
}

type installAction func(ctx context.Context) error

func (o *Orchestrator) buildInstallActions(root *types.RootManifest, plan *types.Plan) []installAction {
	var actions []installAction

	if len(plan.RootInstalls) > 0 {
		actions = append(actions, o.rootInstallAction(root, plan))
		actions = append(actions, o.pruneAction(root, plan))
	}

	for requester, leaves := range plan.Leaves {
		if len(leaves) == 0 {
			continue
		}
		actions = append(actions, o.leafInstallAction(requester, leaves))
	}

	return actions
}

func (o *Orchestrator) rootInstallAction(root *types.RootManifest, plan *types.Plan) installAction {
	return func(ctx context.Context) error {
		var specs []string
		needsInstall := false
		for _, ri := range plan.RootInstalls {
			if !ri.IsSatisfied {
				needsInstall = true
			}
			specs = append(specs, ri.Spec)
		}
		if !needsInstall {
			specs = nil
		}

		o.sink.Info("installing hoisted dependencies into root")
		if err := o.installer.InstallInDir(ctx, root.RootPath, specs, o.cfg.Installer, true); err != nil {
			return err
		}
		o.sink.Info("finished installing in root")

		for _, ri := range plan.RootInstalls {
			if len(ri.Dependents) == 0 {
				continue
			}
			binEntries, err := fsops.ReadBinEntries(o.fs, filepath.Join(root.RootLocalModuleDir, ri.Name))
			if err != nil {
				return err
			}
			var dependents []*types.Package
			for _, name := range ri.Dependents {
				if pkg, ok := o.graph.Get(name); ok {
					dependents = append(dependents, pkg)
				}
			}
			if err := fsops.LinkBinaries(o.fs, root.RootLocalModuleDir, binEntries, dependents); err != nil {
				return err
			}
		}
		return nil
	}
}

func (o *Orchestrator) pruneAction(root *types.RootManifest, plan *types.Plan) installAction {
	return func(ctx context.Context) error {
		o.sink.Info("pruning hoisted dependencies")
		for _, ri := range plan.RootInstalls {
			for _, name := range ri.Dependents {
				dependent, ok := o.graph.Get(name)
				if !ok {
					continue
				}
				if err := fsops.PruneShadow(o.fs, dependent, root.RootLocalModuleDir, ri.Name); err != nil {
					return err
				}
			}
		}
		o.sink.Info("finished pruning")
		return nil
	}
}

func (o *Orchestrator) leafInstallAction(requester string, leaves []types.LeafInstall) installAction {
	return func(ctx context.Context) error {
		needsInstall := false
		specs := make([]string, 0, len(leaves))
		for _, l := range leaves {
			if !l.IsSatisfied {
				needsInstall = true
			}
			specs = append(specs, l.Spec)
		}
		if !needsInstall {
			return nil
		}

		pkg, ok := o.graph.Get(requester)
		if !ok {
			return nil
		}
		return o.installer.InstallInDir(ctx, pkg.Location, specs, o.cfg.Installer, o.cfg.HoistEnabled)
	}
}
