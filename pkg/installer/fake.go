package installer

import "context"

// fakeInstaller is a scripted Installer used by the installer and
// orchestrator tests; kept here so other packages can import one
// recording double.
type fakeInstaller struct {
	Calls []fakeCall
	Err   error
}

type fakeCall struct {
	Dir         string
	Specs       []string
	GlobalStyle bool
	Original    bool
}

func NewFake() *fakeInstaller { return &fakeInstaller{} }

func (f *fakeInstaller) InstallInDir(ctx context.Context, dir string, specs []string, cfg Config, globalStyle bool) error {
	f.Calls = append(f.Calls, fakeCall{Dir: dir, Specs: specs, GlobalStyle: globalStyle})
	return f.Err
}

func (f *fakeInstaller) InstallInDirOriginalManifest(ctx context.Context, dir string, cfg Config) error {
	f.Calls = append(f.Calls, fakeCall{Dir: dir, Original: true})
	return f.Err
}
