package cli

import (
	"runtime/debug"
	"testing"
)

func TestNormalizeVersion(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "devel"},
		{"(devel)", "devel"},
		{"v1.2.3", "v1.2.3"},
	}
	for _, tt := range tests {
		if got := normalizeVersion(tt.in); got != tt.want {
			t.Errorf("normalizeVersion(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCurrentVersionInfoFromBuildInfo(t *testing.T) {
	orig := readBuildInfo
	defer func() { readBuildInfo = orig }()

	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{
			GoVersion: "go1.23.0",
			Main: debug.Module{
				Path:    "github.com/datalocus/locus",
				Version: "v0.3.0",
			},
			Settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "abc123"},
				{Key: "vcs.modified", Value: "true"},
				{Key: "GOOS", Value: "linux"},
				{Key: "GOARCH", Value: "amd64"},
			},
		}, true
	}

	info := currentVersionInfo()
	if info.Version != "v0.3.0" {
		t.Errorf("Version = %q", info.Version)
	}
	if info.Commit != "abc123" || !info.Modified {
		t.Errorf("Commit = %q Modified = %t", info.Commit, info.Modified)
	}
	if info.GOOS != "linux" || info.GOARCH != "amd64" {
		t.Errorf("platform = %s/%s", info.GOOS, info.GOARCH)
	}
}

func TestCurrentVersionInfoNoBuildInfo(t *testing.T) {
	orig := readBuildInfo
	defer func() { readBuildInfo = orig }()

	readBuildInfo = func() (*debug.BuildInfo, bool) { return nil, false }

	info := currentVersionInfo()
	if info.Version != "devel" {
		t.Errorf("Version = %q", info.Version)
	}
	if info.ModulePath != defaultModulePath {
		t.Errorf("ModulePath = %q", info.ModulePath)
	}
}
