package buildinfo

import (
	"runtime/debug"
	"testing"
)

func TestRead(t *testing.T) {
	for _, test := range []struct {
		name    string
		ldflags Info
		build   *debug.BuildInfo
		want    Info
	}{
		{
			name: "defaults",
			want: Info{Version: "dev", Commit: "none", Date: "unknown"},
		},
		{
			name:    "ldflags",
			ldflags: Info{Version: "v1.2.3", Commit: "abc123", Date: "2026-01-02T03:04:05Z"},
			build: &debug.BuildInfo{
				Main:     debug.Module{Version: "v0.0.1"},
				Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "fff"}},
			},
			want: Info{Version: "v1.2.3", Commit: "abc123", Date: "2026-01-02T03:04:05Z"},
		},
		{
			name: "go install",
			build: &debug.BuildInfo{
				Main: debug.Module{Version: "v0.4.0"},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "def456"},
					{Key: "vcs.time", Value: "2026-03-04T05:06:07Z"},
				},
			},
			want: Info{Version: "v0.4.0", Commit: "def456", Date: "2026-03-04T05:06:07Z"},
		},
		{
			name:  "local build",
			build: &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}},
			want:  Info{Version: "dev", Commit: "none", Date: "unknown"},
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			Version, Commit, Date = test.ldflags.Version, test.ldflags.Commit, test.ldflags.Date
			readBuildInfo = func() (*debug.BuildInfo, bool) { return test.build, test.build != nil }
			t.Cleanup(func() {
				Version, Commit, Date = "", "", ""
				readBuildInfo = debug.ReadBuildInfo
			})

			if got := Read(); got != test.want {
				t.Errorf("Read() = %+v, want %+v", got, test.want)
			}
		})
	}
}

func TestTemplate(t *testing.T) {
	info := Info{Version: "v1.2.3", Commit: "abc123", Date: "2026-01-02T03:04:05Z"}
	want := "{{.Name}} version v1.2.3\ncommit: abc123\nbuilt: 2026-01-02T03:04:05Z\n"
	if got := info.Template(); got != want {
		t.Errorf("Template() = %q, want %q", got, want)
	}
}
