package cli

import (
	"bytes"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/pvlab/sunrack/pkg/pipeline"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{pipeline.FormatJSON}},
		{"json", []string{"json"}},
		{"json,svg", []string{"json", "svg"}},
		{"csv,svg,json", []string{"csv", "svg", "json"}},
	}
	for _, tc := range tests {
		if got := parseFormats(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestCacheDirRespectsXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-test")
	dir, err := cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/tmp/xdg-test", appName) {
		t.Errorf("cacheDir = %q", dir)
	}
}

func TestRootCommand(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()

	if root.Use != "sunrack" {
		t.Errorf("Use = %q", root.Use)
	}
	for _, name := range []string{"plan", "estimate", "sunpath", "shading", "soiling", "serve", "cache", "completion"} {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestRootCommandHelp(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"--help"})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(out.Bytes(), []byte("plan")) {
		t.Error("help output should list the plan command")
	}
}

func TestNewRunnerNoCache(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	runner, err := c.newRunner(true)
	if err != nil {
		t.Fatal(err)
	}
	defer runner.Close()
	if runner.Cache == nil || runner.Keyer == nil {
		t.Error("runner should always carry a cache and keyer")
	}
}
