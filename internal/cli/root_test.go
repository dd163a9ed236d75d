package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/kknero/neromind/pkg/buildinfo"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	for _, name := range []string{"validate", "layout", "render", "edit", "maps"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	for _, flag := range []string{"verbose", "config"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("persistent flag --%s missing", flag)
		}
	}
}

func TestRootCommandVersion(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--version"})

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("--version error: %v", err)
	}
	if !strings.Contains(out.String(), "version "+buildinfo.Version) {
		t.Errorf("version output = %q", out.String())
	}
}

func TestVerboseEnablesDebug(t *testing.T) {
	var logs bytes.Buffer
	c := New(&logs, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"-v", "validate", mustWriteSample(t)})

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("validate error: %v", err)
	}
	if !strings.Contains(logs.String(), "DEBU") {
		t.Errorf("expected debug output with -v, got %q", logs.String())
	}
}
