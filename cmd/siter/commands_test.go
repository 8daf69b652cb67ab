package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alxm/siter/internal/site"
)

func TestPathArgDefaultsToCurrentDirectory(t *testing.T) {
	if got := pathArg(nil); got != "." {
		t.Errorf("pathArg(nil) = %q, want %q", got, ".")
	}
	if got := pathArg([]string{"somewhere"}); got != "somewhere" {
		t.Errorf("pathArg([somewhere]) = %q, want %q", got, "somewhere")
	}
}

func TestRunGenGeneratesScaffoldedProject(t *testing.T) {
	root := filepath.Join(t.TempDir(), "site")
	if err := site.NewProject(root); err != nil {
		t.Fatalf("NewProject() error: %v", err)
	}

	if err := runGen(root); err != nil {
		t.Fatalf("runGen() error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(root, site.DirOut, "index.html")); err != nil {
		t.Errorf("expected gen to produce siter-out/index.html: %v", err)
	}
}

func TestReportErrPassesErrorThrough(t *testing.T) {
	if err := reportErr(nil); err != nil {
		t.Errorf("reportErr(nil) = %v, want nil", err)
	}

	boom := os.ErrNotExist
	if err := reportErr(boom); err != boom {
		t.Errorf("reportErr(boom) = %v, want the same error back", err)
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	cmd := newRootCommand()
	if cmd.Use != "siter" {
		t.Errorf("cmd.Use = %q, want %q", cmd.Use, "siter")
	}
	names := map[string]bool{}
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"gen", "new", "serve", "run"} {
		if !names[want] {
			t.Errorf("missing subcommand %q", want)
		}
	}
}
