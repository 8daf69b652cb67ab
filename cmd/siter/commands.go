package main

import (
	"fmt"
	"log"
	"net/http"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/spf13/cobra"

	"github.com/alxm/siter/internal/site"
)

// colored "[tag]" prefixes for log output, grounded on
// _examples/pgavlin-yomlette/cmd/yparse/yparse.go's
// color.New(...).SprintFunc() + colorable.NewColorableStdout() pairing
// so colors still render correctly on Windows terminals.
var (
	stderr   = colorable.NewColorableStderr()
	warnTag  = color.New(color.FgYellow, color.Bold).SprintFunc()
	fatalTag = color.New(color.FgRed, color.Bold).SprintFunc()
	infoTag  = color.New(color.FgCyan, color.Bold).SprintFunc()
)

// newLogger returns the *log.Logger wired into a Driver to print its
// non-fatal warnings (unknown binding, arity mismatch, bad value) with a
// colored tag as they're discovered.
func newLogger() *log.Logger {
	return log.New(stderr, warnTag("[warn] "), 0)
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "siter",
		Short:         "siter generates a static site from templates and Markdown pages",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return reportErr(runGen(pathArg(args)))
		},
	}

	root.AddCommand(newGenCommand())
	root.AddCommand(newNewCommand())
	root.AddCommand(newServeCommand())
	root.AddCommand(newRunCommand())

	return root
}

func newGenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "gen [path]",
		Short: "Generate the site into siter-out/",
		RunE: func(cmd *cobra.Command, args []string) error {
			return reportErr(runGen(pathArg(args)))
		},
	}
}

func newNewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "new [path]",
		Short: "Scaffold a new siter project",
		RunE: func(cmd *cobra.Command, args []string) error {
			return reportErr(site.NewProject(pathArg(args)))
		},
	}
}

func newServeCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve [path]",
		Short: "Serve the already-generated siter-out/ directory over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return reportErr(runServe(pathArg(args), addr))
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8000", "address to listen on")
	return cmd
}

func newRunCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "run [path]",
		Short: "Generate the site, then serve it",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := pathArg(args)
			if err := runGen(path); err != nil {
				return reportErr(err)
			}
			return reportErr(runServe(path, addr))
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8000", "address to listen on")
	return cmd
}

func pathArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

// runGen drives one full generation pass, wiring a *log.Logger into the
// Driver so unknown-binding/arity/value warnings print with a colored
// tag instead of aborting the run.
func runGen(path string) error {
	fmt.Fprintf(stderr, "%s generating %s\n", infoTag("[info]"), path)
	d := site.New(path, newLogger())
	return d.Generate()
}

// runServe starts a trivial static file server over siter-out/, the Go
// port of CUtil.run_server. net/http.FileServer is deliberately plain
// standard library here — see DESIGN.md's "serve — standard library
// justification" entry.
func runServe(path, addr string) error {
	outDir := filepath.Join(path, site.DirOut)
	fmt.Fprintf(stderr, "%s serving %s on %s\n", infoTag("[info]"), outDir, addr)

	return http.ListenAndServe(addr, http.FileServer(http.Dir(outDir)))
}

// reportErr prints a fatal-tagged diagnostic to stderr before returning
// the error to cobra (which, with SilenceErrors set, won't print it
// again), then lets main translate any non-nil error into exit code 1.
func reportErr(err error) error {
	if err == nil {
		return nil
	}
	fmt.Fprintf(stderr, "%s %s\n", fatalTag("[fatal]"), err)
	return err
}
