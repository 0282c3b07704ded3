// Package main provides the silt-check tool: it loads a lowered entity
// graph, runs type inference, and reports conflicts as diagnostics.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/fsnotify/fsnotify"

	"github.com/silt-lang/silt/internal/diagnostics"
	"github.com/silt-lang/silt/internal/ir"
	"github.com/silt-lang/silt/internal/position"
	"github.com/silt-lang/silt/internal/typechecker"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

type options struct {
	strategy   string
	verifySigs bool
	verbose    bool
	dotOut     string
	sourceFile string
}

func main() {
	var (
		showVersion = flag.Bool("version", false, "show version information")
		strategy    = flag.String("strategy", "fixpoint", "evaluation strategy: fixpoint|pull")
		verifySigs  = flag.Bool("verify-signatures", false, "cross-check closure result types against declared signatures")
		verbose     = flag.Bool("verbose", false, "log inference events")
		dotOut      = flag.String("dot", "", "write the entity graph in DOT format to the given file")
		watch       = flag.Bool("watch", false, "re-run the check when the input file changes")
		sourceFile  = flag.String("src", "", "source file providing line context for diagnostics")
	)

	flag.Parse()

	if *showVersion {
		fmt.Printf("silt-check v%s (%s)\n", version, commit)
		return
	}

	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: silt-check [flags] <graph file>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	opts := options{
		strategy:   *strategy,
		verifySigs: *verifySigs,
		verbose:    *verbose,
		dotOut:     *dotOut,
		sourceFile: *sourceFile,
	}

	input := args[0]
	if *watch {
		if err := watchAndCheck(input, opts); err != nil {
			log.Fatalf("watch failed: %v", err)
		}
		return
	}

	if !runCheck(input, opts) {
		os.Exit(1)
	}
}

// runCheck loads and checks one graph file, printing diagnostics. It
// returns false when the check found errors.
func runCheck(path string, opts options) bool {
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return false
	}
	defer f.Close()

	store, err := ir.DecodeGraph(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return false
	}

	cfg := typechecker.Config{VerifySignatures: opts.verifySigs}
	if opts.verbose {
		cfg.Observer = typechecker.LogObserver{Logger: log.New(os.Stderr, "silt-check: ", 0)}
	}

	var checkErr error
	switch opts.strategy {
	case "fixpoint":
		checkErr = typechecker.NewFixpoint(cfg).Check(store)
	case "pull":
		checkErr = typechecker.NewPull(store, cfg).Check()
	default:
		fmt.Fprintf(os.Stderr, "error: unknown strategy %q\n", opts.strategy)
		return false
	}

	if opts.dotOut != "" {
		if err := writeDOT(opts.dotOut, store); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return false
		}
	}

	sources := position.NewSourceMap()
	if opts.sourceFile != "" {
		content, err := os.ReadFile(opts.sourceFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return false
		}
		sources.AddFile(opts.sourceFile, string(content))
	}

	manager := diagnostics.NewManager(sources)
	for _, rec := range typechecker.Conflicts(store) {
		manager.AddConflict(rec.Conflict)
	}
	reportCheckError(manager, store, checkErr)

	if out := manager.Render(); out != "" {
		fmt.Fprint(os.Stderr, out)
	}
	if manager.HasErrors() {
		fmt.Fprintf(os.Stderr, "silt-check: %d error(s)\n", manager.ErrorCount())
		return false
	}
	fmt.Println("silt-check: ok")
	return true
}

// reportCheckError turns phase-level failures into diagnostics
func reportCheckError(manager *diagnostics.Manager, store *ir.Store, err error) {
	if err == nil {
		return
	}

	var unresolved *typechecker.UnresolvedError
	if errors.As(err, &unresolved) {
		for _, e := range unresolved.Entities {
			manager.Add(diagnostics.Diagnostic{
				Level:    diagnostics.LevelError,
				Category: diagnostics.CategoryUnresolved,
				Message:  fmt.Sprintf("entity %d needs an explicit type annotation", e),
				Span:     store.Location(e),
			})
		}
		return
	}

	var cycle *typechecker.CycleError
	if errors.As(err, &cycle) {
		manager.Add(diagnostics.Diagnostic{
			Level:    diagnostics.LevelError,
			Category: diagnostics.CategoryCycle,
			Message:  err.Error(),
			Span:     store.Location(cycle.Path[len(cycle.Path)-1]),
		})
		return
	}

	manager.Add(diagnostics.Diagnostic{
		Level:    diagnostics.LevelError,
		Category: diagnostics.CategoryInternal,
		Message:  err.Error(),
	})
}

func writeDOT(path string, store *ir.Store) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return ir.WriteDOT(f, store)
}

// watchAndCheck re-runs the check whenever the input file is written
func watchAndCheck(path string, opts options) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	runCheck(path, opts)
	log.Printf("watching %s", path)

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				log.Printf("%s changed, re-checking", path)
				runCheck(path, opts)
				// Editors often replace the file; re-add the watch in
				// case the inode changed.
				_ = watcher.Add(path)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch error: %v", err)
		}
	}
}
