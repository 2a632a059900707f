package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/census/cmd/census/tui"
	"github.com/jamesainslie/census/pkg/census/cleanup"
	"github.com/jamesainslie/census/pkg/census/config"
	"github.com/jamesainslie/census/pkg/census/history"
	"github.com/jamesainslie/census/pkg/census/logging"
	"github.com/jamesainslie/census/pkg/census/report"
	"github.com/jamesainslie/census/pkg/census/session"
	"github.com/jamesainslie/census/pkg/census/types"
)

// reportFlags carries the report-only flags of the root command.
type reportFlags struct {
	format  string
	suggest bool
	growth  string
	export  string
	dryRun  bool
}

// runScan is the main scan command handler.
func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	root, err := resolvePath(pathArg(args))
	if err != nil {
		return err
	}

	flags := reportFlags{format: cfg.Output}
	flags.suggest, _ = cmd.Flags().GetBool("suggest")
	flags.growth, _ = cmd.Flags().GetString("growth")
	flags.export, _ = cmd.Flags().GetString("export")
	flags.dryRun, _ = cmd.Flags().GetBool("dry-run")
	if flags.format == "" {
		flags.format = config.DefaultOutput
	}

	// An explicit report flag forces non-interactive mode
	noInteractive := viper.GetBool("no_interactive") ||
		cmd.Flags().Changed("output") ||
		cmd.Flags().Changed("export")

	if err := initLogging(cfg, !noInteractive); err != nil {
		return err
	}
	defer func() { _ = logging.Close() }()

	sess, release, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer release()

	if noInteractive {
		return runNonInteractiveScan(sess, root, cfg.Top, flags)
	}

	period, err := history.ParsePeriod(flags.growth)
	if err != nil {
		return err
	}
	journal, err := cleanup.NewJournal(config.DefaultJournalPath())
	if err != nil {
		return err
	}
	return tui.Run(tui.Options{
		Session: sess,
		Root:    root,
		Period:  period,
		DryRun:  flags.dryRun,
		Journal: journal,
	})
}

// runNonInteractiveScan scans root and prints or exports a report.
func runNonInteractiveScan(sess *session.Session, root string, top int, flags reportFlags) error {
	formatter, err := report.Get(flags.format)
	if err != nil {
		return fmt.Errorf("unknown output format %q: available formats are %v", flags.format, report.Available())
	}

	var period history.Period
	if flags.growth != "" {
		if period, err = history.ParsePeriod(flags.growth); err != nil {
			return err
		}
	}

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(os.Stderr, "\nInterrupted, stopping scan...")
			sess.CancelScan()
			cancel()
		case <-ctx.Done():
		}
	}()

	var onProgress func(types.ScanProgress)
	if !getQuiet() {
		fmt.Fprintf(os.Stderr, "Scanning %s...\n", root)
		onProgress = newProgressPrinter(os.Stderr).Print
	}

	status, err := sess.StartScan(ctx, root, onProgress)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	if status == session.StatusCancelled {
		printInfo("Scan cancelled")
		return nil
	}

	opts := report.Options{Top: top, Suggest: flags.suggest}
	if period != "" {
		points, err := sess.Growth(ctx, period)
		if err != nil {
			printVerbose("Growth unavailable: %v", err)
		}
		opts.Growth = points
	}
	rep := report.Build(sess, opts)

	if flags.export != "" {
		dir, err := config.ExpandPath(flags.export)
		if err != nil {
			return err
		}
		path, err := report.Export(dir, flags.format, rep)
		if err != nil {
			return err
		}
		printInfo("Report written to %s", path)
		return nil
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, rep); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	fmt.Print(buf.String())
	return nil
}

// progressPrinter rewrites a single status line as progress arrives.
// Print is called from several scan workers at once.
type progressPrinter struct {
	mu   sync.Mutex
	out  io.Writer
	last int
}

func newProgressPrinter(out io.Writer) *progressPrinter {
	return &progressPrinter{out: out}
}

// Print renders p. The terminal event ends the line.
func (p *progressPrinter) Print(ev types.ScanProgress) {
	p.mu.Lock()
	defer p.mu.Unlock()

	line := fmt.Sprintf("  %5.1f%%  %s files  %s folders  %s",
		ev.Percentage,
		humanize.Comma(ev.FilesAnalyzed),
		humanize.Comma(ev.FoldersAnalyzed),
		types.FormatSize(ev.TotalSize))
	if ev.Done {
		line += "  " + ev.CurrentPath
	}

	pad := ""
	if n := p.last - len(line); n > 0 {
		pad = strings.Repeat(" ", n)
	}
	p.last = len(line)

	fmt.Fprintf(p.out, "\r%s%s", line, pad)
	if ev.Done {
		fmt.Fprintln(p.out)
		p.last = 0
	}
}
