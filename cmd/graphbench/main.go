// Command graphbench is a thin demo consumer of the graphcore library:
// it reads newline-delimited, whitespace-separated atom sequences from
// stdin, inserts each as it arrives, and prints the resulting token id.
// It also runs a periodic background job re-checking the graph's
// structural invariants while inserts stream in.
package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/patterngraph/graphcore"
	"github.com/patterngraph/graphcore/internal/slogpretty"
)

var (
	checkInterval time.Duration
	verbose       bool
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graphbench",
		Short: "Insert newline-delimited atom sequences into a graphcore graph and print resulting token ids",
		RunE:  runGraphbench,
	}
	cmd.Flags().DurationVar(&checkInterval, "check-interval", time.Minute, "interval between background invariant checks (0 disables the scheduler)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level logging")
	return cmd
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func runGraphbench(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slogpretty.NewHandler(os.Stderr, &slogpretty.HandlerOptions{Level: level, NoColor: !isTerminal(os.Stderr)})
	log := slog.New(handler)

	reg := prometheus.NewRegistry()
	metrics := graphcore.NewGraphMetrics(reg)
	g := graphcore.NewGraph(
		graphcore.WithLogger(log),
		graphcore.WithMetrics(metrics),
	)

	if checkInterval > 0 {
		sched, err := gocron.NewScheduler()
		if err != nil {
			return fmt.Errorf("graphbench: creating scheduler: %w", err)
		}
		_, err = sched.NewJob(
			gocron.DurationJob(checkInterval),
			gocron.NewTask(func() {
				if err := g.CheckInvariants(); err != nil {
					log.Error("invariant check failed", slog.Any("err", err))
				}
			}),
		)
		if err != nil {
			return fmt.Errorf("graphbench: scheduling invariant check: %w", err)
		}
		sched.Start()
		defer sched.Shutdown()
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	symbols := make(map[string]graphcore.Token)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		seq := make([]graphcore.Token, 0, len(fields))
		for _, f := range fields {
			tok, ok := symbols[f]
			if !ok {
				tok = g.InsertAtom(f)
				symbols[f] = tok
			}
			seq = append(seq, tok)
		}
		result, err := graphcore.Insert(g, seq)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "insert %q: %v\n", line, err)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\tnew=%t\n", result.Token, result.IsNew)
	}
	return scanner.Err()
}
