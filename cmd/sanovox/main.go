// Command sanovox is the interactive entry point for the Sanovox medical
// voice agent pipeline. It reads utterances (from a demo transcript or from
// stdin), runs each through normalization and risk classification, and
// prints the cleaned text, the safety verdict, and the accumulated session
// state.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/sanovox/sanovox/internal/config"
	"github.com/sanovox/sanovox/internal/normalize"
	"github.com/sanovox/sanovox/internal/observe"
	"github.com/sanovox/sanovox/internal/orchestrator"
	"github.com/sanovox/sanovox/internal/safety"
	"github.com/sanovox/sanovox/pkg/recognizer"
	"github.com/sanovox/sanovox/pkg/recognizer/lexicon"
)

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "", "path to the YAML configuration file (optional)")
	demo := flag.Bool("demo", false, "process the built-in demo transcript and exit")
	flag.Parse()

	// ── Load configuration ────────────────────────────────────────────────────
	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "sanovox: %v\n", err)
			return 1
		}
		cfg = loaded
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	logger := newLogger(cfg.Server.LogLevel)
	slog.SetDefault(logger)

	slog.Info("sanovox starting",
		"config", *configPath,
		"metrics_addr", cfg.Server.MetricsAddr,
		"log_level", cfg.Server.LogLevel,
	)

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Telemetry ─────────────────────────────────────────────────────────────
	shutdownMetrics, err := observe.InitProvider(ctx, observe.ProviderConfig{})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownMetrics(shutdownCtx); err != nil {
			slog.Warn("telemetry shutdown error", "err", err)
		}
	}()

	// ── Pipeline wiring ───────────────────────────────────────────────────────
	agent, err := buildAgent(cfg)
	if err != nil {
		slog.Error("failed to build pipeline", "err", err)
		return 1
	}
	slog.Info("session started", "session_id", agent.SessionID())

	metrics := observe.DefaultMetrics()
	metrics.ActiveSessions.Add(ctx, 1)
	defer metrics.ActiveSessions.Add(context.Background(), -1)

	g, gctx := errgroup.WithContext(ctx)

	// ── Metrics endpoint (optional) ───────────────────────────────────────────
	if cfg.Server.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv := &http.Server{Addr: cfg.Server.MetricsAddr, Handler: mux}

		g.Go(func() error {
			slog.Info("metrics endpoint listening", "addr", cfg.Server.MetricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	// ── Utterance loop ────────────────────────────────────────────────────────
	g.Go(func() error {
		defer stop()
		if *demo {
			return processDemo(gctx, agent)
		}
		return processStdin(gctx, agent)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run error", "err", err)
		return 1
	}
	slog.Info("goodbye")
	return 0
}

// buildAgent assembles the recognizer, normalization pipeline, safety
// classifier, and orchestrator from cfg. A misconfigured lexicon is fatal.
func buildAgent(cfg *config.Config) (*orchestrator.Agent, error) {
	var recOpts []lexicon.Option
	if cfg.Recognizer.PhoneticMatching != nil {
		recOpts = append(recOpts, lexicon.WithPhoneticMatching(*cfg.Recognizer.PhoneticMatching))
	}
	if cfg.Recognizer.PhoneticThreshold != 0 {
		recOpts = append(recOpts, lexicon.WithPhoneticThreshold(cfg.Recognizer.PhoneticThreshold))
	}
	if len(cfg.Recognizer.ExtraTerms) > 0 {
		terms := make(map[string]recognizer.Label, len(cfg.Recognizer.ExtraTerms))
		for _, entry := range cfg.Recognizer.ExtraTerms {
			terms[entry.Term] = recognizer.Label(entry.Label)
		}
		recOpts = append(recOpts, lexicon.WithTerms(terms))
	}

	rec, err := lexicon.New(recOpts...)
	if err != nil {
		return nil, fmt.Errorf("build recognizer: %w", err)
	}

	cleaner := normalize.New(rec)
	classifier := safety.New(safety.WithQuestionGate(cfg.Safety.RequireQuestionContext))

	return orchestrator.New(cleaner, classifier,
		orchestrator.WithMetrics(observe.DefaultMetrics()),
	), nil
}

// demoTranscript exercises the pipeline end to end: noise markers,
// disfluencies, a medication self-correction, and escalating risk.
var demoTranscript = []string{
	"Um, so like, I've been taking, uh, Metformin for my diabetes",
	"I take Glucophage, no wait, Ibuprofen for it. [cough]",
	"My knee hurts... a lot when I, um, when I walk",
	"Can I take double my dose of, uh, Lisinopril?",
	"I have severe chest pain and I can't breathe",
}

// processDemo runs the built-in transcript through the agent.
func processDemo(ctx context.Context, agent *orchestrator.Agent) error {
	for _, line := range demoTranscript {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Printf("\n>>> %s\n", line)
		if err := processLine(ctx, agent, line); err != nil {
			return err
		}
	}
	printState(agent.State())
	return nil
}

// processStdin reads utterances line by line until EOF or shutdown.
func processStdin(ctx context.Context, agent *orchestrator.Agent) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- sc.Err()
	}()

	fmt.Println("Type an utterance and press Enter (Ctrl+D to quit):")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					if err != nil {
						return fmt.Errorf("read stdin: %w", err)
					}
				default:
				}
				printState(agent.State())
				return nil
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			if err := processLine(ctx, agent, line); err != nil {
				return err
			}
		}
	}
}

// processLine runs one utterance through the agent and prints the outcome.
func processLine(ctx context.Context, agent *orchestrator.Agent, line string) error {
	res, err := agent.Process(ctx, line)
	if err != nil {
		return err
	}

	fmt.Printf("cleaned : %s\n", res.CleanedText)
	for _, c := range res.Clean.Corrections {
		fmt.Printf("corrected: %q -> %q (%s)\n", c.Before, c.After, c.Method)
	}
	if len(res.Clean.DisfluenciesRemoved) > 0 {
		fmt.Printf("disfluencies: %s\n", strings.Join(res.Clean.DisfluenciesRemoved, ", "))
	}
	fmt.Printf("risk    : %s (%s)\n", res.Safety.Level, res.Safety.Reason)
	if !res.ShouldRespond {
		fmt.Printf("response: %s\n", res.Safety.Message)
	}
	return nil
}

// printState prints the final session summary.
func printState(state orchestrator.StateSnapshot) {
	fmt.Println("\n── session summary ──")
	fmt.Printf("turns       : %d\n", state.TurnCount)
	fmt.Printf("medications : %s\n", orJoin(state.Medications))
	fmt.Printf("symptoms    : %s\n", orJoin(state.Symptoms))
	fmt.Printf("conditions  : %s\n", orJoin(state.Conditions))
}

func orJoin(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}

// ── Logger ─────────────────────────────────────────────────────────────────────

func newLogger(level config.LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogDebug:
		lvl = slog.LevelDebug
	case config.LogWarn:
		lvl = slog.LevelWarn
	case config.LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
