// Command demo replays a scenario script against a traffic light machine
// and logs every state change.
package main

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/comalice/tinyfsm"
	"github.com/comalice/tinyfsm/internal/config"
	"github.com/comalice/tinyfsm/internal/logger"
	"github.com/comalice/tinyfsm/internal/script"
	"github.com/comalice/tinyfsm/internal/visualize"
	"github.com/comalice/tinyfsm/source"
	"github.com/comalice/tinyfsm/trace"
)

//go:embed scenario.yaml
var defaultScenario []byte

// Config is read from the environment and an optional .env file.
type Config struct {
	Env       string `env:"TINYFSM_ENV" envDefault:"development"`
	LogLevel  string `env:"TINYFSM_LOG_LEVEL"`
	LogFormat string `env:"TINYFSM_LOG_FORMAT"`
	Script    string `env:"TINYFSM_SCRIPT"`
	Trace     bool   `env:"TINYFSM_TRACE" envDefault:"true"`
	DOT       string `env:"TINYFSM_DOT"`     // file to write the graph to, "-" for stdout
	Metrics   bool   `env:"TINYFSM_METRICS"` // print counters in Prometheus text format

	// Timer commands fired after the scenario.
	Ticks        int           `env:"TINYFSM_TICKS" envDefault:"0"`
	TickInterval time.Duration `env:"TINYFSM_TICK_INTERVAL" envDefault:"500ms"`
}

func main() {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, cfg, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(cfg Config, out io.Writer) (*slog.Logger, error) {
	opts := []logger.Option{logger.WithEnvironment(cfg.Env, "tinyfsm-demo"), logger.WithOutput(out)}
	if cfg.LogLevel != "" {
		level, err := logger.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		opts = append(opts, logger.WithLevel(level))
	}
	if cfg.LogFormat != "" {
		f := logger.Format(cfg.LogFormat)
		if f != logger.FormatJSON && f != logger.FormatText {
			return nil, fmt.Errorf("invalid log format %q", cfg.LogFormat)
		}
		opts = append(opts, logger.WithFormat(f))
	}
	return logger.New(opts...), nil
}

func loadScenario(path string) (*script.Script, error) {
	if path == "" {
		return script.Parse(defaultScenario, script.FormatYAML)
	}
	return script.Load(path)
}

func run(ctx context.Context, cfg Config, out io.Writer) error {
	log, err := newLogger(cfg, out)
	if err != nil {
		return err
	}

	scn, err := loadScenario(cfg.Script)
	if err != nil {
		return fmt.Errorf("load scenario: %w", err)
	}

	light, err := newTrafficLight(log)
	if err != nil {
		return fmt.Errorf("build machine: %w", err)
	}
	initial := Red
	if scn.Initial != "" {
		if initial, err = states.Resolve(scn.Initial); err != nil {
			return err
		}
	}

	rec := trace.NewRecorder(tinyfsm.PhaseStateChanged)
	sinks := []tinyfsm.TraceSink{rec}
	if cfg.Trace {
		sinks = append(sinks, trace.NewLogger(log, trace.WithStateNames(light.StateName)))
	}
	reg := prometheus.NewRegistry()
	if cfg.Metrics {
		m, err := trace.NewMetrics(reg, light.StateName, prometheus.Labels{"machine": "traffic-light"})
		if err != nil {
			return err
		}
		sinks = append(sinks, m)
	}
	engine, err := tinyfsm.New(light.table, initial, tinyfsm.WithTrace(trace.Multi(sinks...)))
	if err != nil {
		return err
	}

	log.Info("running scenario", slog.String("scenario", scn.Name), slog.Int("steps", len(scn.Steps)))
	if err := scn.Run(engine, states); err != nil {
		return fmt.Errorf("scenario %s: %w", scn.Name, err)
	}
	log.Info("scenario complete",
		slog.String("scenario", scn.Name),
		logger.State("state", light.StateName(engine.CurrentState())),
		slog.Int("transitions", len(rec.Events())))

	if cfg.Ticks > 0 {
		timer := source.NewTimer(script.Command{Name: "timer"}, cfg.TickInterval, cfg.Ticks)
		err := source.Pump(ctx, engine, timer.Events())
		timer.Stop()
		if err != nil {
			return fmt.Errorf("timer: %w", err)
		}
		log.Info("timer done", slog.Int("ticks", cfg.Ticks), logger.State("state", light.StateName(engine.CurrentState())))
	}

	if cfg.Metrics {
		if err := writeMetrics(out, reg); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}

	if cfg.DOT == "" {
		return nil
	}
	v := &visualize.Visualizer{Names: light.StateName}
	dot := v.ExportDOT(engine.Table(), engine.CurrentState(), visualize.Edges(rec.Events()))
	if cfg.DOT == "-" {
		_, err = io.WriteString(out, dot)
		return err
	}
	return os.WriteFile(cfg.DOT, []byte(dot), 0o644)
}

func writeMetrics(out io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(out, mf); err != nil {
			return err
		}
	}
	return nil
}
