package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/twisty/config"
	"github.com/domino14/twisty/coord"
	"github.com/domino14/twisty/engine"
	"github.com/domino14/twisty/puzzle"
	"github.com/domino14/twisty/tables"
)

var (
	GitVersion string
)

const usage = `usage: twisty [flags] <command>

commands:
  list     list the built-in puzzles
  build    build the transposition tables of --puzzle
  check    build the tables and verify them against the generators
  bfs      search the whole state space of --puzzle in memory
`

func main() {
	os.Exit(twisty())
}

func twisty() int {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprint(os.Stderr, usage)
		return 2
	}

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	output.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("%s:", i)
	}
	var logger zerolog.Logger
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		logger = zerolog.New(output).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		logger = zerolog.New(output).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	}
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
	log.Debug().Str("version", GitVersion).Interface("settings", cfg.SanitizedSettings()).Msg("loaded-config")

	if cfg.GetString(config.ConfigCPUProfile) != "" {
		f, err := os.Create(cfg.GetString(config.ConfigCPUProfile))
		if err != nil {
			panic("could not create CPU profile: " + err.Error())
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			panic("could not start CPU profile: " + err.Error())
		}
		defer pprof.StopCPUProfile()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Info().Msg("got quit signal...")
		} else {
			log.Err(err).Msg("twisty-failed")
		}
		return 1
	}
	return 0
}

func run(ctx context.Context, cfg *config.Config) error {
	args := cfg.Args()
	if len(args) != 1 {
		fmt.Fprint(os.Stderr, usage)
		return errors.New("expected exactly one command")
	}
	switch args[0] {
	case "list":
		return list()
	case "build":
		_, err := buildTables(ctx, cfg)
		return err
	case "check":
		set, err := buildTables(ctx, cfg)
		if err != nil {
			return err
		}
		return engine.SelfCheck(set, cfg.GetInt(config.ConfigSelfCheckSamples))
	case "bfs":
		return bfs(ctx, cfg)
	}
	fmt.Fprint(os.Stderr, usage)
	return fmt.Errorf("unknown command %q", args[0])
}

func list() error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PUZZLE\tSTATES\tMETRICS\tDESCRIPTION")
	for _, name := range puzzle.BuiltinNames() {
		p, err := puzzle.Load(name)
		if err != nil {
			return err
		}
		codec, err := coord.NewCodec(p)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", name, codec.Size(),
			strings.Join(p.MetricNames(), ","), strings.TrimSpace(p.Description()))
	}
	return w.Flush()
}

func loadCodec(cfg *config.Config) (*coord.Codec, error) {
	var p *puzzle.Puzzle
	var err error
	if path := cfg.GetString(config.ConfigDefinitionPath); path != "" {
		p, err = puzzle.LoadFile(path)
	} else {
		p, err = puzzle.Load(cfg.GetString(config.ConfigPuzzle))
	}
	if err != nil {
		return nil, err
	}
	return coord.NewCodec(p)
}

func buildTables(ctx context.Context, cfg *config.Config) (*tables.Set, error) {
	codec, err := loadCodec(cfg)
	if err != nil {
		return nil, err
	}
	if err := tables.CheckMemory(codec, cfg.GetFloat64(config.ConfigMemoryFraction)); err != nil {
		return nil, err
	}
	b := &tables.Builder{Threads: cfg.GetInt(config.ConfigThreads)}
	return b.Build(ctx, codec)
}

func bfs(ctx context.Context, cfg *config.Config) error {
	set, err := buildTables(ctx, cfg)
	if err != nil {
		return err
	}
	exp, err := engine.NewExpander(set, cfg.GetString(config.ConfigMetric))
	if err != nil {
		return err
	}
	settings := engine.NewSettings(set.Codec(), exp.Metric())
	logDepth := settings.LogDepth
	if d := cfg.GetInt(config.ConfigLogDepth); d >= 0 {
		logDepth = d
	}
	callbacks := engine.Callbacks{
		&engine.LogCallback{MinDepth: logDepth, Codec: set.Codec(), Level: zerolog.InfoLevel},
	}
	if url := cfg.GetString(config.ConfigNatsURL); url != "" {
		nc, err := engine.NewNATSCallback(url, cfg.GetString(config.ConfigNatsSubject),
			set.Codec().Puzzle().Name(), logDepth)
		if err != nil {
			return err
		}
		nc.Attempts = uint(max(cfg.GetInt(config.ConfigNatsAttempts), 0))
		defer nc.Close()
		callbacks = append(callbacks, nc)
	}
	log.Info().Str("puzzle", set.Codec().Puzzle().Name()).Str("metric", exp.Metric()).
		Int("width", exp.Width()).Uint64("state-size", settings.StateSize).Msg("starting-bfs")

	res, err := engine.Search(ctx, exp, settings, callbacks, cfg.GetInt(config.ConfigThreads))
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "DEPTH\tSTATES\t")
	for d, n := range res.Depths {
		fmt.Fprintf(w, "%d\t%d\t\n", d, n)
	}
	fmt.Fprintf(w, "total\t%d\t\n", res.Total)
	return w.Flush()
}
