// Command iqsynth generates baseband I/Q for one modulation run and writes
// it to stdout, a file or a HackRF.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/tphakala/go-baseband"
	"github.com/tphakala/go-baseband/internal/config"
	"github.com/tphakala/go-baseband/internal/logging"
	"github.com/tphakala/go-baseband/internal/monitor"
	"github.com/tphakala/go-baseband/internal/sink"
)

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "iqsynth: %v\n", err)
		if errors.Is(err, errUsage) || errors.Is(err, config.ErrInvalidConfig) || errors.Is(err, baseband.ErrInvalidConfig) {
			os.Exit(exitUsage)
		}
		os.Exit(exitFailure)
	}
}

type options struct {
	configPath  string
	modulation  string
	format      string
	output      string
	callsign    string
	destination string
	path        string
	position    []float64
	monitor     bool
	verbose     bool
}

func parseFlags(args []string, stderr io.Writer) (*pflag.FlagSet, *options, error) {
	opts := &options{}
	fs := pflag.NewFlagSet("iqsynth", pflag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVarP(&opts.configPath, "config", "c", config.DefaultPath, "YAML configuration file.")
	fs.StringVarP(&opts.modulation, "modulation", "m", "", "Modulation: "+schemeNames()+".")
	fs.StringVarP(&opts.format, "format", "f", "", "Sample format: s8, f32 or pcm.")
	fs.StringVarP(&opts.output, "output", "o", "", "stdout, hackrf, file:<path> or a path. strftime verbs such as %Y%m%d are expanded.")
	fs.StringVar(&opts.callsign, "callsign", "", "APRS source callsign with optional SSID.")
	fs.StringVar(&opts.destination, "destination", "", "APRS destination.")
	fs.StringVar(&opts.path, "path", "", "APRS digipeater path, comma separated.")
	fs.Float64SliceVar(&opts.position, "position", nil, "APRS position as lat,lon in decimal degrees. The data becomes the comment.")
	fs.BoolVar(&opts.monitor, "monitor", false, "Play the modulating audio locally before output.")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "Debug logging.")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "iqsynth generates complex baseband for SDR transmission.\n\n")
		fmt.Fprintf(stderr, "Usage: iqsynth [OPTION]... [DATA]\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nDATA is str:<bits> or file:<path> for gfsk/qpsk, the info field for aprs\n")
		fmt.Fprintf(stderr, "and the text for fm/voice. It overrides general.data from the config.\n\n")
		fmt.Fprintf(stderr, "Examples:\n\n")
		fmt.Fprintf(stderr, "$ iqsynth -m gfsk -f s8 -o out.s8 str:10110011\n")
		fmt.Fprintf(stderr, "$ iqsynth -m aprs --callsign N0CALL-9 --position 49.0583,-72.0292 -o hackrf 'Test'\n")
	}

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	if fs.NArg() > 1 {
		return nil, nil, fmt.Errorf("%w: expected at most one DATA argument, got %d", errUsage, fs.NArg())
	}
	if fs.Changed("position") && len(opts.position) != positionFields {
		return nil, nil, fmt.Errorf("%w: --position wants lat,lon", errUsage)
	}
	return fs, opts, nil
}

// loadConfig reads the configuration and applies the flags over it.
func loadConfig(fs *pflag.FlagSet, opts *options) (*config.Config, error) {
	if fs.Changed("config") {
		if _, err := os.Stat(opts.configPath); err != nil {
			return nil, fmt.Errorf("%w: %w", errUsage, err)
		}
	}
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	set := func(name string, dst *string, val string) {
		if fs.Changed(name) {
			*dst = val
		}
	}
	set("modulation", &cfg.General.Modulation, opts.modulation)
	set("format", &cfg.General.Format, opts.format)
	set("output", &cfg.General.Output, opts.output)
	set("callsign", &cfg.APRS.Callsign, opts.callsign)
	set("destination", &cfg.APRS.Destination, opts.destination)
	set("path", &cfg.APRS.Path, opts.path)
	if fs.NArg() == 1 {
		cfg.General.Data = fs.Arg(0)
	}
	if opts.verbose {
		cfg.General.Debug = true
	}

	if len(opts.position) == positionFields {
		pos, err := baseband.FormatPosition(opts.position[0], opts.position[1])
		if err != nil {
			return nil, err
		}
		cfg.General.Data = pos + cfg.General.Data
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs, opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(fs, opts)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LoggingConfig(), stderr)
	if err != nil {
		return fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	if cfg.Source == "" {
		logger.Debug("no config file, using defaults", "path", opts.configPath)
	} else {
		logger.Debug("config loaded", "path", cfg.Source)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	req, err := cfg.Request()
	if err != nil {
		return err
	}
	req.Logger = logger

	out, err := cfg.Output(time.Now())
	if err != nil {
		return err
	}

	if opts.monitor {
		playMonitor(ctx, &req, logger)
	}

	start := time.Now()
	switch out.Kind {
	case config.OutputHackRF:
		return transmit(ctx, cfg, req, logger)
	case config.OutputFile:
		return writeFile(ctx, out.Path, req, logger, start)
	default:
		res, err := baseband.Generate(ctx, req, stdout)
		if err != nil {
			return err
		}
		logResult(logger, res, "stdout", start)
		return nil
	}
}

func playMonitor(ctx context.Context, req *baseband.Request, logger *log.Logger) {
	a, err := req.Audio(ctx)
	if err != nil {
		logger.Warn("monitor skipped", "err", err)
		return
	}
	logger.Info("monitoring", "duration", a.Duration().Round(time.Millisecond), "rate", a.SampleRate)
	if err := monitor.Play(ctx, a); err != nil {
		logger.Warn("monitor failed", "err", err)
	}
}

func writeFile(ctx context.Context, path string, req baseband.Request, logger *log.Logger, start time.Time) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, outputFileMode)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output: %w", cerr)
		}
	}()

	res, err := baseband.Generate(ctx, req, f)
	if err != nil {
		return err
	}
	logResult(logger, res, path, start)
	return nil
}

func transmit(ctx context.Context, cfg *config.Config, req baseband.Request, logger *log.Logger) error {
	samples, err := baseband.Synthesize(ctx, req)
	if err != nil {
		return err
	}

	dev := cfg.Device()
	if rate := req.OutputRate(); rate > 0 && rate != dev.SampleRate {
		logger.Info("using baseband sample rate for transmit", "configured", dev.SampleRate, "rate", rate)
		dev.SampleRate = rate
	}

	hackrf := sink.NewHackRF(logger)
	hackrf.Binary = cfg.HackRF.Binary
	hackrf.Repeat = cfg.HackRF.Repeat

	logger.Info("transmitting",
		"scheme", req.Scheme,
		"samples", len(samples),
		"frequency", dev.CenterFrequency,
		"rate", dev.SampleRate,
		"repeat", hackrf.Repeat)
	if hackrf.Repeat {
		logger.Info("press Ctrl-C to stop")
	}
	return hackrf.Transmit(ctx, samples, dev)
}

func logResult(logger *log.Logger, res baseband.Result, dest string, start time.Time) {
	logger.Info("done",
		"scheme", res.Scheme,
		"output", dest,
		"samples", res.Samples,
		"bytes", res.Bytes,
		"duration", res.Duration().Round(time.Millisecond),
		"elapsed", time.Since(start).Round(time.Millisecond))
}

// schemeNames lists the modulations for help output.
func schemeNames() string {
	names := make([]string, 0, len(baseband.Schemes()))
	for _, s := range baseband.Schemes() {
		names = append(names, s.String())
	}
	return strings.Join(names, ", ")
}
