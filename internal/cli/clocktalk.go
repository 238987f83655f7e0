package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/kickingvegas/clocktalk/internal/config"
	"github.com/kickingvegas/clocktalk/internal/defaults"
	"github.com/kickingvegas/clocktalk/internal/prefs"
	"github.com/kickingvegas/clocktalk/internal/render"
	logx "github.com/kickingvegas/clocktalk/pkg/logx"
)

const ClocktalkVersion = "0.1.2"

// debugCopyName is the plist kept in the working directory by -debug.
const debugCopyName = "temp.plist"

// Clocktalk is the clocktalk command.
type Clocktalk struct {
	Stdout, Stderr io.Writer
	Env            config.Env
	// ConfigPath is the config file used when -config is not given.
	ConfigPath string
	// Runner executes defaults(1); ExecRunner when nil.
	Runner defaults.Runner
	// Log overrides the logger built from config.
	Log logx.Logger
}

type clocktalkOptions struct {
	configPath string
	debug      bool
	enable     bool
	period     prefs.Period
	read       bool
	rate       string
	volume     string
	execute    bool
	format     render.Format
	version    bool
}

func (c *Clocktalk) flagSet(o *clocktalkOptions) *flag.FlagSet {
	fs := flag.NewFlagSet("clocktalk", flag.ContinueOnError)
	fs.SetOutput(c.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: clocktalk [flags]\n\n"+
			"Command line utility to configure and enable periodic macOS time announcements.\n\n")
		fs.PrintDefaults()
		fmt.Fprintf(fs.Output(), "\nThis is a wrapper around the command line tool `defaults` to configure\nthe domain `%s`.\n", prefs.Domain)
	}

	o.period = prefs.Hour
	o.format = render.JSON

	fs.StringVar(&o.configPath, "config", c.ConfigPath, "path to config file (json or yaml)")
	boolVar(fs, &o.debug, "d", "debug", "debug mode; "+debugCopyName+" will be created if -execute is present")
	boolVar(fs, &o.enable, "e", "enable", "enable periodic time announcements (default is disabled if not present)")
	valueVar(fs, &o.period, "p", "period", "period to announce time: "+strings.Join(prefs.PeriodNames(), ", "))
	boolVar(fs, &o.read, "r", "read", "read current configuration (all other arguments ignored)")
	stringVar(fs, &o.rate, "R", "rate", "", "set speech rate from 0.5 to 2.0 (disabled if not present)")
	boolVar(fs, &o.version, "v", "version", "print version information and exit")
	stringVar(fs, &o.volume, "V", "volume", "0.5", "set volume from 0.3 to 1.0")
	boolVar(fs, &o.execute, "x", "execute", "when present, execute the actual `defaults` command")
	valueVar(fs, &o.format, "f", "format", "dry-run output format: json, xml, binary, openstep")
	return fs
}

// Run executes clocktalk with args (without the program name) and returns
// the exit status.
func (c *Clocktalk) Run(ctx context.Context, args []string) int {
	var o clocktalkOptions
	fs := c.flagSet(&o)
	if err := parseFlags(fs, args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitOK
		}
		return reportError(c.Stderr, err)
	}
	if o.version {
		fmt.Fprintln(c.Stdout, ClocktalkVersion)
		return ExitOK
	}
	if fs.NArg() > 0 {
		return reportError(c.Stderr, &UsageError{Err: fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))})
	}

	cfg, err := config.Load(o.configPath, c.Env)
	if err != nil {
		return reportError(c.Stderr, err)
	}
	log, closeLog, err := c.logger(cfg, o.debug)
	if err != nil {
		return reportError(c.Stderr, err)
	}
	defer func() { _ = closeLog.Close() }()

	store := &defaults.Store{
		Command: cfg.Defaults.Command,
		Domain:  prefs.Domain,
		Runner:  c.Runner,
		TempDir: cfg.Defaults.TempDir,
		Log:     log,
		Stdout:  c.Stdout,
		Stderr:  c.Stderr,
	}

	if o.read || len(args) == 0 {
		if err := store.Read(ctx); err != nil {
			log.Debug("read failed", logx.Err(err))
			return reportError(c.Stderr, err)
		}
		return ExitOK
	}

	if err := c.write(ctx, log, store, o); err != nil {
		log.Debug("clocktalk failed", logx.Err(err))
		return reportError(c.Stderr, err)
	}
	return ExitOK
}

func (c *Clocktalk) write(ctx context.Context, log logx.Logger, store *defaults.Store, o clocktalkOptions) error {
	volume, err := prefs.VolumeRange.Parse("volume", o.volume)
	if err != nil {
		return err
	}
	rate, err := parseOptionalFloat(prefs.RateRange, "rate", o.rate)
	if err != nil {
		return err
	}

	doc, err := prefs.Build(prefs.Settings{Enabled: o.enable, Period: o.period, Volume: volume, Rate: rate})
	if err != nil {
		return err
	}
	log.Debug("built preferences",
		logx.Bool("enabled", o.enable),
		logx.String("interval", o.period.Identifier()),
		logx.Float64("volume", volume),
	)

	if !o.execute {
		return render.Write(c.Stdout, doc, o.format)
	}

	var opts defaults.ImportOptions
	if o.debug {
		opts.KeepCopy = filepath.Join(c.Env.Cwd, debugCopyName)
	}
	if err := store.Import(ctx, doc, opts); err != nil {
		return err
	}
	log.Info("imported preferences", logx.String("domain", prefs.Domain))
	return nil
}

func (c *Clocktalk) logger(cfg *config.Config, debug bool) (logx.Logger, io.Closer, error) {
	return buildLogger(c.Log, c.Stderr, cfg, debug, "clocktalk")
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// buildLogger returns override when set; otherwise it builds the configured
// logger with its console on stderr, the command's error stream.
func buildLogger(override logx.Logger, stderr io.Writer, cfg *config.Config, debug bool, cmd string) (logx.Logger, io.Closer, error) {
	log := override
	var closer io.Closer = nopCloser{}
	if log.IsZero() {
		var err error
		log, closer, err = logx.New(logx.Config{
			Level:   cfg.Logging.Level,
			Console: cfg.Logging.ConsoleEnabled(),
			Out:     stderr,
			File:    logx.FileConfig{Enabled: cfg.Logging.File.Enabled, Path: cfg.Logging.File.Path},
		})
		if err != nil {
			return logx.Nop(), nopCloser{}, err
		}
	}
	if debug {
		log = log.WithLevel(logx.LevelDebug)
	}
	return log.With(logx.String("cmd", cmd)), closer, nil
}
