package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kickingvegas/clocktalk/internal/config"
	"github.com/kickingvegas/clocktalk/internal/launchd"
	"github.com/kickingvegas/clocktalk/internal/prefs"
	"github.com/kickingvegas/clocktalk/internal/render"
	logx "github.com/kickingvegas/clocktalk/pkg/logx"
)

const GenClocktalkdVersion = "0.1.0"

// GenClocktalkd is the genclocktalkd command.
type GenClocktalkd struct {
	Stdout, Stderr io.Writer
	Env            config.Env
	ConfigPath     string
	Log            logx.Logger
	// Now is used for the next-fire log line; time.Now when nil.
	Now func() time.Time
}

type genOptions struct {
	configPath string
	times      listFlag
	workdir    string
	clocktalk  string
	label      string
	period     prefs.Period
	enable     bool
	volume     string
	execute    bool
	json       bool
	outdir     string
	verbose    bool
	version    bool
}

func (g *GenClocktalkd) flagSet(o *genOptions) *flag.FlagSet {
	fs := flag.NewFlagSet("genclocktalkd", flag.ContinueOnError)
	fs.SetOutput(g.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: genclocktalkd -l label -t HH:MM [-t HH:MM ...] [flags] [HH:MM ...]\n\n"+
			"Command line utility to generate a `launchd` script to schedule `clocktalk`.\n\n")
		fs.PrintDefaults()
		fmt.Fprintln(fs.Output(), "\nThis utility will create a `launchd` script <label>.plist to invoke the `clocktalk` utility.")
	}

	o.period = prefs.Hour

	fs.StringVar(&o.configPath, "config", g.ConfigPath, "path to config file (json or yaml)")
	boolVar(fs, &o.version, "v", "version", "print version information and exit")
	valueVar(fs, &o.times, "t", "time", "24-hour time stamp (HH:MM); repeat or comma separate for multiple times")
	stringVar(fs, &o.workdir, "w", "workdir", "", "work directory to run `launchd` script (default is your current directory)")
	stringVar(fs, &o.clocktalk, "P", "path-to-clocktalk", "", "full path to `clocktalk` (default is $HOME/bin/clocktalk)")
	stringVar(fs, &o.label, "l", "label", "", "`launchd` label (required)")
	valueVar(fs, &o.period, "p", "period", "`clocktalk` argument: period to announce time: "+strings.Join(prefs.PeriodNames(), ", "))
	boolVar(fs, &o.enable, "e", "enable", "`clocktalk` argument: enable periodic time announcements")
	stringVar(fs, &o.volume, "V", "volume", "0.5", "`clocktalk` argument: set volume from 0.0 to 1.0")
	boolVar(fs, &o.execute, "x", "execute", "`clocktalk` argument: when present, execute the actual `defaults` command")
	boolVar(fs, &o.json, "j", "json", "output json to stdout")
	stringVar(fs, &o.outdir, "o", "outdir", "", "directory to write <label>.plist (default is your current directory)")
	boolVar(fs, &o.verbose, "d", "debug", "debug logging")
	return fs
}

// Run executes genclocktalkd with args (without the program name) and
// returns the exit status.
func (g *GenClocktalkd) Run(ctx context.Context, args []string) int {
	var o genOptions
	fs := g.flagSet(&o)
	// Positional arguments are extra time stamps and may sit between flags:
	// -t 07:00 08:30 -l morning.
	err := parseInterleaved(fs, args, func(a string) { _ = o.times.Set(a) })
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitOK
		}
		return reportError(g.Stderr, err)
	}
	if o.version {
		fmt.Fprintln(g.Stdout, GenClocktalkdVersion)
		return ExitOK
	}

	cfg, err := config.Load(o.configPath, g.Env)
	if err != nil {
		return reportError(g.Stderr, err)
	}
	log, closeLog, err := buildLogger(g.Log, g.Stderr, cfg, o.verbose, "genclocktalkd")
	if err != nil {
		return reportError(g.Stderr, err)
	}
	defer func() { _ = closeLog.Close() }()

	if err := g.generate(ctx, log, cfg, o); err != nil {
		log.Debug("genclocktalkd failed", logx.Err(err))
		return reportError(g.Stderr, err)
	}
	return ExitOK
}

func (g *GenClocktalkd) generate(ctx context.Context, log logx.Logger, cfg *config.Config, o genOptions) error {
	volume, err := parseOptionalFloat(prefs.LegacyVolumeRange, "volume", o.volume)
	if err != nil {
		return err
	}
	if volume != nil && !prefs.VolumeRange.Contains(*volume) {
		log.Warn("clocktalk will reject this volume",
			logx.Float64("volume", *volume),
			logx.String("accepted", prefs.VolumeRange.String()),
		)
	}

	req := launchd.Request{
		Times:      o.times,
		Executable: firstNonEmpty(o.clocktalk, cfg.Launchd.ClocktalkPath),
		WorkDir:    firstNonEmpty(o.workdir, cfg.Launchd.WorkDir),
		Label:      o.label,
		Invocation: launchd.Invocation{
			Execute: o.execute,
			Enable:  o.enable,
			Period:  o.period,
			Volume:  volume,
		},
	}
	d, err := launchd.Generate(req)
	if err != nil {
		return err
	}
	g.logNextFire(log, d)

	if o.json {
		if err := render.Write(g.Stdout, d, render.JSON); err != nil {
			return err
		}
	}

	// Interrupted before the job is written: leave no file behind.
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := launchd.WriteFile(firstNonEmpty(o.outdir, cfg.Launchd.OutDir), d)
	if err != nil {
		return err
	}
	log.Info("wrote launchd job", logx.String("path", path), logx.String("label", d.Label))
	return nil
}

func (g *GenClocktalkd) logNextFire(log logx.Logger, d launchd.Descriptor) {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	next, err := launchd.NextFire(d.StartCalendarInterval, now())
	if err != nil {
		// Written anyway; launchd has the final say on odd times.
		log.Warn("time stamp outside the 24-hour clock", logx.Err(err))
		return
	}
	log.Info("next announcement run", logx.Time("at", next))
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
