package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/pavanmanishd/framearena"
)

// globals holds the flags shared by every command. The arena flags come from
// framearena.Config.RegisterFlags and are bound into kingpin, so the command
// and the library agree on names and defaults.
type globals struct {
	configFile string
	logLevel   string

	cfg       framearena.Config
	arena     *flag.FlagSet
	setByUser map[string]*bool
}

func (g *globals) register(app *kingpin.Application) {
	app.Flag("config.file", "YAML file holding the arena config.").StringVar(&g.configFile)
	app.Flag("log.level", "Only log messages with the given severity or above.").Default("info").EnumVar(&g.logLevel, "debug", "info", "warn", "error")

	g.arena = flag.NewFlagSet("arena", flag.ContinueOnError)
	g.cfg.RegisterFlags("", g.arena)
	g.setByUser = map[string]*bool{}
	g.arena.VisitAll(func(f *flag.Flag) {
		set := new(bool)
		g.setByUser[f.Name] = set
		app.Flag(f.Name, f.Usage).Default(f.DefValue).IsSetByUser(set).SetValue(f.Value)
	})
}

// config merges the config file with flags; flags given on the command line
// win over the file.
func (g *globals) config() (framearena.Config, error) {
	if g.configFile == "" {
		return g.cfg, nil
	}
	explicit := map[string]string{}
	g.arena.VisitAll(func(f *flag.Flag) {
		if *g.setByUser[f.Name] {
			explicit[f.Name] = f.Value.String()
		}
	})
	buf, err := os.ReadFile(g.configFile)
	if err != nil {
		return g.cfg, errors.Wrap(err, "reading config file")
	}
	if err := yaml.Unmarshal(buf, &g.cfg); err != nil {
		return g.cfg, errors.Wrapf(err, "parsing config file %s", g.configFile)
	}
	for name, value := range explicit {
		if err := g.arena.Set(name, value); err != nil {
			return g.cfg, errors.Wrapf(err, "reapplying --%s", name)
		}
	}
	return g.cfg, nil
}

func (g *globals) logger() log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = level.NewFilter(logger, level.Allow(level.ParseDefault(g.logLevel, level.InfoValue())))
	return log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
}

// options builds the arena options for a command run. validate checks the
// merged config against the element type the command is about to store, so
// a bad block size is reported instead of panicking in the constructor.
func (g *globals) options(validate func(framearena.Config) error) (int, []framearena.Option, error) {
	cfg, err := g.config()
	if err != nil {
		return 0, nil, err
	}
	if err := validate(cfg); err != nil {
		return 0, nil, err
	}
	opts := append(cfg.Options(), framearena.WithLogger(g.logger()))
	return int(cfg.BlockSize.Bytes()), opts, nil
}

func main() {
	app := kingpin.New("framedump", "Exercise frame arenas and dump their contents.")
	g := &globals{}
	g.register(app)
	addScenarioCommand(app, g)
	addValuesCommand(app, g)

	if _, err := app.Parse(os.Args[1:]); err != nil {
		exitWithErr(err)
	}
}

func exitWithErr(err error) {
	fmt.Fprintln(os.Stderr, err.Error())
	os.Exit(1)
}
