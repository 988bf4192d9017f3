package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog/log"
	catalogx "github.com/tanpawarit/Chative-Parts-Finder/agent/catalog"
	promptx "github.com/tanpawarit/Chative-Parts-Finder/agent/prompt"
	configx "github.com/tanpawarit/Chative-Parts-Finder/pkg/config"
	logx "github.com/tanpawarit/Chative-Parts-Finder/pkg/logger"
	_ "github.com/tanpawarit/Chative-Parts-Finder/pkg/logger/autoload"
	sourcex "github.com/tanpawarit/Chative-Parts-Finder/pkg/source"
	"golang.org/x/term"
)

type AppConfig struct {
	SessionTTL time.Duration `split_words:"true"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()
	m.Interactive = term.IsTerminal(int(os.Stdin.Fd()))

	if err := m.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main is the program. Fields may be set before calling Run.
type Main struct {
	// Interactive enables the "You: " prompt.
	Interactive bool

	// SourceConfig overrides the PARTSBOT_SOURCE_* environment.
	SourceConfig *sourcex.Config

	// AppConfig overrides the PARTSBOT_* environment.
	AppConfig *AppConfig
}

func NewMain() *Main {
	return &Main{}
}

// Run parses args, loads the catalog, and runs the selected command. Data
// load failures are logged and leave the affected tables empty.
func (m *Main) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("partsbot"),
		kong.Description("Find appliance parts by model number and description."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.UsageOnError(),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) > 0 && (args[0] == "help" || args[0] == "--help" || args[0] == "-h") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	configx.SetEnvFile(cli.Env)
	initLogger(stderr)

	appCfg, srcCfg, err := m.loadConfig()
	if err != nil {
		return err
	}

	replies, err := promptx.LoadReplySet()
	if err != nil {
		return err
	}

	src := openSource(ctx, *srcCfg)
	defer func() {
		if err := sourcex.Close(src); err != nil {
			log.Warn().Err(err).Msg("close data source")
		}
	}()

	res := catalogx.Load(ctx, src)
	for _, loadErr := range res.Errors {
		log.Error().Err(loadErr).Msg("error loading data")
	}

	deps := &Dependencies{
		Ctx:         ctx,
		Stdin:       stdin,
		Stdout:      stdout,
		Stderr:      stderr,
		Catalog:     res.Catalog,
		Replies:     replies,
		SessionTTL:  appCfg.SessionTTL,
		Interactive: m.Interactive,
	}
	return kongCtx.Run(deps)
}

func (m *Main) loadConfig() (*AppConfig, *sourcex.Config, error) {
	appCfg := m.AppConfig
	if appCfg == nil {
		cfg, err := configx.New[AppConfig]("PARTSBOT")
		if err != nil {
			return nil, nil, fmt.Errorf("load app config: %w", err)
		}
		appCfg = cfg
	}

	srcCfg := m.SourceConfig
	if srcCfg == nil {
		cfg, err := configx.New[sourcex.Config]("PARTSBOT_SOURCE")
		if err != nil {
			return nil, nil, fmt.Errorf("load source config: %w", err)
		}
		srcCfg = cfg
	}
	return appCfg, srcCfg, nil
}

// initLogger re-reads LOG_* once the env file is known.
func initLogger(w io.Writer) {
	logx.Output = w
	conf, err := configx.New[logx.Config]("LOG")
	if err != nil {
		logx.Init()
		log.Warn().Err(err).Msg("load logger config, using defaults")
		return
	}
	logx.Init(*conf)
}

// openSource returns nil when the source cannot be opened; catalog.Load then
// reports both tables as failed.
func openSource(ctx context.Context, cfg sourcex.Config) catalogx.Source {
	if cfg.Kind == sourcex.KindRemote {
		log.Info().Str("url", cfg.URL).Msg("fetching parts workbook from remote document store")
	}

	src, err := sourcex.Open(ctx, cfg)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Warn().Err(err).Msg("data source setup cancelled")
		} else {
			log.Error().Err(err).Str("kind", cfg.Kind).Msg("error setting up data source")
		}
		return nil
	}
	return src
}
