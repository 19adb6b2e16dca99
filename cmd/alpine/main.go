package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/funvibe/alpine/internal/analyzer"
	"github.com/funvibe/alpine/internal/ast"
	"github.com/funvibe/alpine/internal/astio"
	"github.com/funvibe/alpine/internal/config"
	"github.com/funvibe/alpine/internal/pipeline"
	"github.com/funvibe/alpine/internal/prettyprinter"
	"github.com/funvibe/alpine/internal/symbols"
	"github.com/funvibe/alpine/internal/typesystem"
	"github.com/funvibe/alpine/internal/utils"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"
)

var version = "0.1.0"

func analysisFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Usage: "path to alpine.yaml (default: searched upwards from the first file)"},
		&cli.DurationFlag{Name: "timeout", Usage: "wall-clock budget of one solve, 0 for none"},
		&cli.BoolFlag{Name: "parallel", Usage: "explore disjunction branches concurrently"},
		&cli.BoolFlag{Name: "trace", Usage: "log every solver step on stderr"},
		&cli.StringFlag{Name: "color", Usage: "auto, always or never"},
		&cli.BoolFlag{Name: "dump", Usage: "dump the typed AST"},
	}
}

func main() {
	cmd := &cli.Command{
		Name:    "alpine",
		Usage:   "type checker for Alpine modules",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:      "check",
				Usage:     "check modules and report diagnostics",
				ArgsUsage: "FILE...",
				Flags:     analysisFlags(),
				Action:    checkAction,
			},
			{
				Name:      "types",
				Usage:     "print the inferred type of every top-level declaration",
				ArgsUsage: "FILE",
				Flags:     analysisFlags(),
				Action:    typesAction,
			},
			{
				Name:      "print",
				Usage:     "print a module in source syntax",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "normalize", Usage: "print operators as the calls they are rewritten into"},
				},
				Action: printAction,
			},
		},
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// loadSettings reads the configuration file and applies flag overrides.
func loadSettings(cmd *cli.Command, firstFile string) (*config.Settings, error) {
	path := cmd.String("config")
	if path == "" {
		found, err := config.FindConfig(utils.GetModuleDir(firstFile))
		if err != nil {
			return nil, err
		}
		path = found
	}

	settings := config.DefaultSettings()
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		settings = loaded
	}

	if cmd.IsSet("timeout") {
		settings.Solver.Timeout = cmd.Duration("timeout")
	}
	if cmd.IsSet("parallel") {
		settings.Solver.ParallelDisjunctions = cmd.Bool("parallel")
	}
	if cmd.IsSet("trace") {
		settings.Solver.Trace = cmd.Bool("trace")
	}
	if cmd.IsSet("color") {
		settings.Output.Color = cmd.String("color")
	}
	switch settings.Output.Color {
	case config.ColorAuto, config.ColorAlways, config.ColorNever:
	default:
		return nil, fmt.Errorf("--color %q is not one of auto, always, never", settings.Output.Color)
	}
	return settings, nil
}

func newLogger(settings *config.Settings) *slog.Logger {
	level := slog.LevelWarn
	if settings.Solver.Trace {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func useColor(settings *config.Settings, f *os.File) bool {
	switch settings.Output.Color {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// analyze runs every stage on one file.
func analyze(ctx context.Context, path string, settings *config.Settings, logger *slog.Logger) (*pipeline.PipelineContext, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading module %s: %w", path, err)
	}
	pctx := pipeline.NewPipelineContext(path, source)
	pctx.Context = ctx
	pctx.Settings = *settings
	pctx.Logger = logger

	stages := append([]pipeline.Processor{&astio.DecoderProcessor{}}, analyzer.Processors()...)
	return pipeline.New(stages...).Run(pctx), nil
}

func checkAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() == 0 {
		return cli.Exit("usage: alpine check FILE...", 2)
	}
	files := cmd.Args().Slice()
	settings, err := loadSettings(cmd, files[0])
	if err != nil {
		return err
	}
	logger := newLogger(settings)
	color := useColor(settings, os.Stdout)

	failed := false
	for _, path := range files {
		pctx, err := analyze(ctx, path, settings, logger)
		if err != nil {
			return err
		}
		if printDiagnostics(os.Stdout, pctx, color) {
			failed = true
		}
		if cmd.Bool("dump") {
			dump(os.Stdout, pctx.Module)
		}
	}
	if failed {
		return cli.Exit("", 1)
	}
	return nil
}

func typesAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		return cli.Exit("usage: alpine types FILE", 2)
	}
	path := cmd.Args().Get(0)
	settings, err := loadSettings(cmd, path)
	if err != nil {
		return err
	}
	pctx, err := analyze(ctx, path, settings, newLogger(settings))
	if err != nil {
		return err
	}
	if printDiagnostics(os.Stdout, pctx, useColor(settings, os.Stdout)) {
		return cli.Exit("", 1)
	}
	printTypes(os.Stdout, pctx)
	if cmd.Bool("dump") {
		dump(os.Stdout, pctx.Module)
	}
	return nil
}

const (
	colorRed   = "\x1b[31m"
	colorBold  = "\x1b[1m"
	colorReset = "\x1b[0m"
)

// printDiagnostics writes one line per diagnostic and reports whether
// there was any.
func printDiagnostics(w io.Writer, pctx *pipeline.PipelineContext, color bool) bool {
	for _, e := range pctx.Errors {
		tok := e.Token
		if tok.File == "" {
			tok.File = e.File
		}
		if color {
			fmt.Fprintf(w, "%s%s:%s %s%s %s%s: %s\n", colorBold, tok.Pos(), colorReset, colorRed, e.Code, e.Code.Title(), colorReset, e.Message)
		} else {
			fmt.Fprintf(w, "%s: %s %s: %s\n", tok.Pos(), e.Code, e.Code.Title(), e.Message)
		}
	}
	return len(pctx.Errors) > 0
}

func printTypes(w io.Writer, pctx *pipeline.PipelineContext) {
	actx := analyzer.ContextOf(pctx)
	if actx == nil || pctx.Module == nil {
		return
	}
	for _, stmt := range pctx.Module.Statements {
		switch s := stmt.(type) {
		case *ast.TypeAlias:
			if s.Symbol == symbols.NoSymbol {
				continue
			}
			t := actx.Table.Symbol(s.Symbol).Type
			if meta, ok := t.(*typesystem.Metatype); ok {
				t = meta.Type
			}
			fmt.Fprintf(w, "type %s = %s\n", s.Name, t)
		case *ast.Func:
			if s.Name != "" {
				fmt.Fprintf(w, "func %s: %s\n", s.Name, s.GetType())
				continue
			}
			fmt.Fprintf(w, "%s : %s\n", prettyprinter.Print(s), s.GetType())
		case ast.Expression:
			fmt.Fprintf(w, "%s : %s\n", prettyprinter.Print(s), s.GetType())
		}
	}
}

func printAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		return cli.Exit("usage: alpine print FILE", 2)
	}
	m, err := astio.ReadFile(cmd.Args().Get(0))
	if err != nil {
		return err
	}
	if cmd.Bool("normalize") {
		analyzer.NewNormalizer().Module(m)
	}
	fmt.Fprint(os.Stdout, prettyprinter.Print(m))
	return nil
}

func dump(w io.Writer, m *ast.Module) {
	cfg := spew.ConfigState{Indent: "  ", MaxDepth: 8, DisablePointerAddresses: true, DisableCapacities: true}
	cfg.Fdump(w, m)
}
