package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/amterp/color"
	"github.com/mcncl/jsontree/internal/analyzer"
	"github.com/mcncl/jsontree/internal/config"
	"github.com/mcncl/jsontree/internal/errors"
	"github.com/mcncl/jsontree/internal/formatter"
	"github.com/mcncl/jsontree/internal/inspect"
	"github.com/mcncl/jsontree/internal/mime"
	"github.com/mcncl/jsontree/internal/models"
	"github.com/mcncl/jsontree/internal/parser"
	"github.com/mcncl/jsontree/internal/render"
)

// CLI defines the command-line interface
var CLI struct {
	Input       string `help:"Path to input JSON file. If not specified, reads from stdin." short:"i" type:"path"`
	Output      string `help:"Path to output HTML file. If not specified, writes to stdout." short:"o" type:"path"`
	Config      string `help:"Path to config file. If not specified, searches for .jsontree.yml upward from the working directory." short:"c" type:"path"`
	Root        string `help:"Label shown for the top-level entry." short:"r"`
	Collapsed   bool   `help:"Start with every collapsible entry closed."`
	Page        bool   `help:"Wrap the fragment into a standalone HTML page."`
	Title       string `help:"Title of the standalone page."`
	Verify      bool   `help:"Check that the rendered tree copies out as the input JSON."`
	Debug       bool   `help:"Enable debug logging." short:"d"`
	Version     bool   `help:"Show version information." short:"v"`
	Interactive bool   `help:"Run in interactive mode, allowing direct JSON input with Ctrl+D to process." short:"I"`
}

// Context holds the runtime context
type Context struct {
	Debug  bool
	Config *config.Config
	Logger mime.Logger
}

// errorColor highlights failures on stderr; it turns itself off when stdout is not a terminal.
var errorColor = color.New(color.FgRed, color.Bold)

// Version information
const (
	Version = "0.1.0"
)

func main() {
	app := kong.Must(&CLI,
		kong.Name("jsontree"),
		kong.Description("Render JSON as a collapsible HTML tree that copies out as valid JSON"),
		kong.UsageOnError(),
	)

	// No arguments at all means interactive mode
	if len(os.Args) == 1 {
		CLI.Interactive = true
	}

	if _, err := app.Parse(os.Args[1:]); err != nil {
		// kong.UsageOnError() has already printed the usage
		os.Exit(1)
	}

	if CLI.Version {
		fmt.Printf("jsontree version %s\n", Version)
		return
	}

	ctx, err := newContext()
	if err == nil {
		err = run(ctx)
	}
	if err != nil {
		_, _ = errorColor.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: jsontree --help\n")
		os.Exit(1)
	}
}

// newContext resolves the config file and applies the command-line overrides.
func newContext() (*Context, error) {
	configPath := CLI.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	cfg, err := config.LoadConfigWithCLI(configPath, config.Overrides{
		Root:      CLI.Root,
		Collapsed: CLI.Collapsed,
		Page:      CLI.Page,
		Title:     CLI.Title,
		Verify:    CLI.Verify,
		Debug:     CLI.Debug,
	})
	if err != nil {
		return nil, err
	}

	ctx := &Context{Debug: cfg.Dev.Debug, Config: cfg, Logger: mime.DefaultLogger{}}
	if ctx.Debug && configPath != "" {
		ctx.Logger.Infof("using config file %s", configPath)
	}
	return ctx, nil
}

// run executes the main program logic
func run(ctx *Context) error {
	cfg := ctx.Config
	if cfg == nil {
		cfg = config.NewConfig()
	}
	logger := ctx.Logger
	if logger == nil {
		logger = mime.DefaultLogger{}
	}

	// 1. Parse JSON input
	v, err := parseInput(cfg.Parser())
	if err != nil {
		return err
	}

	// 2. Describe the input shape
	if ctx.Debug {
		logger.Infof("input: %s", analyzer.NewAnalyzerWithConfig(cfg).Analyze(v))
	}

	opts := cfg.RenderOptions()

	// 3. Stream straight to the output when nothing needs the whole fragment
	if !cfg.Verify && !cfg.Page.Enabled {
		return writeOutput(func(w io.Writer) error {
			_, err := render.WriteTo(w, v, opts)
			return err
		})
	}

	// 4. Render, check, and wrap
	out := render.HTML(v, opts)
	if cfg.Verify {
		if err := inspect.Verify(out, v); err != nil {
			return err
		}
		if ctx.Debug {
			logger.Infof("verified: rendered tree copies out as the input JSON")
		}
	}
	if cfg.Page.Enabled {
		out, err = formatter.NewFormatter().Page(out, cfg.Page.Title)
		if err != nil {
			return err
		}
	}

	return writeOutput(func(w io.Writer) error {
		_, err := io.WriteString(w, out)
		return err
	})
}

// parseInput reads JSON from file or stdin
func parseInput(p *parser.Parser) (models.Value, error) {
	if CLI.Input != "" {
		return p.ParseFile(CLI.Input)
	}

	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return models.Value{}, errors.NewInputError("failed to access stdin", err)
	}

	// Terminal is interactive (not piped)
	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		if CLI.Interactive {
			return readInteractiveInput(p)
		}
		return models.Value{}, errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	jsonData, err := io.ReadAll(os.Stdin)
	if err != nil {
		return models.Value{}, errors.NewInputError("failed to read from stdin", err)
	}

	if len(jsonData) == 0 {
		return models.Value{}, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}

	return p.ParseBytes(jsonData)
}

// writeOutput hands the output file, or stdout, to write
func writeOutput(write func(w io.Writer) error) error {
	if CLI.Output == "" {
		if err := write(os.Stdout); err != nil {
			return errors.NewOutputError("failed to write to stdout", err)
		}
		_, _ = fmt.Fprintln(os.Stdout)
		return nil
	}

	file, err := os.Create(CLI.Output)
	if err != nil {
		return errors.NewOutputError(fmt.Sprintf("failed to create file '%s'", CLI.Output), err)
	}
	w := bufio.NewWriter(file)
	if err := write(w); err != nil {
		_ = file.Close()
		return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", CLI.Output), err)
	}
	if err := w.Flush(); err != nil {
		_ = file.Close()
		return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", CLI.Output), err)
	}
	if err := file.Close(); err != nil {
		return errors.NewOutputError(fmt.Sprintf("failed to close file '%s'", CLI.Output), err)
	}
	fmt.Fprintf(os.Stderr, "HTML written to %s\n", CLI.Output)
	return nil
}

// readInteractiveInput provides an interactive mode for users to paste JSON
// and signal completion with Ctrl+D (EOF)
func readInteractiveInput(p *parser.Parser) (models.Value, error) {
	fmt.Fprintln(os.Stderr, "jsontree Interactive Mode")
	fmt.Fprintln(os.Stderr, "Paste your JSON below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	reader := bufio.NewReader(os.Stdin)
	var jsonBuilder strings.Builder

	for {
		line, err := reader.ReadString('\n')
		jsonBuilder.WriteString(line)
		if err == io.EOF {
			break
		}
		if err != nil {
			return models.Value{}, errors.NewInputError("error reading input", err)
		}
	}

	jsonData := jsonBuilder.String()
	if strings.TrimSpace(jsonData) == "" {
		return models.Value{}, errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}

	fmt.Fprintln(os.Stderr, "\nProcessing JSON...")
	return p.ParseString(jsonData)
}
