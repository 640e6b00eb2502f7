// main.go
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/stephenlclarke/fix42/decoder"
	"github.com/stephenlclarke/fix42/fix"
	"github.com/stephenlclarke/fix42/internal/config"
	"golang.org/x/term"
)

// Version, Branch, GitUrl, Sha are injected at build time via -ldflags
var (
	Version = "0.0.0"
	Branch  = "main"
	GitUrl  = "git@github.com:stephenlclarke/fix42.git"
	Sha     = "0000000"
)

// tagFlag supports optional string arg; bare -tag lists all, explicit -tag= shows usage, and -tag=NN selects a tag.
type tagFlag struct {
	value string
	isSet bool
}

func (t *tagFlag) String() string     { return t.value }
func (t *tagFlag) Set(s string) error { t.value, t.isSet = s, true; return nil }
func (t *tagFlag) IsBoolFlag() bool   { return true }

// messageFlag supports an optional string argument (with or without '=').
type messageFlag struct {
	value string
	isSet bool
}

func (m *messageFlag) String() string     { return m.value }
func (m *messageFlag) Set(s string) error { m.value, m.isSet = s, true; return nil }
func (m *messageFlag) IsBoolFlag() bool   { return true }

// colourFlag holds auto, yes or no. Bare -colour means yes.
type colourFlag struct {
	isSet bool
	value string
}

func (c *colourFlag) String() string { return c.value }

func (c *colourFlag) Set(s string) error {
	c.isSet = true
	switch strings.ToLower(s) {
	case "", "true", "yes":
		c.value = config.ColourYes
	case "false", "no":
		c.value = config.ColourNo
	case "auto":
		c.value = config.ColourAuto
	default:
		return fmt.Errorf("invalid value for -colour: %q", s)
	}
	return nil
}

func (c *colourFlag) IsBoolFlag() bool {
	return true
}

// CLIOptions holds all parsed flag values. set records which flags were
// given explicitly so they can override the config file.
type CLIOptions struct {
	ConfigPath     string
	Verbose        bool
	IncludeHeader  bool
	IncludeTrailer bool
	ColumnOutput   bool
	Message        messageFlag
	Tag            tagFlag
	Sample         string
	Info           bool
	Validate       bool
	Obfuscate      bool
	SkipIntegrity  bool
	Duplicates     string
	Colour         colourFlag
	Files          []string

	set map[string]bool
}

// parseFlagsArgs parses command-line arguments using a fresh FlagSet.
func parseFlagsArgs(args []string, errOut io.Writer) (CLIOptions, error) {
	var opts CLIOptions

	fs := flag.NewFlagSet("fixdecoder", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.StringVar(&opts.ConfigPath, "config", "", "Path to a TOML config file")
	fs.BoolVar(&opts.Verbose, "verbose", false, "Show full message structure with enums")
	fs.BoolVar(&opts.IncludeHeader, "header", false, "Include Header block")
	fs.BoolVar(&opts.IncludeTrailer, "trailer", false, "Include Trailer block")
	fs.BoolVar(&opts.ColumnOutput, "column", false, "Display enums in columns")
	fs.BoolVar(&opts.Info, "info", false, "Show dictionary summary")
	fs.BoolVar(&opts.Validate, "validate", false, "Validate FIX messages during decoding")
	fs.BoolVar(&opts.Obfuscate, "obfuscate", false, "Replace sensitive field values with stable aliases")
	fs.BoolVar(&opts.SkipIntegrity, "skip-integrity", false, "Do not check BodyLength and CheckSum when validating")
	fs.StringVar(&opts.Duplicates, "duplicates", "", "Duplicate tag policy (last|reject)")
	fs.StringVar(&opts.Sample, "sample", "", "Build and print a sample message (name or MsgType)")
	fs.Var(&opts.Message, "message", "Message name or MsgType (omit to list all messages)")
	fs.Var(&opts.Tag, "tag", "Tag number to display details for (omit to list all tags)")
	fs.Var(&opts.Colour, "colour", "Coloured output (yes|no|auto). Default: auto-detect based on stdout")

	fs.Usage = func() {
		PrintUsage(errOut)
		fmt.Fprintln(errOut, "\nFlags:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return CLIOptions{}, err
	}

	opts.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
	opts.Files = extractFileArgsOrStdin(fs.Args())

	return opts, nil
}

// PrintUsage prints the program usage.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, "fixdecoder %s (branch:%s, commit:%s)\n\n", Version, Branch, Sha)
	fmt.Fprintf(w, "  git clone %s\n\n", GitUrl)
	fmt.Fprintln(w, "Usage: fixdecoder [-message[=MSG] [-verbose] [-column] [-header] [-trailer]]")
	fmt.Fprintln(w, "       fixdecoder [-tag[=TAG] [-verbose] [-column]]")
	fmt.Fprintln(w, "       fixdecoder [-info]")
	fmt.Fprintln(w, "       fixdecoder [-sample=MSG] [-obfuscate]")
	fmt.Fprintln(w, "       fixdecoder [-config=FILE] [-validate] [-duplicates=last|reject] [-skip-integrity]")
	fmt.Fprintln(w, "                  [-obfuscate] [-colour=yes|no|auto] [file1.log file2.log ...]")
}

// extractFileArgsOrStdin returns the positional arguments, or []{"-"}
// when there are none, which decoder.PrettifyFiles reads from stdin.
func extractFileArgsOrStdin(args []string) []string {
	var files []string
	for _, a := range args {
		if a != "" {
			files = append(files, a)
		}
	}
	if len(files) == 0 {
		files = []string{"-"}
	}
	return files
}

// loadConfig reads the config file and lets explicit flags win.
func loadConfig(opts CLIOptions) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}

	if opts.set["validate"] {
		cfg.Validate = opts.Validate
	}
	if opts.set["obfuscate"] {
		cfg.Obfuscate = opts.Obfuscate
	}
	if opts.set["skip-integrity"] {
		cfg.SkipIntegrity = opts.SkipIntegrity
	}
	if opts.set["colour"] {
		cfg.Colour = opts.Colour.value
	}
	if opts.set["duplicates"] {
		p, err := fix.ParseDuplicateTagPolicy(opts.Duplicates)
		if err != nil {
			return config.Config{}, fmt.Errorf("invalid value for -duplicates: %w", err)
		}
		cfg.DuplicateTags = p
	}

	return cfg, nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// applyColour disables colours for "no", and for "auto" when out is not
// a terminal.
func applyColour(mode string, out io.Writer) {
	switch mode {
	case config.ColourYes:
		return
	case config.ColourNo:
		decoder.DisableColours()
	default:
		if f, ok := out.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
			decoder.DisableColours()
		}
	}
}

// Process is the entry point: parses flags, loads config and the
// dictionary, runs handlers, and returns an exit code.
func Process(args []string, out, errOut io.Writer) int {
	opts, err := parseFlagsArgs(args, errOut)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}

	fix.SetLogger(newLogger(errOut, cfg.LogLevel))
	decoder.SetValidation(cfg.Validate)
	decoder.SetDecodeOptions(cfg.DecodeOptions())

	dict, err := decoder.LoadDictionary()
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}

	applyColour(cfg.Colour, out)
	obfuscator := fix.NewObfuscator(cfg.Sensitive, cfg.Obfuscate)

	if handled, code := runHandlers(opts, dict, obfuscator, out, errOut); handled {
		return code
	}

	return decoder.PrettifyFiles(opts.Files, out, errOut, obfuscator)
}

func main() {
	os.Exit(Process(os.Args[1:], os.Stdout, os.Stderr))
}
