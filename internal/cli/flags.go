package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Flags holds the command-line options of the phonenet binary. Empty
// values leave the config file setting in place.
type Flags struct {
	ConfigPath string
	File       string
	LogLevel   string
	Strategy   string
	MaxHops    int
	Load       bool
	Quiet      bool
}

// Parse processes command-line arguments. It returns the parsed flags, a
// boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*Flags, bool, error) {
	flagSet := flag.NewFlagSet("phonenet", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
phonenet - a telephone network of switchboards, phones and trunk lines.

Usage:
  phonenet [options] [SNAPSHOT]

Arguments:
  SNAPSHOT
    Network file to load at start and save with network-save
    (.json, .yaml or .db).

Options:
`)
		flagSet.PrintDefaults()
	}

	f := &Flags{}
	flagSet.StringVar(&f.ConfigPath, "config", "", "Path to the config file.")
	flagSet.StringVar(&f.LogLevel, "log-level", "", "Logging level: 'debug', 'info', 'warn' or 'error'.")
	flagSet.StringVar(&f.Strategy, "strategy", "", "Route search: 'bfs' or 'dfs'.")
	flagSet.IntVar(&f.MaxHops, "max-hops", -1, "Longest route in trunks; 0 disables the limit.")
	flagSet.BoolVar(&f.Quiet, "quiet", false, "Do not print the command prompt.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	switch flagSet.NArg() {
	case 0:
	case 1:
		f.File = flagSet.Arg(0)
		f.Load = true
	default:
		return nil, false, &ExitError{Code: 2, Message: "at most one snapshot file may be given"}
	}

	if f.Strategy != "" {
		f.Strategy = strings.ToLower(f.Strategy)
		if f.Strategy != "bfs" && f.Strategy != "dfs" {
			return nil, false, &ExitError{Code: 2, Message: "invalid strategy: must be 'bfs' or 'dfs'"}
		}
	}

	if f.LogLevel != "" {
		f.LogLevel = strings.ToLower(f.LogLevel)
		switch f.LogLevel {
		case "debug", "info", "warn", "error":
		default:
			return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
		}
	}

	return f, false, nil
}
