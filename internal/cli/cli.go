package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/smarr/graal-jvmci-9/internal/app"
	"github.com/smarr/graal-jvmci-9/internal/mode"
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

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("jvmcibridge", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
jvmcibridge - provider discovery and environment snapshot bridge.

Resolves service providers from .hcl manifests and transfers environment
snapshots between a normal-mode process and an ahead-of-time image.

Usage:
  jvmcibridge [options]

Options:
`)
		flagSet.PrintDefaults()
	}

	modeFlag := flagSet.String("mode", "normal", "Execution mode. Options: 'normal', 'build', or 'image'.")
	manifestsFlag := flagSet.String("manifests", "", "Path to the directory containing provider manifests.")
	snapshotFlag := flagSet.String("snapshot", "", "Snapshot file to install at startup (image mode only).")
	encodeFlag := flagSet.String("encode-snapshot", "", "Write the captured environment snapshot to this file.")
	contractFlag := flagSet.String("contract", "", "Resolve and print all providers for this service contract.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if *encodeFlag == "" && *contractFlag == "" {
		slog.Debug("No operation requested, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	if _, err := mode.Resolve(*modeFlag); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		Mode:          *modeFlag,
		ManifestsPath: *manifestsFlag,
		SnapshotPath:  *snapshotFlag,
		EncodePath:    *encodeFlag,
		Contract:      *contractFlag,
		LogFormat:     logFormat,
		LogLevel:      logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
