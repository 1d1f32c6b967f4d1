package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/specialistvlad/roprogo/internal/app"
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

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("roprogo", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
roprogo - runs RoboPro flow diagrams against a simulated or remote interface.

Usage:
  roprogo [options] [PROGRAM_PATH...]

Arguments:
  PROGRAM_PATH
    Path to a .hcl diagram file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	var paths []string
	addPath := func(s string) error {
		if s == "" {
			return fmt.Errorf("path cannot be empty")
		}
		paths = append(paths, s)
		return nil
	}
	flagSet.Func("program", "Path to a diagram file or directory. May be repeated.", addPath)
	flagSet.Func("p", "Path to a diagram file or directory (shorthand).", addPath)
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	ioFlag := flagSet.String("io", app.IOSim, "I/O device. Options: 'sim' or 'remote'.")
	ioURLFlag := flagSet.String("io-url", "", "Socket.IO URL of the remote interface, e.g. http://localhost:8000.")
	ioNamespaceFlag := flagSet.String("io-namespace", "/", "Socket.IO namespace of the remote interface.")
	ioTimeoutFlag := flagSet.Duration("io-timeout", 5*time.Second, "Timeout of a single remote I/O request.")
	entryFlag := flagSet.String("entry", "", "Subroutine to start in. Defaults to the one holding the ProcessStart node.")
	waitTimeoutFlag := flagSet.Duration("wait-timeout", 0, "Upper bound for a single wait element. 0 waits forever.")
	pollFlag := flagSet.Duration("poll-interval", 10*time.Millisecond, "Sensor polling interval of wait elements.")
	depthFlag := flagSet.Int("max-call-depth", 64, "Maximum subroutine nesting depth.")
	printFlag := flagSet.Bool("print", false, "Print the loaded diagram as HCL and exit.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, usageError("%s", err.Error())
	}
	slog.Debug("Arguments parsed successfully.")

	paths = append(paths, flagSet.Args()...)
	slog.Debug("Program paths determined.", "paths", paths)
	if len(paths) == 0 {
		slog.Debug("No program path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, usageError("invalid log-format: must be 'text' or 'json'")
	}
	logLevel := strings.ToLower(*logLevelFlag)
	if !app.ValidLogLevel(logLevel) {
		return nil, false, usageError("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}
	if *depthFlag < 1 {
		return nil, false, usageError("invalid max-call-depth: must be at least 1")
	}
	if *pollFlag <= 0 {
		return nil, false, usageError("invalid poll-interval: must be positive")
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		ProgramPaths:    paths,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
		HealthcheckPort: *healthPortFlag,
		IO:              strings.ToLower(*ioFlag),
		IOURL:           *ioURLFlag,
		IONamespace:     *ioNamespaceFlag,
		IOTimeout:       *ioTimeoutFlag,
		Entry:           *entryFlag,
		WaitTimeout:     *waitTimeoutFlag,
		PollInterval:    *pollFlag,
		MaxCallDepth:    *depthFlag,
		Print:           *printFlag,
	})
	if err != nil {
		return nil, false, usageError("%s", err.Error())
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
