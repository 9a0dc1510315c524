// Package collatex runs the CollateX command line tool as the alignment
// engine of a collation run.
package collatex

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/FocuswithJustin/JuniperCollate/core/alignment"
	"github.com/FocuswithJustin/JuniperCollate/core/errors"
	"github.com/FocuswithJustin/JuniperCollate/internal/logging"
)

// DefaultJava is the Java launcher used when none is configured.
const DefaultJava = "java"

// maxStderr bounds the diagnostic output kept in an EngineError.
const maxStderr = 2048

// waitDelay bounds how long a killed engine may keep its output pipes open.
const waitDelay = 2 * time.Second

// Runner invokes `java -jar <collatex.jar> -f json -t -o <out> <in>`.
type Runner struct {
	Java string
	Jar  string
	// Timeout of 0 means no limit.
	Timeout time.Duration
}

// New returns a Runner for the given launcher and jar.
func New(java, jar string, timeout time.Duration) *Runner {
	if java == "" {
		java = DefaultJava
	}
	return &Runner{Java: java, Jar: jar, Timeout: timeout}
}

// Args returns the command line arguments for one invocation.
func (r *Runner) Args(inputPath, outputPath string) []string {
	return []string{"-jar", r.Jar, "-f", "json", "-t", "-o", outputPath, inputPath}
}

// Align runs CollateX on req.InputPath, which must already exist, and reads
// the table it writes to req.OutputPath. A stale output file is removed
// first. A non-zero exit is logged and only becomes an error if no
// readable output was produced.
func (r *Runner) Align(ctx context.Context, req *alignment.Request) (*alignment.Table, error) {
	if r.Jar == "" {
		return nil, errors.NewValidation("collatex jar", "no CollateX jar configured")
	}
	java := r.Java
	if java == "" {
		java = DefaultJava
	}

	if err := os.Remove(req.OutputPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, errors.NewIO("remove", req.OutputPath, err)
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, java, r.Args(req.InputPath, req.OutputPath)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	logging.DebugContext(ctx, "running alignment engine", "command", cmd.String())
	start := time.Now()
	runErr := cmd.Run()
	logging.EngineOutput(ctx, "stdout", stdout.String())
	logging.EngineOutput(ctx, "stderr", stderr.String())

	exitCode := 0
	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) || ctx.Err() != nil {
			err := runErr
			if ctx.Err() != nil {
				err = ctx.Err()
			}
			return nil, &errors.EngineError{
				Command: java,
				Stderr:  tail(stderr.String()),
				Err:     err,
			}
		}
		exitCode = exitErr.ExitCode()
		logging.WarnContext(ctx, "alignment engine exited with non-zero status",
			"exit_code", exitCode,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}

	table, err := alignment.ReadFile(req.OutputPath)
	if err != nil {
		if exitCode != 0 {
			return nil, &errors.EngineError{
				Command:  java,
				ExitCode: exitCode,
				Stderr:   tail(stderr.String()),
				Err:      err,
			}
		}
		return nil, err
	}
	return table, nil
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxStderr {
		return s
	}
	i := len(s) - maxStderr
	for i < len(s) && !utf8.RuneStart(s[i]) {
		i++
	}
	return s[i:]
}
