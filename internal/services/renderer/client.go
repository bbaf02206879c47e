package renderer

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"visionforge/internal/logging"
)

var commandContext = exec.CommandContext

// ProgressFunc receives streamed progress percentages in the 0-99 range.
type ProgressFunc func(percent int)

// Client defines renderer behaviour.
type Client interface {
	Render(ctx context.Context, inputPath, outputPath string, progress ProgressFunc) error
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// WithArgs sets fixed arguments placed before the input and output paths.
func WithArgs(args []string) Option {
	return func(c *CLI) {
		c.args = append([]string(nil), args...)
	}
}

// WithWorkDir sets the subprocess working directory.
func WithWorkDir(dir string) Option {
	return func(c *CLI) {
		c.workDir = strings.TrimSpace(dir)
	}
}

// WithLogger attaches a logger for lines that carry no progress token.
func WithLogger(logger *slog.Logger) Option {
	return func(c *CLI) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// CLI invokes the renderer as a subprocess.
type CLI struct {
	binary  string
	args    []string
	workDir string
	logger  *slog.Logger
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "npx", logger: logging.NewNop()}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Render launches the renderer with the input document and output path
// appended to the configured arguments, streaming combined stdout/stderr
// through the progress parser until the process exits.
func (c *CLI) Render(ctx context.Context, inputPath, outputPath string, progress ProgressFunc) error {
	if strings.TrimSpace(inputPath) == "" {
		return errors.New("input path required")
	}
	if strings.TrimSpace(outputPath) == "" {
		return errors.New("output path required")
	}

	args := make([]string, 0, len(c.args)+2)
	args = append(args, c.args...)
	args = append(args, inputPath, outputPath)

	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	if c.workDir != "" {
		cmd.Dir = c.workDir
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start renderer: %w", err)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if percent, ok := ParseProgress(line); ok {
			if progress != nil {
				progress(percent)
			}
			continue
		}
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			c.logger.Debug("renderer output", logging.String("line", trimmed))
		}
	}
	if err := scanner.Err(); err != nil {
		_ = cmd.Wait()
		return fmt.Errorf("read renderer output: %w", err)
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("renderer failed: %w", err)
	}
	return nil
}

var _ Client = (*CLI)(nil)
