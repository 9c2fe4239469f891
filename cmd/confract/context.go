package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/kirillkom/confract/internal/bootstrap"
	"github.com/kirillkom/confract/internal/config"
	"github.com/kirillkom/confract/internal/core/ports"
	"github.com/kirillkom/confract/internal/observability/logging"
)

type commandContext struct {
	configPath string

	cfg       config.Config
	processor ports.Processor
	detector  ports.MatchDetector
}

func newCommandContext() *commandContext {
	return &commandContext{}
}

// init loads configuration and builds the pipeline unless collaborators were injected.
func (c *commandContext) init(stderr io.Writer) error {
	path := strings.TrimSpace(c.configPath)
	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	c.cfg = cfg
	slog.SetDefault(logging.NewJSONLoggerTo(stderr, "confract", cfg.LogLevel))

	if c.processor != nil && c.detector != nil {
		return nil
	}
	pipeline := bootstrap.NewPipeline(cfg, bootstrap.Options{})
	if c.processor == nil {
		c.processor = pipeline.Processor
	}
	if c.detector == nil {
		c.detector = pipeline.Detector
	}
	return nil
}

// readInput reads the named file, or stdin when no file is given or the name is "-".
// Surrounding whitespace is trimmed the same way the HTTP handlers trim request input.
func readInput(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return strings.TrimSpace(string(raw)), nil
	}
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read %s: %w", args[0], err)
	}
	return strings.TrimSpace(string(raw)), nil
}
