package opsq

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/slok/opsq/test/integration/testutils"
)

// Config holds integration test configuration loaded from environment variables.
type Config struct {
	Binary string
}

func (c *Config) defaults() error {
	if c.Binary == "" {
		c.Binary = "opsq"
	}

	// If relative, the caller should pass an absolute path via the env var,
	// because go test changes the CWD to the test package directory.
	if !filepath.IsAbs(c.Binary) {
		return fmt.Errorf("OPSQ_INTEGRATION_BINARY must be an absolute path, got %q", c.Binary)
	}
	if _, err := os.Stat(c.Binary); err != nil {
		return fmt.Errorf("opsq binary not found at %q: %w", c.Binary, err)
	}

	return nil
}

// NewConfig loads integration test configuration from environment variables.
// If the config is invalid or the activation env var is not set, the test is skipped.
func NewConfig(t *testing.T) Config {
	t.Helper()

	const (
		envActivation = "OPSQ_INTEGRATION"
		envBinary     = "OPSQ_INTEGRATION_BINARY"
	)

	if os.Getenv(envActivation) != "true" {
		t.Skipf("Skipping integration test: %s is not set to 'true'", envActivation)
	}

	c := Config{
		Binary: os.Getenv(envBinary),
	}

	if err := c.defaults(); err != nil {
		t.Skipf("Skipping due to invalid config: %s", err)
	}

	return c
}

// RunOpsqCmd runs an opsq command with a specific seed file and a fixed random seed.
// It suppresses logging output for cleaner test output.
func RunOpsqCmd(ctx context.Context, config Config, seedPath string, args ...string) (stdout, stderr []byte, err error) {
	all := []string{"--no-log", "--no-color", "--rand-seed", "42", "--seed-path", seedPath}
	all = append(all, args...)

	return testutils.RunOpsqArgs(ctx, nil, config.Binary, all, true)
}

// RunList lists the tasks in JSON format after advancing the simulation.
func RunList(ctx context.Context, config Config, seedPath string, ticks int, extra ...string) (stdout, stderr []byte, err error) {
	args := append([]string{"list", "--format", "json", "--ticks", fmt.Sprint(ticks)}, extra...)
	return RunOpsqCmd(ctx, config, seedPath, args...)
}

// RunStatus gets a task status in JSON format after advancing the simulation.
func RunStatus(ctx context.Context, config Config, seedPath, idOrName string, ticks int) (stdout, stderr []byte, err error) {
	return RunOpsqCmd(ctx, config, seedPath, "status", idOrName, "--format", "json", "--ticks", fmt.Sprint(ticks))
}
