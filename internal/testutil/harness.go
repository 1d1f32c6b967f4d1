package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/specialistvlad/roprogo/internal/app"
	"github.com/specialistvlad/roprogo/internal/hcl"
	"github.com/specialistvlad/roprogo/internal/hwio/sim"
	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	LogOutput string
	Err       error
	App       *app.App
	Device    *sim.Device
}

// WriteFiles writes files (relative path to content) under a fresh temporary
// directory and returns that directory.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

// RunIntegrationTest runs the diagram files through the full app with a
// simulated device, using a background context.
func RunIntegrationTest(t *testing.T, files map[string]string, dev *sim.Device, configure ...func(*app.Config)) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithContext(context.Background(), t, files, dev, configure...)
}

// RunIntegrationTestWithContext is RunIntegrationTest with a caller-provided
// context. A nil dev gets a fresh simulated device. Set ROPROGO_TEST_LOGS=true
// to print the captured log.
func RunIntegrationTestWithContext(ctx context.Context, t *testing.T, files map[string]string, dev *sim.Device, configure ...func(*app.Config)) *HarnessResult {
	t.Helper()
	if dev == nil {
		dev = sim.New()
	}

	raw := app.Config{
		ProgramPaths: []string{WriteFiles(t, files)},
		LogLevel:     "debug",
		LogFormat:    "text",
	}
	for _, c := range configure {
		c(&raw)
	}
	cfg, err := app.NewConfig(raw)
	require.NoError(t, err)

	logBuffer := &SafeBuffer{}
	testApp := app.NewApp(logBuffer, cfg, hcl.NewLoader(), app.WithDevice(dev), app.WithEncoder(hcl.NewEncoder()))
	runErr := testApp.Run(ctx)

	if os.Getenv("ROPROGO_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	return &HarnessResult{
		LogOutput: logBuffer.String(),
		Err:       runErr,
		App:       testApp,
		Device:    dev,
	}
}
