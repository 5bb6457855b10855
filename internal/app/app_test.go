package app_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarr/graal-jvmci-9/internal/app"
	"github.com/smarr/graal-jvmci-9/internal/testutil"
)

var hostEntries = testutil.StaticSource{
	{Key: "java.home", Value: "/opt/rt"},
	{Key: "java.vm.name", Value: "demo-vm"},
}

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "providers.hcl"), []byte(content), 0o644))
	return dir
}

func TestRunResolvesProvidersFromManifests(t *testing.T) {
	manifests := writeManifest(t, `
provider "compiler" "noop-compiler" {
  settings = { name = "fast" }
}
`)

	out := &testutil.SafeBuffer{}
	config, err := app.NewConfig(app.Config{
		Mode:          "normal",
		ManifestsPath: manifests,
		Contract:      "compiler",
		LogLevel:      "error",
		LogFormat:     "text",
	})
	require.NoError(t, err)

	a := app.NewApp(out, config, hostEntries)
	require.NoError(t, a.Run(context.Background(), config))

	assert.Contains(t, out.String(), "*noopcompiler.Compiler")
}

func TestRunFailsOnManifestWithUnlinkedImplementation(t *testing.T) {
	manifests := writeManifest(t, `provider "compiler" "missing-compiler" {}`)

	out := &testutil.SafeBuffer{}
	config, err := app.NewConfig(app.Config{
		Mode:          "normal",
		ManifestsPath: manifests,
		Contract:      "compiler",
		LogLevel:      "error",
	})
	require.NoError(t, err)

	a := app.NewApp(out, config, hostEntries)
	err = a.Run(context.Background(), config)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing-compiler")
}

// TestSnapshotCrossesProcessBoundary simulates the image-assembly handshake:
// a normal-mode process encodes its environment, and a separate image-mode
// process installs the bytes instead of reading the host.
func TestSnapshotCrossesProcessBoundary(t *testing.T) {
	snapshotPath := filepath.Join(t.TempDir(), "snapshot.bin")

	producerConfig, err := app.NewConfig(app.Config{
		Mode:       "normal",
		EncodePath: snapshotPath,
		LogLevel:   "error",
	})
	require.NoError(t, err)

	producer := app.NewApp(&testutil.SafeBuffer{}, producerConfig, hostEntries)
	require.NoError(t, producer.Run(context.Background(), producerConfig))
	require.FileExists(t, snapshotPath)

	consumerConfig, err := app.NewConfig(app.Config{
		Mode:         "image",
		SnapshotPath: snapshotPath,
		LogLevel:     "error",
	})
	require.NoError(t, err)

	// The image-mode app gets no host source: every answer must come from
	// the supplied snapshot.
	consumer := app.NewApp(&testutil.SafeBuffer{}, consumerConfig, testutil.FailingSource{Err: os.ErrPermission})
	require.NoError(t, consumer.Run(context.Background(), consumerConfig))

	value, err := consumer.Snapshot().PropDefault("java.home", "<unknown>")
	require.NoError(t, err)
	assert.Equal(t, "/opt/rt", value)

	props, err := consumer.Snapshot().Props()
	require.NoError(t, err)
	assert.Len(t, props, 2)
}

func TestBuildModeFreezesThroughApp(t *testing.T) {
	manifests := writeManifest(t, `provider "compiler" "noop-compiler" {}`)

	config, err := app.NewConfig(app.Config{
		Mode:          "build",
		ManifestsPath: manifests,
		Contract:      "compiler",
		LogLevel:      "error",
	})
	require.NoError(t, err)

	out := &testutil.SafeBuffer{}
	a := app.NewApp(out, config, hostEntries)
	require.NoError(t, a.Run(context.Background(), config))

	first, err := a.Bridge().LoadAll(context.Background(), "compiler")
	require.NoError(t, err)
	second, err := a.Bridge().LoadAll(context.Background(), "compiler")
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.True(t, &first[0] == &second[0], "build mode must reuse the frozen list")
}

func TestNewAppPanicsOnUnresolvableMode(t *testing.T) {
	config := &app.Config{Mode: "native", LogLevel: "error"}
	assert.Panics(t, func() {
		app.NewApp(&testutil.SafeBuffer{}, config, hostEntries)
	})
}

func TestRunPrintsNothingFoundForUnboundContract(t *testing.T) {
	out := &testutil.SafeBuffer{}
	config, err := app.NewConfig(app.Config{
		Mode:     "normal",
		Contract: "gc",
		LogLevel: "error",
	})
	require.NoError(t, err)

	a := app.NewApp(out, config, hostEntries)
	require.NoError(t, a.Run(context.Background(), config))
	assert.True(t, strings.Contains(out.String(), "no providers found"), "got output: %s", out.String())
}
