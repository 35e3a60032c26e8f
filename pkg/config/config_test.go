package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cqfn/patternika-sub000/pkg/config"
	"github.com/cqfn/patternika-sub000/pkg/matcher"
	"github.com/cqfn/patternika-sub000/pkg/tree"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".treematch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfig_EmptyFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, config.Default(), cfg)
	assert.Equal(t, matcher.StrategyHash, cfg.Matcher.Strategy)
	assert.True(t, cfg.Matcher.Prune)
	assert.Equal(t, uint64(16_000_000), cfg.Input.MaxFileBytes)
	assert.Equal(t, config.OutputTable, cfg.Output.Format)
	assert.Empty(t, cfg.Telemetry.OTLPEndpoint)
}

func TestLoadConfig_ValidFile(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, `matcher:
  strategy: root
  prune: false
  min_anchor_size: 4
input:
  format: uast
  max_file_size: 2MiB
output:
  format: json
  color: never
logging:
  level: DEBUG
  format: json
telemetry:
  otlp_endpoint: localhost:4317
  otlp_insecure: true
  sample_ratio: 0.25
`))
	require.NoError(t, err)

	assert.Equal(t, config.MatcherConfig{Strategy: "root", MinAnchorSize: 4, Prune: false}, cfg.Matcher)
	assert.Equal(t, config.InputUAST, cfg.Input.Format)
	assert.Equal(t, uint64(2<<20), cfg.Input.MaxFileBytes)
	assert.Equal(t, config.OutputConfig{Format: "json", Color: "never"}, cfg.Output)
	assert.Equal(t, "DEBUG", cfg.Logging.Level)
	assert.Equal(t, "localhost:4317", cfg.Telemetry.OTLPEndpoint)
	assert.True(t, cfg.Telemetry.OTLPInsecure)
	assert.InDelta(t, 0.25, cfg.Telemetry.SampleRatio, 1e-9)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    error
	}{
		{name: "strategy", content: "matcher:\n  strategy: gumtree\n", want: config.ErrInvalidStrategy},
		{name: "anchor size", content: "matcher:\n  min_anchor_size: 0\n", want: config.ErrInvalidAnchorSize},
		{name: "input format", content: "input:\n  format: xml\n", want: config.ErrInvalidInputFormat},
		{name: "file size", content: "input:\n  max_file_size: lots\n", want: config.ErrInvalidFileSize},
		{name: "zero file size", content: "input:\n  max_file_size: 0B\n", want: config.ErrInvalidFileSize},
		{name: "output", content: "output:\n  format: html\n", want: config.ErrInvalidOutput},
		{name: "color", content: "output:\n  color: sometimes\n", want: config.ErrInvalidColor},
		{name: "log level", content: "logging:\n  level: trace\n", want: config.ErrInvalidLogLevel},
		{name: "log format", content: "logging:\n  format: xml\n", want: config.ErrInvalidLogFormat},
		{name: "sample ratio", content: "telemetry:\n  sample_ratio: 1.5\n", want: config.ErrInvalidSampleRatio},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := config.LoadConfig(writeConfig(t, tt.content))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(writeConfig(t, "matcher: [unclosed\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

//nolint:paralleltest // t.Setenv is incompatible with t.Parallel.
func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	t.Setenv("TREEMATCH_MATCHER_STRATEGY", "root")
	t.Setenv("TREEMATCH_OUTPUT_FORMAT", "yaml")

	cfg, err := config.LoadConfig(writeConfig(t, "matcher:\n  strategy: hash\n"))
	require.NoError(t, err)

	assert.Equal(t, matcher.StrategyRoot, cfg.Matcher.Strategy)
	assert.Equal(t, config.OutputYAML, cfg.Output.Format)
}

func TestMatcherConfig_MatcherOptions(t *testing.T) {
	t.Parallel()

	build := func(data string) tree.Node {
		return tree.NewBuilder("Root").WithChildren(
			tree.NewBuilder("K").WithData(data).WithChildren(
				tree.NewBuilder("M").WithData(data).WithMaxChildren(0).Build(),
			).Build(),
		).Build()
	}

	pruned := matcher.MapTrees(
		matcher.NewRootMapper(config.Default().Matcher.MatcherOptions()...), build("1"), build("2"))
	assert.Equal(t, 1, pruned.Stats.Mapped)

	kept := matcher.MapTrees(
		matcher.NewRootMapper(config.MatcherConfig{MinAnchorSize: 1}.MatcherOptions()...), build("1"), build("2"))
	assert.Equal(t, 3, kept.Stats.Mapped)
}
