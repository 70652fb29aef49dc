package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/nsmigrate/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".nsmigrate.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfig_EmptyFile_UsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Empty(t, cfg.Rules.File)
	assert.Equal(t, config.DefaultGateMarkers(), cfg.Gate.Markers)
	assert.Equal(t, config.DefaultRelocationBaseDir, cfg.Relocation.BaseDir)
	assert.Equal(t, config.DefaultRelocationExtension, cfg.Relocation.Extension)
	assert.Equal(t, config.DefaultRewriteShortName, cfg.Rewrite.ShortName)
	assert.Equal(t, config.DefaultRunWorkers, cfg.Run.Workers)
	assert.Equal(t, config.DefaultRunDryRun, cfg.Run.DryRun)
	assert.Equal(t, config.DefaultLoggingLevel, cfg.Logging.Level)
	assert.Equal(t, config.DefaultLoggingFormat, cfg.Logging.Format)
}

func TestLoadConfig_ValidFile_Unmarshals(t *testing.T) {
	t.Parallel()

	content := `rules:
  mappings:
    - legacy_prefix: JFormField
      namespace: Acme\Example\Administrator\Field
      exclude: [JFormFieldList]
gate:
  markers: ["/models/fields/", "/models/rules/"]
relocation:
  base_dir: lib
  namespace_root: Acme\Example\Administrator
run:
  workers: 3
  include: ["**/*.php"]
  dry_run: true
logging:
  level: debug
  format: json
metrics:
  file: /tmp/nsmigrate.prom
`

	cfg, err := config.LoadConfig(writeConfig(t, content))
	require.NoError(t, err)

	require.Len(t, cfg.Rules.Mappings, 1)
	assert.Equal(t, "JFormField", cfg.Rules.Mappings[0].LegacyPrefix)
	assert.Equal(t, []string{"JFormFieldList"}, cfg.Rules.Mappings[0].Exclude)
	assert.Equal(t, []string{"/models/fields/", "/models/rules/"}, cfg.Gate.Markers)
	assert.Equal(t, "lib", cfg.Relocation.BaseDir)
	assert.Equal(t, `Acme\Example\Administrator`, cfg.Relocation.NamespaceRoot)
	assert.Equal(t, 3, cfg.Run.Workers)
	assert.Equal(t, []string{"**/*.php"}, cfg.Run.Include)
	assert.True(t, cfg.Run.DryRun)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "/tmp/nsmigrate.prom", cfg.Metrics.File)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		content string
		want    error
	}{
		"negative workers": {"run:\n  workers: -1\n", config.ErrInvalidWorkers},
		"short name":       {"rewrite:\n  short_name: camel\n", config.ErrInvalidShortName},
		"namespace root":   {"relocation:\n  namespace_root: 'A\\\\B'\n", config.ErrInvalidNamespaceRoot},
		"extension":        {"relocation:\n  extension: php\n", config.ErrInvalidExtension},
		"log level":        {"logging:\n  level: loud\n", config.ErrInvalidLogLevel},
		"log format":       {"logging:\n  format: xml\n", config.ErrInvalidLogFormat},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := config.LoadConfig(writeConfig(t, tt.content))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(writeConfig(t, "run: [\n"))
	require.Error(t, err)
}
