package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	// Run from an empty directory so no config.yaml is found.
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "./xml", cfg.Output.Dir)
	assert.Equal(t, "MaturityDataResults.xml", cfg.Output.Filename)
	assert.Equal(t, "maturity.db", cfg.Database.Path)
	assert.Equal(t, 8080, cfg.API.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
output:
  dir: /var/lib/maturity
  filename: results.xml
database:
  path: ":memory:"
api:
  port: 9090
logging:
  level: debug
  format: json
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "/var/lib/maturity", cfg.Output.Dir)
	assert.Equal(t, "results.xml", cfg.Output.Filename)
	assert.Equal(t, ":memory:", cfg.Database.Path)
	assert.Equal(t, 9090, cfg.API.Port)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "output:\n  filename: from-file.xml\n")
	t.Setenv("MATURITY_OUTPUT_FILENAME", "from-env.xml")
	t.Setenv("MATURITY_API_PORT", "7070")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "from-env.xml", cfg.Output.Filename)
	assert.Equal(t, 7070, cfg.API.Port)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{
		Output:   OutputConfig{Dir: "xml", Filename: "out.xml"},
		Database: DatabaseConfig{Path: "maturity.db"},
		API:      APIConfig{Port: 8080},
		Logging:  LoggingConfig{Level: "info", Format: "text"},
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"empty filename", func(c *Config) { c.Output.Filename = "" }},
		{"filename with directory", func(c *Config) { c.Output.Filename = "a/b.xml" }},
		{"empty database path", func(c *Config) { c.Database.Path = "" }},
		{"port zero", func(c *Config) { c.API.Port = 0 }},
		{"port too large", func(c *Config) { c.API.Port = 70000 }},
		{"unknown level", func(c *Config) { c.Logging.Level = "chatty" }},
		{"unknown format", func(c *Config) { c.Logging.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := LoggingConfig{Level: "warn", Format: "json"}.NewLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "records", 2)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"records":2`)
}
