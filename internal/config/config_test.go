package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected default values.
// Changes to defaults must be intentional; these tests fail if they drift.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default Algorithm is sha256", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "sha256", cfg.Algorithm)
	})

	t.Run("default Workers is NumCPU", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, runtime.NumCPU(), cfg.Workers)
	})

	t.Run("default BufferSize is 256KiB", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 256*1024, cfg.BufferSize)
	})

	t.Run("progress is enabled and filters are off", func(t *testing.T) {
		t.Parallel()
		assert.True(t, cfg.Progress)
		assert.False(t, cfg.DuplicatesOnly)
		assert.False(t, cfg.Members)
		assert.Zero(t, cfg.Top)
	})
}

// TestConfigValidate tests the Validate method with various configurations.
// Each test case is designed to test one specific validation rule.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	validConfig := func() *Config {
		cfg := NewConfig()
		cfg.Root = "/data"
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{name: "valid config returns nil", mutate: func(*Config) {}},
		{name: "empty root", mutate: func(c *Config) { c.Root = "" }, want: ErrNoRoot},
		{name: "zero workers", mutate: func(c *Config) { c.Workers = 0 }, want: ErrInvalidWorkers},
		{name: "negative workers", mutate: func(c *Config) { c.Workers = -4 }, want: ErrInvalidWorkers},
		{name: "zero buffer", mutate: func(c *Config) { c.BufferSize = 0 }, want: ErrInvalidBufferSize},
		{name: "largest buffer", mutate: func(c *Config) { c.BufferSize = MaxBufferSize }},
		{name: "buffer above limit", mutate: func(c *Config) { c.BufferSize = MaxBufferSize + 1 }, want: ErrInvalidBufferSize},
		{name: "json and markdown", mutate: func(c *Config) {
			c.JSONReport = true
			c.MarkdownReport = true
		}, want: ErrConflictingReportFormats},
		{name: "json only", mutate: func(c *Config) { c.JSONReport = true }},
		{name: "markdown only", mutate: func(c *Config) { c.MarkdownReport = true }},
		{name: "negative top", mutate: func(c *Config) { c.Top = -1 }, want: ErrInvalidTop},
		{name: "unknown algorithm", mutate: func(c *Config) { c.Algorithm = "md5" }, want: ErrUnsupportedAlgorithm},
		{name: "alternate algorithm", mutate: func(c *Config) { c.Algorithm = "sha3-256" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

// TestParseBufferSize tests parsing and bounding human readable sizes.
func TestParseBufferSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{raw: "256KiB", want: 256 * 1024},
		{raw: "1MB", want: 1000 * 1000},
		{raw: "64MiB", want: MaxBufferSize},
		{raw: "4096", want: 4096},
		{raw: "65MiB", wantErr: true},
		{raw: "1TiB", wantErr: true},
		{raw: "0", wantErr: true},
		{raw: "lots", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			got, err := ParseBufferSize(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidBufferSize)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestLoadConfigFile tests loading YAML configuration files.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("loads all fields", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), ".dupscan")
		content := `algorithm: blake2b-256
workers: 3
bufferSize: 1MiB
exclude:
  - "*.tmp"
  - "cache/**"
duplicatesOnly: true
top: 20
members: true
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))

		cf, err := LoadConfigFile(path)
		require.NoError(t, err)
		assert.Equal(t, "blake2b-256", cf.Algorithm)
		assert.Equal(t, 3, cf.Workers)
		assert.Equal(t, "1MiB", cf.BufferSize)
		assert.Equal(t, []string{"*.tmp", "cache/**"}, cf.Exclude)
		assert.True(t, cf.DuplicatesOnly)
		assert.Equal(t, 20, cf.Top)
		assert.True(t, cf.Members)
	})

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()
		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope"))
		assert.ErrorIs(t, err, ErrConfigNotFound)
	})

	t.Run("malformed yaml returns error", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), ".dupscan")
		require.NoError(t, os.WriteFile(path, []byte("workers: [unterminated"), 0600))
		_, err := LoadConfigFile(path)
		assert.Error(t, err)
	})
}

// TestFileApply tests overlaying file settings onto a Config.
func TestFileApply(t *testing.T) {
	t.Parallel()

	t.Run("overrides non-zero values", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.Exclude = []string{"*.log"}
		cf := &File{
			Algorithm:      "sha512-256",
			Workers:        2,
			BufferSize:     "64KiB",
			Exclude:        []string{"*.tmp"},
			DuplicatesOnly: true,
			Top:            5,
			Members:        true,
		}

		require.NoError(t, cf.Apply(cfg))
		assert.Equal(t, "sha512-256", cfg.Algorithm)
		assert.Equal(t, 2, cfg.Workers)
		assert.Equal(t, 5, cfg.Top)
		assert.True(t, cfg.DuplicatesOnly)
		assert.True(t, cfg.Members)
		assert.Equal(t, 64*1024, cfg.BufferSize)
		assert.Equal(t, []string{"*.log", "*.tmp"}, cfg.Exclude)
	})

	t.Run("empty file keeps defaults", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		require.NoError(t, (&File{}).Apply(cfg))
		assert.Equal(t, DefaultAlgorithm, cfg.Algorithm)
		assert.Equal(t, DefaultWorkers(), cfg.Workers)
		assert.Equal(t, DefaultBufferSize, cfg.BufferSize)
	})

	t.Run("bad buffer size", func(t *testing.T) {
		t.Parallel()
		err := (&File{BufferSize: "lots"}).Apply(NewConfig())
		assert.ErrorIs(t, err, ErrInvalidBufferSize)
	})

	t.Run("oversized buffer", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		err := (&File{BufferSize: "1TiB"}).Apply(cfg)
		assert.ErrorIs(t, err, ErrInvalidBufferSize)
		assert.Equal(t, DefaultBufferSize, cfg.BufferSize)
	})
}

// TestFindConfigFile tests the explicit path branch of config discovery.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit existing path", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "custom.yaml")
		require.NoError(t, os.WriteFile(path, []byte("workers: 1\n"), 0600))
		assert.Equal(t, path, FindConfigFile(path))
	})

	t.Run("explicit missing path", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, FindConfigFile(filepath.Join(t.TempDir(), "missing.yaml")))
	})
}

// TestXDGConfigFile tests XDG path construction.
func TestXDGConfigFile(t *testing.T) {
	t.Parallel()

	got := XDGConfigFile()
	assert.Equal(t, "config.yaml", filepath.Base(got))
	assert.Equal(t, AppName, filepath.Base(filepath.Dir(got)))
}
