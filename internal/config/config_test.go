package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every key Load reads so the host environment cannot leak
// in. t.Setenv restores the previous values afterwards.
func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"PORT", "DB_DRIVER", "DATABASE_URL", "JWT_SECRET", "CLIENT_URL",
		"ALLOWED_ORIGINS", "LOG_LEVEL", "LOG_FORMAT", "LOG_FILE", "GIN_MODE",
		"REORDER_ENFORCE_ACCESS", "TASKMASTER_CONFIG",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	// No .env in the working directory.
	dir := t.TempDir()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DATABASE_URL", "postgres://localhost/taskmaster")
	t.Setenv("PORT", "8080")
	t.Setenv("CLIENT_URL", "https://app.example.com")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("REORDER_ENFORCE_ACCESS", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.True(t, cfg.ReorderEnforceAccess)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"https://app.example.com",
		"https://a.example.com",
		"https://b.example.com",
	}, cfg.AllowedOrigins)
}

func TestLoadYAMLThenEnvironment(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "taskmaster.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9000"
db_driver: sqlite
database_url: file:taskmaster.db
jwt_secret: from-file
log_format: json
reorder_enforce_access: true
`), 0o600))

	t.Setenv("TASKMASTER_CONFIG", path)
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "file:taskmaster.db", cfg.DatabaseURL)
	assert.Equal(t, "from-env", cfg.JWTSecret)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.True(t, cfg.ReorderEnforceAccess)
}

func TestLoadReadsDotEnv(t *testing.T) {
	clearEnv(t)

	require.NoError(t, os.WriteFile(".env", []byte("JWT_SECRET=dotenv\nDATABASE_URL=postgres://db/taskmaster\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dotenv", cfg.JWTSecret)
	assert.Equal(t, "postgres://db/taskmaster", cfg.DatabaseURL)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing secret", env: map[string]string{"DATABASE_URL": "x"}},
		{name: "missing database", env: map[string]string{"JWT_SECRET": "x"}},
		{name: "unknown driver", env: map[string]string{"JWT_SECRET": "x", "DATABASE_URL": "x", "DB_DRIVER": "oracle"}},
		{name: "bad port", env: map[string]string{"JWT_SECRET": "x", "DATABASE_URL": "x", "PORT": "http"}},
		{name: "bad reorder flag", env: map[string]string{"JWT_SECRET": "x", "DATABASE_URL": "x", "REORDER_ENFORCE_ACCESS": "sometimes"}},
		{name: "missing config file", env: map[string]string{"TASKMASTER_CONFIG": "/does/not/exist.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
