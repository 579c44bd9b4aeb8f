package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/layermerge/pkg/pipeline"
	"github.com/matzehuels/layermerge/pkg/server"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Merge.Flags != pipeline.DefaultFlags || cfg.Merge.Threshold != nil {
		t.Errorf("Merge = %+v", cfg.Merge)
	}
	if cfg.Cache.Backend != backendFile {
		t.Errorf("Cache.Backend = %q, want %q", cfg.Cache.Backend, backendFile)
	}
	if cfg.Server.Addr != server.DefaultAddr || cfg.Server.Cache != backendMemory {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Server.ShutdownTimeout.Duration != server.DefaultShutdownTimeout {
		t.Errorf("ShutdownTimeout = %v", cfg.Server.ShutdownTimeout)
	}
}

func TestLoadConfigMissingDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadConfigMissingExplicit(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("explicit missing config should fail")
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.toml", `
[merge]
flags = "background,click"
threshold = 5
wrap_root = true

[cache]
backend = "redis"
redis_url = "redis://localhost:6379/0"
prefix = "team-a"

[server]
addr = ":9090"
shutdown_timeout = "3s"
`)

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Merge.Flags != "background,click" || cfg.Merge.Threshold == nil || *cfg.Merge.Threshold != 5 || !cfg.Merge.WrapRoot {
		t.Errorf("Merge = %+v", cfg.Merge)
	}
	if cfg.Cache.Backend != backendRedis || cfg.Cache.Prefix != "team-a" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Server.Addr != ":9090" || cfg.Server.ShutdownTimeout.Duration != 3*time.Second {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Server.MaxBodyBytes != server.DefaultMaxBodyBytes {
		t.Errorf("MaxBodyBytes default not applied: %d", cfg.Server.MaxBodyBytes)
	}
}

func TestLoadConfigZeroThreshold(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.toml", "[merge]\nthreshold = 0\n")
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Merge.Threshold == nil || *cfg.Merge.Threshold != 0 {
		t.Errorf("Threshold = %v, want explicit 0", cfg.Merge.Threshold)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{"unknown key", "[merge]\nflag = \"all\"\n", "unknown keys merge.flag"},
		{"unknown backend", "[cache]\nbackend = \"memcached\"\n", "unknown cache backend"},
		{"negative threshold", "[merge]\nthreshold = -2\n", "threshold"},
		{"bad duration", "[server]\nshutdown_timeout = \"soon\"\n", "read config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "config.toml", tt.content)
			_, err := loadConfig(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("err = %v, want mention of %q", err, tt.wantMsg)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("LAYERMERGE_REDIS_URL", "redis://cache:6379")
	t.Setenv("LAYERMERGE_CACHE", "redis")
	t.Setenv("LAYERMERGE_MAX_BODY_BYTES", "2048")

	cfg := DefaultConfig()
	if err := cfg.applyEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("applyEnv: %v", err)
	}
	if cfg.Cache.RedisURL != "redis://cache:6379" || cfg.Server.Cache != backendRedis {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Server.MaxBodyBytes != 2048 {
		t.Errorf("MaxBodyBytes = %d, want 2048", cfg.Server.MaxBodyBytes)
	}
}

func TestApplyEnvFile(t *testing.T) {
	const key = "LAYERMERGE_MONGO_URI"
	if _, set := os.LookupEnv(key); set {
		t.Skipf("%s already set", key)
	}
	t.Cleanup(func() { os.Unsetenv(key) })

	path := writeFile(t, t.TempDir(), ".env", key+"=mongodb://db:27017\n")
	cfg := DefaultConfig()
	if err := cfg.applyEnv(path); err != nil {
		t.Fatalf("applyEnv: %v", err)
	}
	if cfg.Cache.MongoURI != "mongodb://db:27017" {
		t.Errorf("MongoURI = %q", cfg.Cache.MongoURI)
	}
}

func TestApplyEnvInvalid(t *testing.T) {
	t.Setenv("LAYERMERGE_MAX_BODY_BYTES", "lots")
	if err := DefaultConfig().applyEnv(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Error("non-numeric body limit should fail")
	}
}
