package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Addr != ":8081" || cfg.TickInterval != time.Second || cfg.AllowedOrigin != "*" || cfg.CatalogPath != "" {
		t.Fatalf("unexpected default config: %+v", cfg)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv(EnvAddr, ":9000")
	t.Setenv(EnvTickInterval, "250ms")
	t.Setenv(EnvCatalog, "/etc/clicker/catalog.yaml")
	t.Setenv(EnvAllowedOrigin, "https://example.com")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	want := Config{
		Addr:          ":9000",
		TickInterval:  250 * time.Millisecond,
		CatalogPath:   "/etc/clicker/catalog.yaml",
		AllowedOrigin: "https://example.com",
	}
	if cfg != want {
		t.Fatalf("expected %+v got %+v", want, cfg)
	}
}

func TestFromEnvRejectsBadInterval(t *testing.T) {
	for _, v := range []string{"soon", "0s", "-1s"} {
		t.Setenv(EnvTickInterval, v)
		if _, err := FromEnv(); err == nil {
			t.Fatalf("expected error for %q", v)
		}
	}
}

func TestLoadReadsEnvFile(t *testing.T) {
	t.Setenv(EnvAddr, "")
	os.Unsetenv(EnvAddr)

	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("CLICKER_ADDR=:7070\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":7070" {
		t.Fatalf("expected addr from env file got %q", cfg.Addr)
	}
	os.Unsetenv(EnvAddr)
}

func TestLoadMissingEnvFileIsNotAnError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("expected missing file to be ignored got %v", err)
	}
}
