package configs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/yeisme/airvault/pkg/configs"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return path
}

func TestInitConfigValidatesLoadedConfig(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 0\n  reload_config: false\n")

	if err := configs.InitConfig(path); err == nil {
		t.Fatal("expected validation error for port 0")
	}
}

func TestInitConfigAcceptsDefaults(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9090\n  reload_config: false\n")

	if err := configs.InitConfig(path); err != nil {
		t.Fatalf("init config: %v", err)
	}

	if got := configs.GetConfig().Server.Port; got != 9090 {
		t.Fatalf("port = %d, want 9090", got)
	}
}

func TestInitConfigRejectsEmptyReleaseDir(t *testing.T) {
	path := writeConfig(t, "server:\n  reload_config: false\nstorage:\n  release_dir: \"\"\n")

	if err := configs.InitConfig(path); err == nil {
		t.Fatal("expected validation error for empty release_dir")
	}
}
