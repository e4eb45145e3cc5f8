package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type nodeSection struct {
	Identifier string `mapstructure:"identifier"`
}

type cascadeSection struct {
	Hosts       []string      `mapstructure:"hosts"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Parallelism int           `mapstructure:"parallelism"`
	Enabled     bool          `mapstructure:"cascade_enabled"`
}

type testConfig struct {
	ServiceConfig `mapstructure:",squash"`
	Node          nodeSection    `mapstructure:"node"`
	Cascade       cascadeSection `mapstructure:"cascade"`
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestServiceConfig_ApplyDefaults(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		cfg := ServiceConfig{Name: "cascade"}
		cfg.ApplyDefaults()
		if cfg.Environment != "development" {
			t.Errorf("Environment = %q", cfg.Environment)
		}
		if cfg.Logging.ServiceName != "cascade" || cfg.Logging.Level != "info" {
			t.Errorf("Logging = %+v", cfg.Logging)
		}
	})

	t.Run("debug", func(t *testing.T) {
		cfg := ServiceConfig{Name: "cascade", Debug: true}
		cfg.ApplyDefaults()
		if cfg.Logging.Level != "debug" {
			t.Errorf("Level = %q, want debug", cfg.Logging.Level)
		}
	})

	t.Run("debug keeps explicit level", func(t *testing.T) {
		cfg := ServiceConfig{Name: "cascade", Debug: true}
		cfg.Logging.Level = "warn"
		cfg.ApplyDefaults()
		if cfg.Logging.Level != "warn" {
			t.Errorf("Level = %q, want warn", cfg.Logging.Level)
		}
	})
}

func TestServiceConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		cfg    ServiceConfig
		errMsg string
	}{
		{"valid", ServiceConfig{Name: "cascade", Environment: "production"}, ""},
		{"missing name", ServiceConfig{Environment: "production"}, "config.name is required"},
		{"bad environment", ServiceConfig{Name: "cascade", Environment: "qa"}, "config.environment must be one of"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.Logging.ApplyDefaults()
			err := tt.cfg.Validate()
			if tt.errMsg == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.errMsg) {
				t.Fatalf("error = %v, want containing %q", err, tt.errMsg)
			}
		})
	}
}

func TestLoadConfig_YAMLKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", `
name: cascade
environment: staging
cascade:
  hosts:
    - http://node-b:8080
    - http://node-c:8080
  timeout: 5s
`)

	cfg := testConfig{Cascade: cascadeSection{Parallelism: 2, Enabled: true}}
	if err := LoadConfig("cascade", &cfg, WithConfigFile(path), WithEnvPrefix("CASCADETEST")); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Name != "cascade" || cfg.Environment != "staging" {
		t.Errorf("service = %+v", cfg.ServiceConfig)
	}
	if len(cfg.Cascade.Hosts) != 2 || cfg.Cascade.Hosts[1] != "http://node-c:8080" {
		t.Errorf("Hosts = %v", cfg.Cascade.Hosts)
	}
	if cfg.Cascade.Timeout != 5*time.Second {
		t.Errorf("Timeout = %s", cfg.Cascade.Timeout)
	}
	if cfg.Cascade.Parallelism != 2 || !cfg.Cascade.Enabled {
		t.Errorf("defaults lost: %+v", cfg.Cascade)
	}
}

func TestLoadConfig_EnvPrefixOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", "name: cascade\ncascade:\n  parallelism: 2\n")
	t.Setenv("CASCADETEST_CASCADE_PARALLELISM", "8")
	t.Setenv("CASCADETEST_NODE_IDENTIFIER", "node-a")
	t.Setenv("NODE_IDENTIFIER", "unprefixed")

	var cfg testConfig
	if err := LoadConfig("cascade", &cfg, WithConfigFile(path), WithEnvPrefix("CASCADETEST_")); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Cascade.Parallelism != 8 {
		t.Errorf("Parallelism = %d, want 8", cfg.Cascade.Parallelism)
	}
	if cfg.Node.Identifier != "node-a" {
		t.Errorf("Identifier = %q, want node-a", cfg.Node.Identifier)
	}
}

func TestLoadConfig_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", "name: cascade\n")
	envFile := writeFile(t, dir, ".env", "CASCADEENV_NODE_IDENTIFIER=from-dotenv\n")
	t.Cleanup(func() { os.Unsetenv("CASCADEENV_NODE_IDENTIFIER") })

	var cfg testConfig
	err := LoadConfig("cascade", &cfg, WithConfigFile(path), WithEnvFile(envFile), WithEnvPrefix("CASCADEENV"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Node.Identifier != "from-dotenv" {
		t.Errorf("Identifier = %q", cfg.Node.Identifier)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("explicit file missing", func(t *testing.T) {
		var cfg testConfig
		err := LoadConfig("cascade", &cfg, WithConfigFile("/nonexistent/config.yml"))
		if err == nil || !strings.Contains(err.Error(), "not found") {
			t.Fatalf("error = %v", err)
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "config.yml", "cascade: [unclosed\n")
		var cfg testConfig
		if err := LoadConfig("cascade", &cfg, WithConfigFile(path)); err == nil {
			t.Fatal("expected parse error")
		}
	})
}

type fakeFS struct {
	files map[string]bool
	home  string
}

func (f *fakeFS) Exists(path string) bool      { return f.files[path] }
func (f *fakeFS) LoadEnv(string) error         { return nil }
func (f *fakeFS) UserHomeDir() (string, error) { return f.home, nil }

func TestResolver_ResolveFiles(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		want  string
	}{
		{"cmd dir", []string{"./cmd/cascade/config.yml", "./config.yml"}, "./cmd/cascade/config.yml"},
		{"named file", []string{"./cascade.yml"}, "./cascade.yml"},
		{"user config", []string{"/home/op/.config/cascade/config.yml"}, "/home/op/.config/cascade/config.yml"},
		{"system config", []string{"/etc/cascade/config.yml"}, "/etc/cascade/config.yml"},
		{"none", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := &fakeFS{files: map[string]bool{}, home: "/home/op"}
			for _, f := range tt.files {
				fs.files[f] = true
			}
			got := (&Resolver{FileSystem: fs}).ResolveFiles("cascade", LoaderConfig{})
			if got.ConfigFile != tt.want {
				t.Errorf("ConfigFile = %q, want %q", got.ConfigFile, tt.want)
			}
		})
	}
}

func TestResolver_ExplicitPathsWin(t *testing.T) {
	fs := &fakeFS{files: map[string]bool{"./config.yml": true, ".env": true}}
	got := (&Resolver{FileSystem: fs}).ResolveFiles("cascade", LoaderConfig{ConfigFile: "/srv/node.yml", EnvFile: "/srv/node.env"})
	if got.ConfigFile != "/srv/node.yml" || got.EnvFile != "/srv/node.env" {
		t.Errorf("ResolveFiles = %+v", got)
	}
}

func TestGenerateEnvKeyVariants(t *testing.T) {
	got := generateEnvKeyVariants("CASCADE_ACTION_DESCRIPTION")
	for _, want := range []string{"cascade_action_description", "cascade.action_description", "cascade.action.description"} {
		found := false
		for _, v := range got {
			if v == want {
				found = true
			}
		}
		if !found {
			t.Errorf("variants %v missing %q", got, want)
		}
	}
	if got := generateEnvKeyVariants("DEBUG"); len(got) != 1 || got[0] != "debug" {
		t.Errorf("single part = %v", got)
	}
}
