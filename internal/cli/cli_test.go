package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/kbukum/cascade/cascade"
	"github.com/kbukum/cascade/util"
)

func init() {
	color.NoColor = true
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func nodeConfigYAML(hosts ...string) string {
	var b strings.Builder
	b.WriteString("name: cascade\nlogging:\n  level: error\n  output: stderr\n")
	b.WriteString("node:\n  identifier: node-a\n")
	b.WriteString("cascade:\n  action_description: flush caches\n  path: /flush\n  timeout: 2s\n  hosts:\n")
	for _, h := range hosts {
		b.WriteString("    - " + h + "\n")
	}
	return b.String()
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	out, err := execute(t, "--help")
	if err != nil {
		t.Fatalf("--help: %v", err)
	}
	for _, want := range []string{"serve", "run", "--config"} {
		if !strings.Contains(out, want) {
			t.Errorf("help missing %q", want)
		}
	}
}

func TestLoadNodeConfig_Defaults(t *testing.T) {
	path := writeConfig(t, nodeConfigYAML("http://node-b:8080"))
	root := NewRootCommand()
	if err := root.ParseFlags([]string{"--config", path}); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadNodeConfig(root)
	if err != nil {
		t.Fatalf("loadNodeConfig: %v", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if !cfg.Cascade.Cascading() {
		t.Error("cascade_enabled default lost")
	}
	if cfg.Cascade.Parallelism != 2 || cfg.Cascade.Method != cascade.MethodPost {
		t.Errorf("cascade defaults = %+v", cfg.Cascade)
	}
	if cfg.Cascade.Timeout != 2*time.Second {
		t.Errorf("Timeout = %s", cfg.Cascade.Timeout)
	}
	if cfg.Server.WriteTimeout < cfg.Cascade.Timeout {
		t.Errorf("WriteTimeout %s below cascade timeout", cfg.Server.WriteTimeout)
	}
	if id, ok := cfg.Identity().LocalIdentifier(); !ok || id != "node-a" {
		t.Errorf("identity = %q %v", id, ok)
	}
}

func TestNodeConfig_Validate(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"no hosts", "name: cascade\ncascade:\n  action_description: flush\n  path: /flush\n"},
		{"no description", "name: cascade\ncascade:\n  path: /flush\n  hosts: [http://b]\n"},
		{"bad method", "name: cascade\ncascade:\n  action_description: flush\n  path: /flush\n  method: FETCH\n  hosts: [http://b]\n"},
		{"bad port", "name: cascade\nserver:\n  port: 70000\ncascade:\n  action_description: flush\n  path: /flush\n  hosts: [http://b]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := NewRootCommand()
			_ = root.ParseFlags([]string{"--config", writeConfig(t, tt.yaml)})
			cfg, err := loadNodeConfig(root)
			if err != nil {
				t.Fatalf("loadNodeConfig: %v", err)
			}
			cfg.ApplyDefaults()
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestRun_NoCascade(t *testing.T) {
	path := writeConfig(t, nodeConfigYAML("http://node-b:8080"))
	out, err := execute(t, "run", "--config", path, "--no-cascade", "--data", `{"region":"eu"}`, "-o", "json")
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	var results cascade.Results
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if results.CoordinatingNode != "node-a" || len(results.Results) != 1 {
		t.Fatalf("results = %+v", results)
	}
	local := results.Results["node-a"]
	if !local.Success || local.Message != `Action success: flush caches: {"region":"eu"}` {
		t.Errorf("local = %+v", local)
	}
}

func TestRun_CascadesToPeers(t *testing.T) {
	var gotQuery string
	var gotBody []byte
	peer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotBody, _ = readAll(r)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(cascade.Result{Message: "flushed", Success: true, RuntimeSeconds: util.Ptr(0.01)})
	}))
	defer peer.Close()

	path := writeConfig(t, nodeConfigYAML(peer.URL))
	out, err := execute(t, "run", "--config", path, "--data", `{"region":"eu"}`, "-o", "yaml")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if gotQuery != "cascade=false" {
		t.Errorf("peer query = %q", gotQuery)
	}
	if string(gotBody) != `{"region":"eu"}` {
		t.Errorf("peer body = %s", gotBody)
	}

	var results cascade.Results
	if err := yaml.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, out)
	}
	if r := results.Results["127.0.0.1"]; !r.Success || r.Message != "flushed" {
		t.Errorf("peer result = %+v (all %v)", r, results.Results)
	}
}

func TestRun_FailingPeer(t *testing.T) {
	peer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer peer.Close()

	path := writeConfig(t, nodeConfigYAML(peer.URL))
	out, err := execute(t, "run", "--config", path)

	var failed *FailedError
	if !errors.As(err, &failed) {
		t.Fatalf("error = %v, want *FailedError", err)
	}
	if len(failed.Keys) != 1 || failed.Keys[0] != "127.0.0.1" {
		t.Errorf("failed keys = %v", failed.Keys)
	}
	for _, want := range []string{"Cascade from node-a", "FAIL  127.0.0.1", "server: HTTP 500", "1/2 failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestRun_InvalidFlags(t *testing.T) {
	path := writeConfig(t, nodeConfigYAML("http://node-b:8080"))
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad output", []string{"run", "--config", path, "-o", "xml"}, "unknown output format"},
		{"bad json", []string{"run", "--config", path, "--data", "{nope"}, "not valid JSON"},
		{"both payloads", []string{"run", "--config", path, "--data", "{}", "--data-file", "x.json"}, "mutually exclusive"},
		{"missing config", []string{"run", "--config", "/nonexistent.yml"}, "not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestRenderTable_Warning(t *testing.T) {
	results := &cascade.Results{
		TotalRuntimeSeconds: 0.5,
		Results: map[string]cascade.Result{
			cascade.KeyLocalFallback: {Message: "Action success: flush: null", Success: true, RuntimeSeconds: util.Ptr(0.25)},
			cascade.KeyWarning:       {Message: "Unable to self-identify server"},
		},
	}
	var buf bytes.Buffer
	if err := renderTable(&buf, results); err != nil {
		t.Fatal(err)
	}
	text := buf.String()
	for _, want := range []string{"Cascade from (unidentified)", "OK    local", "WARN  warning", " 0.250s", "1/1 succeeded"} {
		if !strings.Contains(text, want) {
			t.Errorf("table missing %q:\n%s", want, text)
		}
	}
}

func TestNewNodeApp(t *testing.T) {
	path := writeConfig(t, nodeConfigYAML("http://node-b:8080", "http://node-c:8080"))
	root := NewRootCommand()
	_ = root.ParseFlags([]string{"--config", path})
	cfg, err := loadNodeConfig(root)
	if err != nil {
		t.Fatal(err)
	}

	app, err := newNodeApp(cfg, root)
	if err != nil {
		t.Fatalf("newNodeApp: %v", err)
	}
	if app.Components.Get("http-server") == nil || app.Components.Get("telemetry") == nil {
		t.Fatalf("components = %v", app.Components.All())
	}
	details := map[string]string{}
	for _, d := range app.Summary.Details() {
		details[d.Label] = d.Value
	}
	if details["node"] != "node-a" || details["peers"] != "http://node-b:8080, http://node-c:8080" {
		t.Errorf("summary details = %v", details)
	}
}

func TestRoutePath(t *testing.T) {
	tests := map[string]string{
		"/flush":         "/flush",
		"/flush?dry=1":   "/flush",
		"?only=query":    "/",
		"/api/v1/cache/": "/api/v1/cache/",
	}
	for in, want := range tests {
		if got := routePath(in); got != want {
			t.Errorf("routePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func readAll(r *http.Request) ([]byte, error) {
	var buf bytes.Buffer
	_, err := buf.ReadFrom(r.Body)
	return buf.Bytes(), err
}
