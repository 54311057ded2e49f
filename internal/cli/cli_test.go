package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yiblet/sipp/internal/clipboard/mockboard"
	"github.com/yiblet/sipp/internal/config"
	"github.com/yiblet/sipp/internal/server"
	"github.com/yiblet/sipp/internal/store/dbstore"
	"github.com/yiblet/sipp/internal/store/memstore"
)

type testEnv struct {
	dir    string
	cfg    *config.ConfigManager
	board  *mockboard.MockClipboard
	stdout *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	return &testEnv{
		dir:    dir,
		cfg:    config.NewConfigManagerWithPath(filepath.Join(dir, "config.yaml")),
		board:  mockboard.New(),
		stdout: &bytes.Buffer{},
	}
}

func (e *testEnv) cli(t *testing.T, args *Args, stdin string) *CLI {
	t.Helper()
	c, err := NewWithArgs(args,
		WithConfigManager(e.cfg),
		WithClipboard(e.board),
		WithIO(strings.NewReader(stdin), e.stdout),
	)
	if err != nil {
		t.Fatalf("NewWithArgs failed: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

// seedDB creates a database file holding the named snippets.
func (e *testEnv) seedDB(t *testing.T, names ...string) string {
	t.Helper()
	path := filepath.Join(e.dir, "sipp.sqlite")
	st, err := dbstore.NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("failed to create db: %v", err)
	}
	for _, n := range names {
		if _, err := st.Create(n, n+" body"); err != nil {
			t.Fatalf("failed to seed: %v", err)
		}
	}
	st.Close()
	return path
}

func strPtr(s string) *string { return &s }

func newRemoteServer(t *testing.T, apiKey string) (*httptest.Server, *memstore.MemoryStore) {
	t.Helper()
	st := memstore.NewMemoryStore()
	srv, err := server.New(server.Config{APIKey: apiKey}, st, nil)
	if err != nil {
		t.Fatalf("server.New failed: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, st
}

func TestArgsValidate(t *testing.T) {
	tests := []struct {
		name    string
		args    Args
		wantErr bool
	}{
		{"no command", Args{}, false},
		{"serve default port", Args{Serve: &ServeCmd{Host: "0.0.0.0", Port: 3000}}, false},
		{"serve bad port", Args{Serve: &ServeCmd{Port: 0}}, true},
		{"serve port too high", Args{Serve: &ServeCmd{Port: 70000}}, true},
		{"upload stdin", Args{Upload: &UploadCmd{}}, false},
		{"upload file and clipboard", Args{Upload: &UploadCmd{File: strPtr("a"), Clipboard: true}}, true},
		{"upload empty name", Args{Upload: &UploadCmd{Name: strPtr("")}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.args.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDBPathPrecedence(t *testing.T) {
	env := newTestEnv(t)

	c := env.cli(t, &Args{}, "")
	if got := c.dbPath(&config.Config{}); got != DefaultDBPath {
		t.Errorf("Expected default %s, got %s", DefaultDBPath, got)
	}
	if got := c.dbPath(&config.Config{DBLocation: "/tmp/cfg.sqlite"}); got != "/tmp/cfg.sqlite" {
		t.Errorf("Expected config location, got %s", got)
	}

	c = env.cli(t, &Args{DBPath: strPtr("/tmp/flag.sqlite")}, "")
	if got := c.dbPath(&config.Config{DBLocation: "/tmp/cfg.sqlite"}); got != "/tmp/flag.sqlite" {
		t.Errorf("Expected flag to win, got %s", got)
	}
}

func TestResolveBackend(t *testing.T) {
	t.Run("explicit remote", func(t *testing.T) {
		env := newTestEnv(t)
		path := env.seedDB(t)
		c := env.cli(t, &Args{Remote: strPtr("https://snip.example/"), DBPath: &path}, "")

		b, link, err := c.resolveBackend(&config.Config{})
		if err != nil {
			t.Fatalf("resolveBackend failed: %v", err)
		}
		if !b.IsRemote() {
			t.Error("Expected remote backend")
		}
		if link != "https://snip.example" {
			t.Errorf("Expected trimmed link base, got %s", link)
		}
	})

	t.Run("missing database falls back to configured remote", func(t *testing.T) {
		env := newTestEnv(t)
		path := filepath.Join(env.dir, "absent.sqlite")
		c := env.cli(t, &Args{DBPath: &path}, "")

		b, link, err := c.resolveBackend(&config.Config{RemoteURL: "http://cfg.example:9000"})
		if err != nil {
			t.Fatalf("resolveBackend failed: %v", err)
		}
		if !b.IsRemote() {
			t.Error("Expected remote backend")
		}
		if link != "http://cfg.example:9000" {
			t.Errorf("Expected configured remote, got %s", link)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Error("Database must not be created when falling back to remote")
		}
	})

	t.Run("missing database and no config uses default remote", func(t *testing.T) {
		env := newTestEnv(t)
		path := filepath.Join(env.dir, "absent.sqlite")
		c := env.cli(t, &Args{DBPath: &path}, "")

		_, link, err := c.resolveBackend(&config.Config{})
		if err != nil {
			t.Fatalf("resolveBackend failed: %v", err)
		}
		if link != config.DefaultRemoteURL {
			t.Errorf("Expected %s, got %s", config.DefaultRemoteURL, link)
		}
	})

	t.Run("existing database is local", func(t *testing.T) {
		env := newTestEnv(t)
		path := env.seedDB(t, "a.go")
		c := env.cli(t, &Args{DBPath: &path}, "")

		b, link, err := c.resolveBackend(&config.Config{})
		if err != nil {
			t.Fatalf("resolveBackend failed: %v", err)
		}
		if b.IsRemote() {
			t.Error("Expected local backend")
		}
		if link != localLinkBase {
			t.Errorf("Expected %s, got %s", localLinkBase, link)
		}
		list, err := b.List(context.Background())
		if err != nil || len(list) != 1 {
			t.Errorf("Expected 1 snippet, got %d (%v)", len(list), err)
		}
	})
}

func TestUploadFromStdin(t *testing.T) {
	env := newTestEnv(t)
	path := env.seedDB(t)
	c := env.cli(t, &Args{DBPath: &path, Upload: &UploadCmd{}}, "echo hi\n")

	if err := c.Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	st, err := dbstore.NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("failed to reopen db: %v", err)
	}
	defer st.Close()
	list, _ := st.List()
	if len(list) != 1 {
		t.Fatalf("Expected 1 snippet, got %d", len(list))
	}
	if list[0].Name != defaultUploadName || list[0].Content != "echo hi\n" {
		t.Errorf("Unexpected snippet %q / %q", list[0].Name, list[0].Content)
	}

	link := localLinkBase + "/s/" + list[0].ShortID
	out := env.stdout.String()
	if !strings.Contains(out, link) {
		t.Errorf("Expected link %s in output, got %q", link, out)
	}
	if !strings.Contains(out, "Copied to clipboard") {
		t.Errorf("Expected copy confirmation, got %q", out)
	}
	if string(env.board.GetData()) != link {
		t.Errorf("Expected clipboard to hold link, got %q", env.board.GetData())
	}
}

func TestUploadFromFileUsesBaseName(t *testing.T) {
	env := newTestEnv(t)
	path := env.seedDB(t)
	file := filepath.Join(env.dir, "main.go")
	if err := os.WriteFile(file, []byte("package main\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := env.cli(t, &Args{DBPath: &path, Upload: &UploadCmd{File: &file}}, "")
	if err := c.Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	st, _ := dbstore.NewSQLiteStore(path)
	defer st.Close()
	list, _ := st.List()
	if len(list) != 1 || list[0].Name != "main.go" {
		t.Errorf("Expected main.go, got %+v", list)
	}
}

func TestUploadNameOverride(t *testing.T) {
	env := newTestEnv(t)
	path := env.seedDB(t)
	c := env.cli(t, &Args{DBPath: &path, Upload: &UploadCmd{Name: strPtr("fix.diff")}}, "+a\n")

	if err := c.Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	st, _ := dbstore.NewSQLiteStore(path)
	defer st.Close()
	list, _ := st.List()
	if len(list) != 1 || list[0].Name != "fix.diff" {
		t.Errorf("Expected fix.diff, got %+v", list)
	}
}

func TestUploadFromClipboard(t *testing.T) {
	env := newTestEnv(t)
	path := env.seedDB(t)
	env.board.SetData([]byte("from the board"))

	c := env.cli(t, &Args{DBPath: &path, Upload: &UploadCmd{Clipboard: true}}, "")
	if err := c.Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	st, _ := dbstore.NewSQLiteStore(path)
	defer st.Close()
	list, _ := st.List()
	if len(list) != 1 || list[0].Content != "from the board" {
		t.Errorf("Expected clipboard content uploaded, got %+v", list)
	}
}

func TestUploadEmptyInput(t *testing.T) {
	env := newTestEnv(t)
	path := env.seedDB(t)

	c := env.cli(t, &Args{DBPath: &path, Upload: &UploadCmd{}}, "")
	if err := c.Execute(); err == nil || !strings.Contains(err.Error(), "no input") {
		t.Errorf("Expected no input error, got %v", err)
	}

	c = env.cli(t, &Args{DBPath: &path, Upload: &UploadCmd{Clipboard: true}}, "")
	if err := c.Execute(); err == nil || !strings.Contains(err.Error(), "clipboard is empty") {
		t.Errorf("Expected empty clipboard error, got %v", err)
	}
}

func TestUploadToRemote(t *testing.T) {
	env := newTestEnv(t)
	ts, st := newRemoteServer(t, "")

	c := env.cli(t, &Args{Remote: strPtr(ts.URL), Upload: &UploadCmd{}}, "remote body")
	if err := c.Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	list, _ := st.List()
	if len(list) != 1 {
		t.Fatalf("Expected 1 snippet on server, got %d", len(list))
	}
	want := ts.URL + "/s/" + list[0].ShortID
	if !strings.Contains(env.stdout.String(), want) {
		t.Errorf("Expected %s in output, got %q", want, env.stdout.String())
	}
}

func TestUploadClipboardFailureStillSucceeds(t *testing.T) {
	env := newTestEnv(t)
	path := env.seedDB(t)
	env.board.SetWriteError(os.ErrPermission)

	c := env.cli(t, &Args{DBPath: &path, Upload: &UploadCmd{}}, "x")
	if err := c.Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if strings.Contains(env.stdout.String(), "Copied") {
		t.Error("Must not claim a copy that failed")
	}
}

func TestAuthSavesCredentials(t *testing.T) {
	env := newTestEnv(t)
	c := env.cli(t, &Args{Auth: &AuthCmd{}}, "https://snip.example/\nsecret-key\n")

	if err := c.Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	cfg, err := env.cfg.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.RemoteURL != "https://snip.example" {
		t.Errorf("Expected trimmed remote URL, got %s", cfg.RemoteURL)
	}
	if cfg.APIKey != "secret-key" {
		t.Errorf("Expected key saved, got %s", cfg.APIKey)
	}

	info, err := os.Stat(env.cfg.GetConfigPath())
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("Expected 0600, got %o", info.Mode().Perm())
	}
}

func TestAuthKeepsExistingValuesOnEmptyInput(t *testing.T) {
	env := newTestEnv(t)
	if err := env.cfg.Save(&config.Config{RemoteURL: "http://old.example", APIKey: "old"}); err != nil {
		t.Fatal(err)
	}

	c := env.cli(t, &Args{Auth: &AuthCmd{}}, "\n\n")
	if err := c.Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	cfg, _ := env.cfg.Load()
	if cfg.RemoteURL != "http://old.example" || cfg.APIKey != "old" {
		t.Errorf("Expected old values kept, got %+v", cfg)
	}
}

func TestAuthRejectsBadURL(t *testing.T) {
	env := newTestEnv(t)
	c := env.cli(t, &Args{Auth: &AuthCmd{}}, "ftp://nope\nkey\n")

	if err := c.Execute(); err == nil {
		t.Error("Expected invalid URL error")
	}
}

func TestConfigCommands(t *testing.T) {
	env := newTestEnv(t)

	run := func(cmd *ConfigCmd) string {
		t.Helper()
		env.stdout.Reset()
		c := env.cli(t, &Args{Config: cmd}, "")
		if err := c.Execute(); err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
		return env.stdout.String()
	}

	out := run(&ConfigCmd{Set: &ConfigSetCmd{Key: "api-key", Value: "abcdefgh1234"}})
	if strings.Contains(out, "abcdefgh1234") {
		t.Errorf("Set must not echo the key, got %q", out)
	}

	out = run(&ConfigCmd{Get: &ConfigGetCmd{Key: "api-key"}})
	if strings.TrimSpace(out) != "********1234" {
		t.Errorf("Expected masked key, got %q", out)
	}

	run(&ConfigCmd{Set: &ConfigSetCmd{Key: "style", Value: "dracula"}})
	out = run(&ConfigCmd{Get: &ConfigGetCmd{Key: "style"}})
	if strings.TrimSpace(out) != "dracula" {
		t.Errorf("Expected dracula, got %q", out)
	}

	out = run(&ConfigCmd{List: &ConfigListCmd{}})
	for _, want := range []string{"remote-url = http://localhost:3000", "style = dracula", "api-key = ********1234"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in list output, got %q", want, out)
		}
	}

	c := env.cli(t, &Args{Config: &ConfigCmd{Set: &ConfigSetCmd{Key: "bogus", Value: "x"}}}, "")
	if err := c.Execute(); err == nil {
		t.Error("Expected unknown key error")
	}
}

func TestNewSessionInitialLoadFailure(t *testing.T) {
	env := newTestEnv(t)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	c := env.cli(t, &Args{Remote: strPtr(ts.URL)}, "")
	s, err := c.newSession(context.Background(), &config.Config{})
	if err != nil {
		t.Fatalf("newSession failed: %v", err)
	}
	if len(s.Snippets()) != 0 {
		t.Errorf("Expected empty list, got %d", len(s.Snippets()))
	}
	st, ok := s.Status()
	if !ok || st.Message != "Network error: HTTP 502 Bad Gateway" {
		t.Errorf("Expected network error status, got %q", st.Message)
	}
}

func TestNewSessionRemoteList(t *testing.T) {
	env := newTestEnv(t)
	ts, st := newRemoteServer(t, "k")
	st.Create("one.txt", "1")
	st.Create("two.txt", "2")

	c := env.cli(t, &Args{Remote: strPtr(ts.URL), APIKey: strPtr("k")}, "")
	s, err := c.newSession(context.Background(), &config.Config{APIKey: "ignored"})
	if err != nil {
		t.Fatalf("newSession failed: %v", err)
	}
	if len(s.Snippets()) != 2 || s.Snippets()[0].Name != "two.txt" {
		t.Errorf("Expected two.txt first, got %+v", s.Snippets())
	}
	if !s.AllowRefresh() {
		t.Error("Expected refresh allowed for remote")
	}
	if s.LinkBase() != ts.URL {
		t.Errorf("Expected link base %s, got %s", ts.URL, s.LinkBase())
	}
}

func TestLogFile(t *testing.T) {
	env := newTestEnv(t)
	logPath := filepath.Join(env.dir, "sipp.log")
	ts, _ := newRemoteServer(t, "")

	c := env.cli(t, &Args{Remote: strPtr(ts.URL), LogFile: &logPath}, "")
	if _, err := c.newSession(context.Background(), &config.Config{}); err != nil {
		t.Fatalf("newSession failed: %v", err)
	}
	c.Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Expected log file: %v", err)
	}
	if !strings.Contains(string(data), "/api/snippets") {
		t.Errorf("Expected request logged, got %q", data)
	}
}
