// Command smoke runs the HTTP service in process over a throwaway database,
// drives it through the remote backend and renders the TUI against it.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yiblet/sipp/internal/backend"
	"github.com/yiblet/sipp/internal/clipboard/mockboard"
	"github.com/yiblet/sipp/internal/highlight"
	"github.com/yiblet/sipp/internal/server"
	"github.com/yiblet/sipp/internal/store/dbstore"
	"github.com/yiblet/sipp/internal/tui"
)

const apiKey = "smoke-key"

func main() {
	dir, err := os.MkdirTemp("", "sipp-smoke")
	if err != nil {
		log.Fatalf("Error creating temp dir: %v", err)
	}
	defer os.RemoveAll(dir)

	st, err := dbstore.NewSQLiteStore(filepath.Join(dir, "sipp.sqlite"))
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}
	defer st.Close()

	srv, err := server.New(server.Config{APIKey: apiKey}, st, nil)
	if err != nil {
		log.Fatalf("Error creating server: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	fmt.Println("Remote backend round trip")
	fmt.Println("=========================")

	ctx := context.Background()
	b := backend.NewRemote(ts.URL, apiKey)

	first := check(b.Create(ctx, "hello.go", "package main\n\nfunc main() {}\n"))
	check(b.Create(ctx, "notes.md", "# Notes\n\n- one\n- two\n"))
	fmt.Printf("Created %s and notes.md\n", first.ShortID)

	updated := check(b.Update(ctx, first.ShortID, "hello.go", "package main\n\nfunc main() {\n\tprintln(\"hi\")\n}\n"))
	if updated == nil {
		log.Fatalf("Update reported %s missing", first.ShortID)
	}
	fmt.Println("Updated hello.go")

	list := check(b.List(ctx))
	fmt.Printf("Listed %d snippets, newest %s\n", len(list), list[0].Name)

	denied := backend.NewRemote(ts.URL, "wrong")
	if _, err := denied.Delete(ctx, first.ShortID); err == nil {
		log.Fatalf("Delete with a wrong key succeeded")
	} else {
		fmt.Printf("Wrong key rejected: %v\n", err)
	}

	fmt.Println()
	fmt.Println("TUI render")
	fmt.Println("==========")

	session := tui.NewSession(b, list, tui.Options{
		LinkBase:  ts.URL,
		Clipboard: mockboard.New(),
		OpenURL:   func(string) error { return nil },
	})
	model := tui.NewAppModel(session, highlight.New(""))
	model.Update(tea.WindowSizeMsg{Width: 120, Height: 20})

	lines := strings.Split(model.View(), "\n")
	fmt.Printf("Rendered view (%d lines):\n", len(lines))
	fmt.Println(strings.Repeat("=", 120))
	for i, line := range lines {
		fmt.Printf("Line %2d: %s\n", i, line)
	}
	fmt.Println(strings.Repeat("=", 120))

	if len(lines) != 20 {
		log.Fatalf("Expected 20 lines, got %d", len(lines))
	}
	for _, line := range lines[1 : len(lines)-2] {
		if strings.Count(line, "│") < 4 {
			log.Fatalf("Pane borders broken on line %q", line)
		}
	}

	model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	if remaining := check(b.List(ctx)); len(remaining) != 1 {
		log.Fatalf("Expected 1 snippet after delete, got %d", len(remaining))
	}
	fmt.Println("Deleted through the TUI")

	fmt.Println("\nSmoke test passed!")
}

func check[T any](v T, err error) T {
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	return v
}
