// Command seed fills a local sipp database with sample snippets.
package main

import (
	"fmt"
	"log"

	"github.com/alexflint/go-arg"
	"github.com/yiblet/sipp/internal/store/dbstore"
)

type seedArgs struct {
	DB string `arg:"--db,env:SIPP_DB" default:"sipp.sqlite" help:"database file to seed"`
}

var samples = []struct {
	name    string
	content string
}{
	{"hello.go", "package main\n\nimport \"fmt\"\n\nfunc main() {\n\tfmt.Println(\"Hello, Go!\")\n}\n"},
	{"loop.sh", "#!/bin/bash\necho \"Starting script...\"\nfor i in {1..5}; do\n    echo \"Processing $i\"\ndone\n"},
	{"recent_users.sql", "SELECT * FROM users WHERE created_at > '2023-01-01' ORDER BY created_at DESC LIMIT 10;\n"},
	{"fib.py", "def fib(n):\n    a, b = 0, 1\n    for _ in range(n):\n        a, b = b, a + b\n    return a\n\nprint(fib(10))\n"},
	{"main.rs", "fn main() {\n    let v: Vec<u32> = (1..=5).collect();\n    println!(\"{:?}\", v);\n}\n"},
	{"docker-compose.yml", "services:\n  web:\n    image: nginx:alpine\n    ports:\n      - \"8080:80\"\n"},
	{"notes.md", "# Notes\n\n- remember the milk\n- ship the release\n"},
	{"lorem.txt", "Lorem ipsum dolor sit amet, consectetur adipiscing elit. Sed do eiusmod tempor incididunt ut labore et dolore magna aliqua.\n"},
}

func main() {
	var args seedArgs
	arg.MustParse(&args)

	st, err := dbstore.NewSQLiteStore(args.DB)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer st.Close()

	fmt.Printf("Seeding %s\n\n", st.Path())
	for i, s := range samples {
		sn, err := st.Create(s.name, s.content)
		if err != nil {
			log.Printf("Failed to create %s: %v", s.name, err)
			continue
		}
		fmt.Printf("%d. %-20s /s/%s\n", i+1, sn.Name, sn.ShortID)
	}

	all, err := st.List()
	if err != nil {
		log.Fatalf("Failed to list snippets: %v", err)
	}
	fmt.Printf("\nDatabase now holds %d snippets\n", len(all))
}
