package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tliron/commonlog"

	"github.com/kittenlang/kitten/manifest"
	"github.com/kittenlang/kitten/store"
)

// handleCacheCommand processes the `kittenc cache` subcommand. The cache
// database location comes from kitten.toml in the current project.
func handleCacheCommand(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: kittenc cache <list|add|delete|prune> [args]")
		os.Exit(2)
	}
	log := commonlog.GetLogger("kittenc.cache")

	m, err := manifest.FindAndLoad(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading manifest: %v\n", err)
		os.Exit(1)
	}
	if m == nil {
		fmt.Fprintln(os.Stderr, "Error: no kitten.toml found")
		os.Exit(1)
	}

	dbPath := m.CachePath()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating cache directory: %v\n", err)
		os.Exit(1)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening cache: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()
	log.Infof("cache database %s", dbPath)

	switch args[0] {
	case "list":
		entries, err := s.List()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing cache: %v\n", err)
			os.Exit(1)
		}
		if len(entries) == 0 {
			fmt.Println("cache is empty")
			return
		}
		for _, e := range entries {
			fmt.Printf("%s  %s  %-12s  %7d bytes  %s\n",
				e.ID, e.Hash[:12], e.Project, e.Size, e.CreatedAt.Format("2006-01-02 15:04:05"))
		}

	case "add":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "Usage: kittenc cache add <image>")
			os.Exit(2)
		}
		data, err := os.ReadFile(args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", args[1], err)
			os.Exit(1)
		}
		id, err := s.Put(m.Project.Name, data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error caching image: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(id)

	case "delete":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "Usage: kittenc cache delete <id>")
			os.Exit(2)
		}
		if err := s.Delete(args[1]); err != nil {
			fmt.Fprintf(os.Stderr, "Error deleting %s: %v\n", args[1], err)
			os.Exit(1)
		}

	case "prune":
		removed, err := s.Prune(m.Project.Name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error pruning cache: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("removed %d image(s)\n", removed)

	default:
		fmt.Fprintf(os.Stderr, "Unknown cache command: %s\n", args[0])
		os.Exit(2)
	}
}
