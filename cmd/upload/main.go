package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/Rrens/academic-chat/internal/backend"
	"github.com/Rrens/academic-chat/internal/config"
	"github.com/Rrens/academic-chat/internal/logger"
	"github.com/Rrens/academic-chat/internal/service"
	"github.com/joho/godotenv"
)

// upload sends course documents to the backend without starting the UI.
// Arguments are file paths or glob patterns, e.g. upload "notes/*.pdf" syllabus.docx
func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	closer, err := logger.Setup(cfg.Logging)
	if err != nil {
		panic(fmt.Sprintf("Failed to set up logging: %v", err))
	}
	defer closer.Close()

	files, err := expand(os.Args[1:])
	if err != nil {
		panic(err)
	}
	if len(files) == 0 {
		fmt.Println("usage: upload <file|glob>...")
		os.Exit(2)
	}

	client := backend.NewClient(cfg.Backend)
	docs := service.NewDocumentService(client, service.NewDocumentValidator(cfg.Upload.MaxSize))

	fmt.Printf("Uploading %d file(s) to %s...\n", len(files), client.BaseURL())

	failed := 0
	for _, file := range files {
		doc, err := docs.Upload(context.Background(), file)
		if err != nil {
			failed++
			fmt.Printf("⚠️  %s: %v\n", file, err)
			continue
		}
		fmt.Printf("✅ %s (%s) %s\n", doc.Name, service.FormatSize(doc.Size), doc.Status)
	}

	if failed > 0 {
		os.Exit(1)
	}
}

func expand(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			matches = []string{arg}
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}
