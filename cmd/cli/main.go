package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"solven/internal/client"
)

func main() {
	server := flag.String("server", "http://localhost:8000", "Solven server base URL")
	token := flag.String("token", os.Getenv("SOLVEN_TOKEN"), "bearer token, empty for anonymous")
	folder := flag.String("folder", "", "target folder id for uploads")
	dest := flag.String("dest", ".", "destination directory for downloads")
	flag.Parse()

	args := flag.Args()
	if len(args) < 2 {
		usage()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch args[0] {
	case "upload":
		upload(ctx, *server, *token, *folder, args[1:])
	case "download":
		download(ctx, *server, *token, *dest, args[1:])
	default:
		usage()
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: solven-cli [flags] upload <file>... | download <file-id>...")
	flag.PrintDefaults()
	os.Exit(2)
}

func upload(ctx context.Context, server, token, folder string, paths []string) {
	files := make([]client.LocalFile, 0, len(paths))
	handles := make([]*os.File, 0, len(paths))
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			log.Fatalf("open %s: %v", path, err)
		}
		info, err := f.Stat()
		if err != nil {
			log.Fatalf("stat %s: %v", path, err)
		}
		handles = append(handles, f)
		files = append(files, client.LocalFile{
			Name:   filepath.Base(path),
			Size:   info.Size(),
			Reader: f,
		})
	}
	defer func() {
		for _, f := range handles {
			f.Close()
		}
	}()

	uploader := &client.Uploader{
		BaseURL: server,
		Token:   token,
		OnProgress: func(s client.FileStatus) {
			if s.State == client.StateUploading && s.PercentKnown {
				fmt.Printf("\r%s: %.0f%%", s.Name, s.Percent)
			}
		},
	}

	failed := 0
	for _, result := range uploader.UploadBatch(ctx, files, folder) {
		switch result.State {
		case client.StateUploaded:
			fmt.Printf("\r%s: uploaded (%s)\n", result.Name, result.FileID)
		case client.StateCancelled:
			fmt.Printf("\r%s: cancelled\n", result.Name)
			failed++
		default:
			fmt.Printf("\r%s: failed: %v\n", result.Name, result.Err)
			failed++
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func download(ctx context.Context, server, token, dest string, fileIDs []string) {
	downloader := &client.Downloader{
		BaseURL: server,
		Token:   token,
		OnProgress: func(e client.ProgressEvent) {
			if e.PercentKnown {
				fmt.Printf("\r%.0f%%", e.Percent)
			}
		},
	}
	for _, id := range fileIDs {
		path, err := downloader.Download(ctx, id, dest)
		if err != nil {
			log.Fatalf("download %s: %v", id, err)
		}
		fmt.Printf("\rsaved %s\n", path)
	}
}
