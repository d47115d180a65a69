// Command upload pushes a local file through the three-step upload protocol:
// presign, direct PUT to object storage, completion.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"mime"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"filehub/uploader"
)

func main() {
	var (
		server  = flag.String("server", envOr("FILEHUB_SERVER", "http://localhost:8080"), "base URL of the upload API")
		token   = flag.String("token", os.Getenv("FILEHUB_TOKEN"), "bearer token identifying the owner")
		name    = flag.String("name", "", "filename to record (defaults to the local file's name)")
		mimeTyp = flag.String("type", "", "MIME type (defaults from the file extension)")
		quiet   = flag.Bool("quiet", false, "suppress progress output")
		timeout = flag.Duration("timeout", 5*time.Minute, "overall timeout for the upload")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <file>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	if *token == "" {
		log.Fatal("no token: set -token or FILEHUB_TOKEN")
	}

	path := flag.Arg(0)
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		log.Fatalf("stat %s: %v", path, err)
	}

	filename := *name
	if filename == "" {
		filename = filepath.Base(path)
	}
	mimeType := *mimeTyp
	if mimeType == "" {
		mimeType = mime.TypeByExtension(filepath.Ext(filename))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	var progress uploader.ProgressFunc
	if !*quiet {
		progress = func(sent, total int64) {
			fmt.Fprintf(os.Stderr, "\r%d/%d bytes", sent, total)
		}
	}

	client := uploader.New(*server, *token,
		uploader.WithHTTPClient(&http.Client{Timeout: *timeout}))

	file, err := client.Upload(ctx, f, filename, mimeType, info.Size(), progress)
	if !*quiet {
		fmt.Fprintln(os.Stderr)
	}
	if err != nil {
		log.Fatalf("upload failed: %v", err)
	}

	fmt.Printf("uploaded %s\n  id:     %s\n  key:    %s\n  status: %s\n", file.Filename, file.ID, file.StorageKey, file.Status)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
