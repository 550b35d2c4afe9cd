package main

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/devcomb/theia/internal/server"
)

func main() {
	// Set up logging
	commonlog.Configure(1, nil)

	// Create logs directory if it doesn't exist
	logsDir := filepath.Join(os.TempDir(), "theia")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		log.Fatalf("Failed to create logs directory: %v", err)
	}

	// Open log file
	logFile, err := os.OpenFile(
		filepath.Join(logsDir, "theia.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer logFile.Close()

	// Set up multi-writer for logging
	multiWriter := io.MultiWriter(os.Stderr, logFile)
	log.SetOutput(multiWriter)
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
	log.Println("Starting Theia overlay server...")

	// Initialize the server
	srv, err := server.NewServer()
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	// Run the server
	if err := srv.RunStdio(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
