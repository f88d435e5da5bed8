package main

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"golang.org/x/sync/errgroup"

	"github.com/CubeCoding7/ECDApp/internal/dance"
	"github.com/CubeCoding7/ECDApp/internal/extraction"
	"github.com/CubeCoding7/ECDApp/internal/metrics"
	"github.com/CubeCoding7/ECDApp/internal/reference"
	"github.com/CubeCoding7/ECDApp/internal/scanning"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

// defaultPort honours the PORT variable set by most hosting platforms
func defaultPort() int {
	if port, err := strconv.Atoi(os.Getenv("PORT")); err == nil && port > 0 {
		return port
	}
	return 3000
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	fs := ff.NewFlagSet("ecdapp")
	var (
		port          = fs.IntLong("port", defaultPort(), "HTTP server port (or set PORT env var)")
		goodPath      = fs.StringLong("good", "gooddances.txt", "Good dances log")
		badPath       = fs.StringLong("bad", "baddances.txt", "Bad dances log")
		createMissing = fs.BoolLong("create-missing", "Create empty dance logs if they do not exist")
		uploadPath    = fs.StringLong("uploads", "./uploads", "Upload storage directory")
		dbPath        = fs.StringLong("db", "ecdapp.db", "Scan history database file path")
		scannerType   = fs.StringLong("scanner", "tesseract", "Scanner type: 'tesseract', 'gemini' or 'ollama'")
		language      = fs.StringLong("language", extraction.DefaultLanguage, "OCR language")
		ocrTimeout    = fs.DurationLong("ocr-timeout", extraction.DefaultTimeout, "Maximum time to recognize one image")
		ocrWorkers    = fs.IntLong("ocr-workers", 2, "Concurrent Tesseract recognitions")
		geminiKey     = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel   = fs.StringLong("gemini-model", "gemini-2.5-flash", "Google Gemini model name")
		ollamaURL     = fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel   = fs.StringLong("ollama-model", "llava", "Ollama vision model name")
		authUser      = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass      = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
		showVersion   = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("ECDAPP"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	// Load reference lists; a missing or unreadable log is fatal
	slog.Info("Loading dance lists...", "good", *goodPath, "bad", *badPath)
	refs, err := reference.Open(*goodPath, *badPath, *createMissing)
	if err != nil {
		slog.Error("Failed to load dance lists", "error", err)
		os.Exit(1)
	}
	slog.Info("Dance lists loaded", "good", refs.Good.Len(), "bad", refs.Bad.Len())

	// Initialize database
	slog.Info("Initializing database...")
	db, err := dance.NewBoltDB(*dbPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Initialize scanner based on type
	var scanner scanning.Scanner
	switch *scannerType {
	case "tesseract":
		slog.Info("Initializing Tesseract scanner...", "language", *language, "workers", *ocrWorkers)
		scanner = scanning.NewTesseract(*ocrWorkers)
	case "gemini":
		apiKey := *geminiKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			slog.Error("Gemini API key is required. Set --gemini-key flag or GEMINI_API_KEY environment variable")
			os.Exit(1)
		}
		slog.Info("Initializing Gemini scanner...", "model", *geminiModel)
		scanner, err = scanning.NewGemini(apiKey, *geminiModel)
		if err != nil {
			slog.Error("Failed to initialize Gemini", "error", err)
			os.Exit(1)
		}
	case "ollama":
		slog.Info("Initializing Ollama scanner...", "url", *ollamaURL, "model", *ollamaModel)
		scanner, err = scanning.NewOllama(*ollamaURL, *ollamaModel)
		if err != nil {
			slog.Error("Failed to initialize Ollama", "error", err)
			os.Exit(1)
		}
	default:
		slog.Error("Invalid scanner type", "type", *scannerType, "valid", "tesseract, gemini or ollama")
		os.Exit(1)
	}
	defer scanner.Close()

	// Initialize storage
	slog.Info("Initializing storage...")
	store, err := dance.NewLocalStorage(*uploadPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}

	metrics.Init()

	pipeline := extraction.New(scanner, refs, *language, *ocrTimeout)
	danceService := dance.NewService(db, pipeline, store, refs)

	basicAuth := dance.BasicAuth{
		Username: *authUser,
		Password: *authPass,
	}
	server := dance.NewServer(danceService, basicAuth)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf(":%d", *port)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start(ctx, addr)
	})

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr))
	if *authUser != "" || *authPass != "" {
		slog.Info("Basic auth enabled", "user", *authUser)
	}

	if err := g.Wait(); err != nil {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
	slog.Info("Shutdown complete")
}
