// Package main is the chatbot CLI entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/baudhigan/AI-driven-Chatbot/internal/cli"
	"github.com/baudhigan/AI-driven-Chatbot/internal/config"
	"github.com/baudhigan/AI-driven-Chatbot/internal/corpus"
	"github.com/baudhigan/AI-driven-Chatbot/internal/embedding"
	"github.com/baudhigan/AI-driven-Chatbot/internal/extract"
	"github.com/baudhigan/AI-driven-Chatbot/internal/models"
	"github.com/baudhigan/AI-driven-Chatbot/internal/rag"
	"github.com/baudhigan/AI-driven-Chatbot/internal/synthesizer"
	"github.com/baudhigan/AI-driven-Chatbot/internal/vector"
	"github.com/baudhigan/AI-driven-Chatbot/internal/watcher"
	"github.com/baudhigan/AI-driven-Chatbot/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/chatbot/config.yaml"

// loadConfig loads config from path. When path is the default, a
// config.yaml in the current directory takes precedence so that running
// from the project dir picks up the project's config.
func loadConfig(path string) (*config.Config, error) {
	if path == defaultConfigPath {
		if cwd, err := os.Getwd(); err == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				return config.Load(fallback)
			}
		}
	}
	return config.Load(path)
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	switch os.Args[1] {
	case "ingest":
		runIngest()
	case "ask":
		runAsk()
	case "watch":
		runWatch()
	case "list":
		runList()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("chatbot version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// components holds the initialized services behind every subcommand.
type components struct {
	Store    corpus.Store
	Embedder embedding.Embedder
	Index    vector.Index
	Service  *rag.Service
	Logger   *zap.Logger
}

func (c *components) Close() {
	if c.Service != nil {
		_ = c.Service.Close()
		return
	}
	if c.Store != nil {
		_ = c.Store.Close()
	}
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
	if c.Index != nil {
		_ = c.Index.Close()
	}
}

func initializeComponents(cfg *config.Config, debug bool) (*components, error) {
	logger, err := utils.NewLogger(cfg.Debug || debug)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	store, err := corpus.NewSQLiteStore(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus store: %w", err)
	}

	var embedder embedding.Embedder
	onnxEmbedder, err := embedding.NewONNXEmbedder(
		cfg.Embedding.ModelPath,
		cfg.Embedding.Dimensions,
		cfg.Embedding.MaxTokens,
		cfg.Embedding.CacheSize,
	)
	if err != nil {
		logger.Warn("ONNX embedder unavailable, using mock embedder", zap.Error(err))
		embedder = embedding.NewMockEmbedder(cfg.Embedding.Dimensions)
	} else {
		embedder = onnxEmbedder
	}

	var synth synthesizer.Synthesizer
	switch cfg.Synthesis.Mode {
	case config.ModeLLM:
		synth, err = synthesizer.NewLLM(synthesizer.LLMConfig{
			Model:         cfg.Synthesis.Model,
			BaseURL:       cfg.Synthesis.BaseURL,
			Temperature:   cfg.Synthesis.Temperature,
			MaxTokens:     cfg.Synthesis.MaxTokens,
			SnippetLength: cfg.Retrieval.SnippetLength,
		})
		if err != nil {
			_ = store.Close()
			_ = embedder.Close()
			return nil, fmt.Errorf("failed to create LLM synthesizer: %w", err)
		}
	default:
		synth = synthesizer.NewExtractive(cfg.Synthesis.MaxSentences, cfg.Retrieval.SnippetLength)
	}

	index := vector.NewFlatIndex()
	svc, err := rag.NewService(embedder, index, store, synth, rag.Config{
		ChunkSize:    cfg.Chunking.Size,
		ChunkOverlap: cfg.Chunking.Overlap,
		TopK:         cfg.Retrieval.TopK,
		IndexPath:    cfg.Storage.IndexPath,
	}, rag.WithLogger(logger))
	if err != nil {
		_ = store.Close()
		_ = embedder.Close()
		return nil, err
	}

	return &components{
		Store:    store,
		Embedder: embedder,
		Index:    index,
		Service:  svc,
		Logger:   logger,
	}, nil
}

func runIngest() {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	docID := fs.String("id", "", "document ID (default: generated)")
	title := fs.String("title", "", "document title (default: file name)")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: chatbot ingest [flags] <file>")
		os.Exit(1)
	}
	path := fs.Arg(0)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	comp, err := initializeComponents(cfg, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer comp.Close()

	text, err := extract.NewExtractor().Extract(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Extraction failed: %v\n", err)
		os.Exit(1)
	}
	if *title == "" {
		*title = filepath.Base(path)
	}
	id, err := comp.Service.IngestDocument(context.Background(), *docID, *title, text)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ingestion failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Document ingested: %s\n", id)
}

func runAsk() {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	topK := fs.Int("top-k", 0, "passages to retrieve (default from config)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: chatbot ask [flags] <question>")
		os.Exit(1)
	}
	question := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if question == "" {
		fmt.Println("Usage: chatbot ask [flags] <question>")
		os.Exit(1)
	}

	format := cli.OutputText
	switch *outputFormat {
	case "json":
		format = cli.OutputJSON
	case "text":
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *topK > 0 {
		cfg.Retrieval.TopK = *topK
	}
	comp, err := initializeComponents(cfg, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer comp.Close()

	answer, err := comp.Service.AnswerQuery(context.Background(), question)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Query failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteAnswer(os.Stdout, answer, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runWatch() {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if len(cfg.Watch.Directories) == 0 {
		fmt.Fprintln(os.Stderr, "No watch directories configured (watch.directories)")
		os.Exit(1)
	}
	comp, err := initializeComponents(cfg, *debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer comp.Close()
	logger := comp.Logger

	extractor := extract.NewExtractor()
	onIngest := func(path string) {
		text, err := extractor.Extract(path)
		if err != nil {
			logger.Warn("watch extract failed", zap.String("path", path), zap.Error(err))
			return
		}
		id, err := comp.Service.IngestDocument(context.Background(), "", filepath.Base(path), text)
		if err != nil {
			logger.Warn("watch ingest failed", zap.String("path", path), zap.Error(err))
			return
		}
		logger.Info("ingested dropped file", zap.String("path", path), zap.String("document_id", id))
	}

	watchOpts := []watcher.Option{}
	if cfg.Debug || *debug {
		watchOpts = append(watchOpts, watcher.WithLogger(logger))
	}
	w := watcher.NewWatcher(cfg.Watch.Directories, cfg.Watch.Extensions, onIngest, watchOpts...)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		logger.Fatal("Failed to start watcher", zap.Error(err))
	}
	defer w.Stop()
	w.SyncExistingFiles()

	logger.Info("watching drop folders", zap.Strings("dirs", w.Directories()))
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	logger.Info("Shutting down...")
}

// formatDocumentLine renders one document for the list subcommand. Long
// titles are cut so the output stays one line per document.
func formatDocumentLine(doc *models.Document) string {
	title := doc.Title
	if title == "" {
		title = "(untitled)"
	}
	return fmt.Sprintf("%s  %s  %s",
		doc.ID,
		doc.IngestedAt.Format("2006-01-02 15:04"),
		utils.Truncate(title, 60),
	)
}

func runList() {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	limit := fs.Int("limit", 50, "maximum documents to list")
	_ = fs.Parse(os.Args[2:])

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	comp, err := initializeComponents(cfg, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer comp.Close()

	docs, err := comp.Store.ListDocuments(context.Background(), *limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "List failed: %v\n", err)
		os.Exit(1)
	}
	if len(docs) == 0 {
		fmt.Println("No documents ingested yet.")
		return
	}
	for _, doc := range docs {
		fmt.Println(formatDocumentLine(doc))
	}
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	comp, err := initializeComponents(cfg, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer comp.Close()

	docs, chunks, rows, err := comp.Service.Status(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("documents:       %d\n", docs)
	fmt.Printf("chunks:          %d\n", chunks)
	fmt.Printf("index_rows:      %d\n", rows)
	fmt.Printf("chunk_size:      %d\n", cfg.Chunking.Size)
	fmt.Printf("chunk_overlap:   %d\n", cfg.Chunking.Overlap)
	fmt.Printf("embedding_dims:  %d\n", cfg.Embedding.Dimensions)
	fmt.Printf("synthesis_mode:  %s\n", cfg.Synthesis.Mode)
	fmt.Printf("database_path:   %s\n", cfg.Storage.DatabasePath)
	fmt.Printf("index_path:      %s\n", cfg.Storage.IndexPath)
}

func printUsage() {
	fmt.Println(`chatbot - Document question answering over a local corpus

Usage:
  chatbot ingest [flags] <file>     Ingest a document into the corpus
  chatbot ask [flags] <question>    Ask a question over the corpus
  chatbot watch [flags]             Watch drop folders and ingest new files
  chatbot list [flags]              List ingested documents, most recent first
  chatbot status [flags]            Show corpus and index status
  chatbot version                   Show version
  chatbot help                      Show this help

Ingest Flags:
  --config string    Config file path (default: /usr/local/etc/chatbot/config.yaml)
  --id string        Document ID (default: generated)
  --title string     Document title (default: file name)

Ask Flags:
  --config string    Config file path
  --top-k int        Passages to retrieve (default from config)
  --output string    Output format: text or json (default: text)

Watch Flags:
  --config string    Config file path
  --debug            Enable debug logging (file events, ingests)

List Flags:
  --config string    Config file path
  --limit int        Maximum documents to list (default: 50)

Examples:
  chatbot ingest --title "Leave Policy" policies/leave.pdf
  chatbot ask "How many casual leaves do I get?"
  chatbot ask --output json "expense report deadline"
  chatbot watch
  chatbot list
  chatbot status`)
}
