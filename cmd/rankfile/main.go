// rankfile runs the full scoring pipeline over a listing file and writes a
// ranked CSV. One-shot batch mode: no server, no cache store.
//
// Usage:
//
//	rankfile -input listings.csv -query "leather boots" -out ranked.csv
//
// Env vars:
//
//	OPENAI_API_KEY  — embedding provider API key (required)
//	OPENAI_BASE_URL — alternative OpenAI-compatible endpoint
//	EMBEDDING_MODEL — embedding model (default: text-embedding-3-small)
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/stylerank/internal/domain"
	"github.com/kailas-cloud/stylerank/internal/repository/listingfile"
	openaiEmb "github.com/kailas-cloud/stylerank/internal/transport/openai"
	attributeuc "github.com/kailas-cloud/stylerank/internal/usecase/attribute"
	embeddinguc "github.com/kailas-cloud/stylerank/internal/usecase/embedding"
	indexuc "github.com/kailas-cloud/stylerank/internal/usecase/index"
	pipelineuc "github.com/kailas-cloud/stylerank/internal/usecase/pipeline"
	rankuc "github.com/kailas-cloud/stylerank/internal/usecase/rank"
	valueuc "github.com/kailas-cloud/stylerank/internal/usecase/value"
)

func main() {
	cfg := parseFlags()

	ctx, cancel := signal.NotifyContext(
		context.Background(), syscall.SIGTERM, syscall.SIGINT,
	)
	defer cancel()

	if err := run(ctx, cfg); err != nil {
		cancel()
		log.Fatal(err)
	}
}

type config struct {
	input string
	out   string
	query string
	liked string
	mode  string
	topK  int
	alpha float64
	beta  float64
	gamma float64
}

func parseFlags() config {
	cfg := config{}
	w := domain.DefaultFusionWeights()
	flag.StringVar(&cfg.input, "input", "", "listing file (.csv, .jsonl or .parquet)")
	flag.StringVar(&cfg.out, "out", "ranked.csv", "output CSV path")
	flag.StringVar(&cfg.query, "query", "", "search query")
	flag.StringVar(&cfg.liked, "liked", "", "comma-separated liked listing URLs")
	flag.StringVar(&cfg.mode, "mode", "bias_aware", "ranking mode: naive, bias_aware")
	flag.IntVar(&cfg.topK, "top-k", 0, "truncate output to top K (0=all)")
	flag.Float64Var(&cfg.alpha, "alpha", w.Alpha, "query similarity weight")
	flag.Float64Var(&cfg.beta, "beta", w.Beta, "taste score weight")
	flag.Float64Var(&cfg.gamma, "gamma", w.Gamma, "smart buy index weight")
	flag.Parse()
	return cfg
}

func run(ctx context.Context, cfg config) error {
	start := time.Now()

	if cfg.input == "" {
		return fmt.Errorf("-input is required")
	}
	if cfg.query == "" {
		return fmt.Errorf("-query is required")
	}
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}

	mode, err := rankuc.ParseMode(cfg.mode)
	if err != nil {
		return err
	}

	res, err := listingfile.Read(cfg.input)
	if err != nil {
		return fmt.Errorf("read %s: %w", cfg.input, err)
	}
	log.Printf("read %s: %d listings, %d skipped", cfg.input, len(res.Listings), res.Skipped)

	logger := zap.NewNop()
	model := env("EMBEDDING_MODEL", "text-embedding-3-small")
	base := openaiEmb.Shared(&openaiEmb.Config{
		APIKey:   apiKey,
		BaseURL:  os.Getenv("OPENAI_BASE_URL"),
		Model:    model,
		Provider: "openai",
		Logger:   logger,
	})
	embedder := embeddinguc.NewInstrumentedEmbedder(base, "openai", model, nil, logger)

	indexSvc := indexuc.New(embedder, logger)
	pipe := pipelineuc.New(
		attributeuc.NewDefault(),
		indexSvc,
		valueuc.NewDefault(),
		rankuc.New(indexSvc),
		logger,
	)

	b, err := pipe.Enrich(ctx, res.Listings)
	if err != nil {
		return fmt.Errorf("enrich: %w", err)
	}

	var likedIDs []string
	if cfg.liked != "" {
		likedIDs = strings.Split(cfg.liked, ",")
	}

	items, err := pipe.Rank(ctx, b, pipelineuc.RankRequest{
		Query:    cfg.query,
		LikedIDs: likedIDs,
		Mode:     mode,
		Weights:  domain.FusionWeights{Alpha: cfg.alpha, Beta: cfg.beta, Gamma: cfg.gamma},
		TopK:     cfg.topK,
	})
	if err != nil {
		return fmt.Errorf("rank: %w", err)
	}

	f, err := os.Create(cfg.out)
	if err != nil {
		return fmt.Errorf("create %s: %w", cfg.out, err)
	}
	defer f.Close()

	if err := listingfile.WriteRankedCSV(f, items); err != nil {
		return fmt.Errorf("write ranked csv: %w", err)
	}

	log.Printf("DONE in %s: %d ranked rows -> %s", time.Since(start).Round(time.Millisecond), len(items), cfg.out)
	return nil
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
