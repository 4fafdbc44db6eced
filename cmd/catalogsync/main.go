package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"skill-compass/internal/catalog"
	"skill-compass/internal/config"
	"skill-compass/internal/scraper"
)

func main() {
	workers := flag.Int("workers", 4, "concurrent link checks")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall check timeout")
	jsonOut := flag.Bool("json", false, "print results as JSON")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	rules, err := catalog.LoadRules(cfg.Data.JobRulesPath, cfg.Data.CourseCatalogPath)
	if err != nil {
		log.Fatalf("failed to load course catalog: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	checker := scraper.NewCatalogChecker(*workers, log.Default())
	results := checker.Check(ctx, rules.CourseCatalog)
	summary := scraper.Summarize(results)

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(map[string]any{"summary": summary, "results": results})
	} else {
		for _, r := range results {
			if r.OK {
				log.Printf("ok code=%s status=%d url=%s", r.Code, r.Status, r.URL)
			} else {
				log.Printf("broken code=%s status=%d url=%s err=%s", r.Code, r.Status, r.URL, r.Error)
			}
		}
		log.Printf("checked=%d ok=%d broken=%d", summary.Checked, summary.OK, summary.Broken)
	}

	if summary.Broken > 0 {
		os.Exit(1)
	}
}
