package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
)

func main() {
	configPath := flag.String("config", "config.yml", "path to the YAML config file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-config path] web|api\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	switch flag.Arg(0) {
	case "web":
		runWeb(cfg.Web)
	case "api":
		runAPI(cfg)
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func runWeb(cfg WebConfig) {
	client := NewToyClient(cfg.Client, nil)
	r := newWebRouter(NewLoader(client), NewSubmitter(client))

	log.Printf("Toy page on %s (toys from %s)", cfg.Listen, cfg.Client.BaseURL)
	log.Fatal(http.ListenAndServe(cfg.Listen, r))
}

func runAPI(cfg *Config) {
	store, err := openStore(cfg.S3)
	if err != nil {
		log.Fatalf("Failed to init store: %v", err)
	}

	log.Printf("Toy API on %s", cfg.API.Listen)
	log.Fatal(http.ListenAndServe(cfg.API.Listen, newAPIRouter(store)))
}

// openStore uses S3 when an endpoint is configured and memory otherwise.
func openStore(cfg S3Config) (ToyStore, error) {
	if cfg.Endpoint == "" {
		log.Printf("No S3 endpoint configured, keeping toys in memory")
		return NewMemoryStore(), nil
	}
	client, err := NewS3Client(cfg)
	if err != nil {
		return nil, err
	}
	store := NewS3Store(client, cfg)
	if err := store.EnsureBucket(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}
