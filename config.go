package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type S3Config struct {
	Endpoint        string `yaml:"endpoint" env:"ENDPOINT"`
	Bucket          string `yaml:"bucket" env:"BUCKET"`
	Key             string `yaml:"key" env:"KEY"`
	Region          string `yaml:"region" env:"REGION"`
	AccessKey       string `yaml:"access_key" env:"ACCESS_KEY"`
	SecretKey       string `yaml:"secret_key" env:"SECRET_KEY"`
	UsePathStyle    bool   `yaml:"use_path_style" env:"USE_PATH_STYLE"`
	DisableChecksum bool   `yaml:"disable_checksum" env:"DISABLE_CHECKSUM"`
}

// ClientConfig describes how the web process reaches the /toys resource.
type ClientConfig struct {
	BaseURL string        `yaml:"base_url" env:"BASE_URL"`
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT"`
	// AcceptHeader is sent on POST. The default keeps the historical
	// "application.json" value.
	AcceptHeader string `yaml:"accept_header" env:"ACCEPT_HEADER"`
}

type WebConfig struct {
	Listen string       `yaml:"listen" env:"LISTEN"`
	Client ClientConfig `yaml:"client" envPrefix:"CLIENT_"`
}

type APIConfig struct {
	Listen string `yaml:"listen" env:"LISTEN"`
}

type Config struct {
	Web WebConfig `yaml:"web" envPrefix:"WEB_"`
	API APIConfig `yaml:"api" envPrefix:"API_"`
	S3  S3Config  `yaml:"s3" envPrefix:"S3_"`
}

const envPrefix = "TOYBOX_"

func defaultConfig() Config {
	return Config{
		Web: WebConfig{
			Listen: ":8080",
			Client: ClientConfig{
				BaseURL:      "http://localhost:3000",
				AcceptHeader: "application.json",
			},
		},
		API: APIConfig{Listen: ":3000"},
		S3: S3Config{
			Key:    "toys.json",
			Region: "us-east-1",
		},
	}
}

// loadConfig reads path over the defaults, then applies TOYBOX_* environment
// overrides. A missing file is not an error.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	f, err := os.Open(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		defer f.Close()
		dec := yaml.NewDecoder(f)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}
