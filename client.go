package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ToyClient talks to the /toys REST resource.
type ToyClient struct {
	baseURL string
	accept  string
	http    *http.Client
}

// PostResult is what came back from a create request. Callers are free to
// ignore it, but have to do so explicitly.
type PostResult struct {
	StatusCode int
}

func NewToyClient(cfg ClientConfig, hc *http.Client) *ToyClient {
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	return &ToyClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		accept:  cfg.AcceptHeader,
		http:    hc,
	}
}

func (c *ToyClient) toysURL() string {
	return c.baseURL + "/toys"
}

// List fetches the whole collection. Nothing is returned unless the full
// body decodes.
func (c *ToyClient) List(ctx context.Context) ([]Toy, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.toysURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", c.toysURL(), err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("GET %s: %s", c.toysURL(), resp.Status)
	}
	var toys []Toy
	if err := json.NewDecoder(resp.Body).Decode(&toys); err != nil {
		return nil, fmt.Errorf("decode toys: %w", err)
	}
	return toys, nil
}

// Create posts toy as JSON. The response body is discarded; only transport
// failures are reported as errors.
func (c *ToyClient) Create(ctx context.Context, toy Toy) (PostResult, error) {
	data, err := json.Marshal(toy)
	if err != nil {
		return PostResult{}, fmt.Errorf("encode toy: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.toysURL(), bytes.NewReader(data))
	if err != nil {
		return PostResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", c.accept)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return PostResult{}, fmt.Errorf("POST %s: %w", c.toysURL(), err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return PostResult{StatusCode: resp.StatusCode}, nil
}
