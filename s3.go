package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

const s3Timeout = 10 * time.Second

// NewS3Client initializes an S3 client using the provided configuration.
// It is compatible with MinIO and other S3-compatible services.
func NewS3Client(cfg S3Config) (*s3.Client, error) {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		return nil, errors.New("S3 endpoint is required")
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("invalid S3 endpoint: %w", err)
	}
	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.DisableChecksum {
			o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
			o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
		}
	}), nil
}

// objectAPI is the subset of *s3.Client used by S3Store.
type objectAPI interface {
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, opts ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store keeps the whole collection as a single JSON object.
type S3Store struct {
	client objectAPI
	bucket string
	key    string

	// serializes read-modify-write cycles on the object
	mu sync.Mutex
}

func NewS3Store(client objectAPI, cfg S3Config) *S3Store {
	key := cfg.Key
	if key == "" {
		key = "toys.json"
	}
	return &S3Store{client: client, bucket: cfg.Bucket, key: key}
}

func (s *S3Store) EnsureBucket(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s3Timeout)
	defer cancel()
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: &s.bucket,
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFound" {
			return fmt.Errorf("bucket %s does not exist", s.bucket)
		}
		return fmt.Errorf("error checking bucket: %w", err)
	}
	return nil
}

func (s *S3Store) load(ctx context.Context) ([]Toy, error) {
	ctx, cancel := context.WithTimeout(ctx, s3Timeout)
	defer cancel()
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    aws.String(s.key),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && (apiErr.ErrorCode() == "NoSuchKey" || apiErr.ErrorCode() == "NotFound") {
			log.Printf("%s not found on S3, returning empty collection", s.key)
			return []Toy{}, nil
		}
		return nil, fmt.Errorf("error loading toys from S3: %w", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading toys data: %w", err)
	}
	var toys []Toy
	if err := json.Unmarshal(data, &toys); err != nil {
		return nil, fmt.Errorf("error decoding toys json: %w", err)
	}
	return toys, nil
}

func (s *S3Store) save(ctx context.Context, toys []Toy) error {
	ctx, cancel := context.WithTimeout(ctx, s3Timeout)
	defer cancel()
	data, err := json.Marshal(toys)
	if err != nil {
		return fmt.Errorf("error encoding toys json: %w", err)
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("error saving toys to S3: %w", err)
	}
	return nil
}

func (s *S3Store) List(ctx context.Context) ([]Toy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *S3Store) Get(ctx context.Context, id int) (Toy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	toys, err := s.load(ctx)
	if err != nil {
		return Toy{}, err
	}
	i := findToyIndex(toys, id)
	if i == -1 {
		return Toy{}, ErrToyNotFound
	}
	return toys[i], nil
}

func (s *S3Store) Create(ctx context.Context, toy Toy) (Toy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	toys, err := s.load(ctx)
	if err != nil {
		return Toy{}, err
	}
	toys, toy, err = insertToy(toys, toy)
	if err != nil {
		return Toy{}, err
	}
	if err := s.save(ctx, toys); err != nil {
		return Toy{}, err
	}
	return toy, nil
}

func (s *S3Store) Update(ctx context.Context, id int, patch ToyPatch) (Toy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	toys, err := s.load(ctx)
	if err != nil {
		return Toy{}, err
	}
	i := findToyIndex(toys, id)
	if i == -1 {
		return Toy{}, ErrToyNotFound
	}
	patch.apply(&toys[i])
	if err := s.save(ctx, toys); err != nil {
		return Toy{}, err
	}
	return toys[i], nil
}

func (s *S3Store) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	toys, err := s.load(ctx)
	if err != nil {
		return err
	}
	toys, err = removeToy(toys, id)
	if err != nil {
		return err
	}
	return s.save(ctx, toys)
}
