package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/google/go-cmp/cmp"
)

// fakeBucket is an in-memory objectAPI.
type fakeBucket struct {
	mu      sync.Mutex
	name    string
	objects map[string][]byte
	puts    int
	getErr  error
}

func newFakeBucket(name string) *fakeBucket {
	return &fakeBucket{name: name, objects: map[string][]byte{}}
}

func (b *fakeBucket) HeadBucket(_ context.Context, in *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if aws.ToString(in.Bucket) != b.name {
		return nil, &smithy.GenericAPIError{Code: "NotFound", Message: "no such bucket"}
	}
	return &s3.HeadBucketOutput{}, nil
}

func (b *fakeBucket) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.getErr != nil {
		return nil, b.getErr
	}
	data, ok := b.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &smithy.GenericAPIError{Code: "NoSuchKey", Message: "missing"}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (b *fakeBucket) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[aws.ToString(in.Key)] = data
	b.puts++
	return &s3.PutObjectOutput{}, nil
}

func TestS3StoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	bucket := newFakeBucket("toybox")
	store := NewS3Store(bucket, S3Config{Bucket: "toybox"})

	if err := store.EnsureBucket(ctx); err != nil {
		t.Fatalf("EnsureBucket() error = %v", err)
	}

	toys, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() on empty bucket: %v", err)
	}
	if len(toys) != 0 {
		t.Fatalf("List() = %v, want empty", toys)
	}

	for _, toy := range sampleToys {
		if _, err := store.Create(ctx, toy); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := store.Create(ctx, sampleToys[0]); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("Create() duplicate error = %v, want ErrDuplicateID", err)
	}

	likes := 11
	if _, err := store.Update(ctx, 3, ToyPatch{Likes: &likes}); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(ctx, 1); !errors.Is(err, ErrToyNotFound) {
		t.Fatalf("Delete() missing error = %v, want ErrToyNotFound", err)
	}

	// a fresh store over the same bucket sees the saved object
	reopened := NewS3Store(bucket, S3Config{Bucket: "toybox", Key: "toys.json"})
	got, err := reopened.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []Toy{sampleToys[1], {ID: 3, Name: "Mr. Potato Head", Image: "https://example.com/potato.png", Likes: 11}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("toys mismatch (-want +got):\n%s", diff)
	}

	toy, err := reopened.Get(ctx, 2)
	if err != nil || toy.Name != "Buzz Lightyear" {
		t.Fatalf("Get(2) = %+v, %v", toy, err)
	}
	if bucket.puts != 5 {
		t.Fatalf("puts = %d, want 5", bucket.puts)
	}
}

func TestS3StoreMissingBucket(t *testing.T) {
	store := NewS3Store(newFakeBucket("other"), S3Config{Bucket: "toybox"})
	err := store.EnsureBucket(context.Background())
	if err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Fatalf("EnsureBucket() error = %v", err)
	}
}

func TestS3StoreLoadErrors(t *testing.T) {
	ctx := context.Background()

	bucket := newFakeBucket("toybox")
	bucket.getErr = &smithy.GenericAPIError{Code: "AccessDenied"}
	store := NewS3Store(bucket, S3Config{Bucket: "toybox"})
	if _, err := store.List(ctx); err == nil {
		t.Fatal("List() error = nil, want access error")
	}

	bucket = newFakeBucket("toybox")
	bucket.objects["toys.json"] = []byte("{not json")
	store = NewS3Store(bucket, S3Config{Bucket: "toybox"})
	if _, err := store.Create(ctx, Toy{Name: "Slinky"}); err == nil {
		t.Fatal("Create() error = nil, want decode error")
	}
	if bucket.puts != 0 {
		t.Fatalf("puts = %d, want 0 after a failed load", bucket.puts)
	}
}

func TestNewS3ClientRequiresEndpoint(t *testing.T) {
	if _, err := NewS3Client(S3Config{}); err == nil {
		t.Fatal("NewS3Client() error = nil, want missing endpoint")
	}
}

func TestAPIOverS3Store(t *testing.T) {
	h := newAPIRouter(NewS3Store(newFakeBucket("toybox"), S3Config{Bucket: "toybox"}))
	if rec := doJSON(t, h, "POST", "/toys", Toy{ID: 4, Name: "Woody", Likes: 4}); rec.Code != 201 {
		t.Fatalf("POST status = %d", rec.Code)
	}
	rec := doJSON(t, h, "GET", "/toys", nil)
	if diff := cmp.Diff([]Toy{{ID: 4, Name: "Woody", Likes: 4}}, decodeToys(t, rec)); diff != "" {
		t.Fatalf("toys mismatch (-want +got):\n%s", diff)
	}
}
