package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeS3 is a tiny in-memory S3 subset (GET/PUT object) behind an http.RoundTripper
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	fail    bool
}

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail {
		return &http.Response{StatusCode: http.StatusInternalServerError, Body: io.NopCloser(strings.NewReader("<Error><Code>InternalError</Code></Error>")), Header: http.Header{}}, nil
	}

	// path style: /bucket/key
	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	key := ""
	if len(parts) == 2 {
		key = parts[1]
	}

	switch req.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(req.Body)
		if dec, ok := decodeChunked(body); ok {
			body = dec
		}
		f.objects[key] = body
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(bytes.NewReader(nil)), Header: http.Header{"Etag": {"\"etag\""}}}, nil
	case http.MethodGet:
		body, ok := f.objects[key]
		if !ok {
			return &http.Response{
				StatusCode: http.StatusNotFound,
				Body:       io.NopCloser(strings.NewReader("<Error><Code>NoSuchKey</Code><Message>missing</Message></Error>")),
				Header:     http.Header{"Content-Type": {"application/xml"}},
			}, nil
		}
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(bytes.NewReader(body)), Header: http.Header{
			"Content-Length": {fmt.Sprintf("%d", len(body))},
			"Content-Type":   {"application/json"},
			"Last-Modified":  {time.Now().UTC().Format(http.TimeFormat)},
		}}, nil
	}
	return &http.Response{StatusCode: http.StatusNotImplemented, Body: io.NopCloser(bytes.NewReader(nil)), Header: http.Header{}}, nil
}

func decodeChunked(b []byte) ([]byte, bool) {
	parts := strings.Split(string(b), "\r\n")
	if len(parts) < 3 {
		return nil, false
	}
	n, err := strconv.ParseInt(strings.SplitN(parts[0], ";", 2)[0], 16, 64)
	if err != nil || n <= 0 || int64(len(parts[1])) != n || parts[2] != "0" {
		return nil, false
	}
	return []byte(parts[1]), true
}

func newFakeS3Blob(t *testing.T, fake *fakeS3, prefix string) *S3Blob {
	t.Helper()
	blob, err := NewS3Blob(context.Background(), S3Config{
		Region:          "us-east-1",
		Bucket:          "admin-bucket",
		Prefix:          prefix,
		Endpoint:        "https://mock.s3.local",
		AccessKeyID:     "AKIA",
		SecretAccessKey: "SECRET",
		PathStyle:       true,
		HTTPClient:      &http.Client{Transport: fake},
	})
	if err != nil {
		t.Fatalf("NewS3Blob: %v", err)
	}
	return blob
}

func TestS3Blob_RequiresBucket(t *testing.T) {
	if _, err := NewS3Blob(context.Background(), S3Config{}); err == nil {
		t.Fatal("Expected error without bucket")
	}
}

func TestS3Blob_GetSet(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}}
	blob := newFakeS3Blob(t, fake, "admin")
	ctx := context.Background()

	if _, ok, err := blob.Get(ctx, "ca_admin_projects"); err != nil || ok {
		t.Fatalf("Expected missing object, got ok=%v err=%v", ok, err)
	}

	if err := blob.Set(ctx, "ca_admin_projects", []byte(`[{"id":"1"}]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok := fake.objects["admin/ca_admin_projects.json"]; !ok {
		t.Errorf("Expected object under prefix, have %v", fake.objects)
	}

	data, ok, err := blob.Get(ctx, "ca_admin_projects")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if string(data) != `[{"id":"1"}]` {
		t.Errorf("Unexpected payload %q", data)
	}
}

func TestS3Blob_BackedKV(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}}
	kv := NewKV(newFakeS3Blob(t, fake, ""))
	ctx := context.Background()

	doc, err := kv.Insert(ctx, "teamMembers", Document{"name": "Ada"})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	docs, err := kv.List(ctx, "teamMembers")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(docs) != 1 || docs[0].ID() != doc.ID() {
		t.Errorf("Unexpected documents %v", docs)
	}
}

func TestS3Blob_ServerError(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}, fail: true}
	blob := newFakeS3Blob(t, fake, "")

	if _, _, err := blob.Get(context.Background(), "k"); err == nil {
		t.Error("Expected error from failing server")
	}
}
