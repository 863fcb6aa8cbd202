// Package storage writes collection snapshots to Cloud Storage. The backup
// command in the CLI streams Firestore documents through it.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/storage"
)

// SnapshotWriter writes one JSON object per collection under a timestamped
// prefix in the configured bucket.
type SnapshotWriter struct {
	client *storage.Client
	bucket string
}

// NewSnapshotWriter constructs a SnapshotWriter.
func NewSnapshotWriter(client *storage.Client, bucket string) *SnapshotWriter {
	if client == nil {
		panic("storage client is required")
	}
	if strings.TrimSpace(bucket) == "" {
		panic("storage bucket is required")
	}
	return &SnapshotWriter{client: client, bucket: bucket}
}

// SnapshotDocument is one document in a collection snapshot.
type SnapshotDocument struct {
	ID   string         `json:"id"`
	Data map[string]any `json:"data"`
}

// WriteCollection serializes the documents as a JSON array into
// {prefix}/{collection}.json and returns the object path.
func (w *SnapshotWriter) WriteCollection(ctx context.Context, prefix, collection string, docs []SnapshotDocument) (string, error) {
	objectPath, err := ObjectPath(prefix, collection)
	if err != nil {
		return "", err
	}

	ow := w.client.Bucket(w.bucket).Object(objectPath).NewWriter(ctx)
	ow.ContentType = "application/json"

	enc := json.NewEncoder(ow)
	enc.SetIndent("", "  ")
	if err := enc.Encode(docs); err != nil {
		_ = ow.Close()
		return "", fmt.Errorf("writing snapshot %s: %w", objectPath, err)
	}
	if err := ow.Close(); err != nil {
		return "", fmt.Errorf("writing snapshot %s: %w", objectPath, err)
	}
	return objectPath, nil
}

// SnapshotPrefix names one backup run, e.g. backups/20260901T093000Z.
func SnapshotPrefix(now time.Time) string {
	return "backups/" + now.UTC().Format("20060102T150405Z")
}

// ObjectPath builds the bucket-relative path for one collection snapshot.
func ObjectPath(prefix, collection string) (string, error) {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return "", fmt.Errorf("snapshot prefix is required")
	}
	collection = strings.TrimSpace(collection)
	if collection == "" || strings.ContainsAny(collection, "/.") {
		return "", fmt.Errorf("invalid collection name %q", collection)
	}
	return fmt.Sprintf("%s/%s.json", prefix, collection), nil
}
