// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind a small Client interface so that
// callers can be tested against the mock in core/storage/mocks.
//
// # Operations
//
//   - BucketExists: Verifies access to the target bucket.
//   - GetObject / ReadObject: Retrieves content (seed documents).
//   - PutObject / WriteObject: Uploads content (mirror snapshots).
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	data, err := storage.ReadObject(ctx, client, cfg.Storage.Bucket, "seeds/store.json")
package storage
