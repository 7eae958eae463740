package checks

import (
	"context"
	"fmt"

	"section-mirror/core/storage"
)

// StorageReport is the result of a storage check.
type StorageReport struct {
	Bucket string `json:"bucket"`
	Exists bool   `json:"exists"`
}

// CheckStorage verifies that the bucket holding seeds and snapshots exists.
func CheckStorage(ctx context.Context, client storage.Client, bucket string) (*StorageReport, error) {
	if client == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	return &StorageReport{Bucket: bucket, Exists: exists}, nil
}
