package gcp

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// NewHistoryClient connects to Firestore in projectID and checks that collection can be read.
// Identifier validation happens in config.Load.
func NewHistoryClient(ctx context.Context, projectID, collection string) (*firestore.Client, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client for project %s: %w", projectID, err)
	}

	it := client.Collection(collection).Limit(1).Documents(ctx)
	defer it.Stop()
	if _, err := it.Next(); err != nil && !errors.Is(err, iterator.Done) {
		_ = client.Close()
		return nil, fmt.Errorf("failed to read history collection %s: %w", collection, err)
	}
	return client, nil
}

// NewStorageClient creates a Cloud Storage client and checks that bucket is reachable.
func NewStorageClient(ctx context.Context, bucket string) (*storage.Client, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Storage client: %w", err)
	}
	if _, err := client.Bucket(bucket).Attrs(ctx); err != nil {
		_ = client.Close()
		if errors.Is(err, storage.ErrBucketNotExist) {
			return nil, fmt.Errorf("bucket %s does not exist", bucket)
		}
		return nil, fmt.Errorf("failed to access bucket %s: %w", bucket, err)
	}
	return client, nil
}
