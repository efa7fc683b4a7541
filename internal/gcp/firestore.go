package gcp

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/Lllllllleong/passscan/internal/models"
	"google.golang.org/api/option"
)

// NewFirestoreClient creates and returns a new Firestore client for the given project ID.
func NewFirestoreClient(ctx context.Context, projectID string, opts ...option.ClientOption) (*firestore.Client, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID must be provided to create a firestore client")
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	return client, nil
}

// FirestoreAuditor appends one document per scanned batch to a collection.
type FirestoreAuditor struct {
	client     *firestore.Client
	collection string
}

func NewFirestoreAuditor(client *firestore.Client, collection string) *FirestoreAuditor {
	return &FirestoreAuditor{client: client, collection: collection}
}

// Record stores the batch audit entry.
func (a *FirestoreAuditor) Record(ctx context.Context, rec models.ScanRecord) error {
	if _, _, err := a.client.Collection(a.collection).Add(ctx, rec); err != nil {
		return fmt.Errorf("failed to write scan record: %w", err)
	}
	return nil
}

func (a *FirestoreAuditor) Close() error {
	return a.client.Close()
}
