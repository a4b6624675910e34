package history

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/Jahongir0126/jpg2pdf-converter/internal/models"
)

// FirestoreRecorder stores one document per conversion attempt.
type FirestoreRecorder struct {
	client     *firestore.Client
	collection string
}

func NewFirestoreRecorder(client *firestore.Client, collection string) *FirestoreRecorder {
	return &FirestoreRecorder{client: client, collection: collection}
}

func (r *FirestoreRecorder) Start(ctx context.Context, conv models.Conversion) (string, error) {
	if conv.Status == "" {
		conv.Status = models.StatusAssembling
	}
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = time.Now()
	}
	docRef, _, err := r.client.Collection(r.collection).Add(ctx, conv)
	if err != nil {
		return "", fmt.Errorf("failed to create conversion record: %w", err)
	}
	return docRef.ID, nil
}

func (r *FirestoreRecorder) Finish(ctx context.Context, id string, pageCount int, errDetails string) error {
	if id == "" {
		return nil
	}
	updates := []firestore.Update{
		{Path: "status", Value: finalStatus(errDetails)},
		{Path: "pageCount", Value: pageCount},
		{Path: "finishedAt", Value: time.Now()},
	}
	if errDetails != "" {
		updates = append(updates, firestore.Update{Path: "errorDetails", Value: errDetails})
	}
	if _, err := r.client.Collection(r.collection).Doc(id).Update(ctx, updates); err != nil {
		return fmt.Errorf("failed to update conversion record %s: %w", id, err)
	}
	return nil
}
