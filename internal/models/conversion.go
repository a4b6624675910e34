package models

import "time"

// Conversion statuses recorded in the history store.
const (
	StatusAssembling = "ASSEMBLING"
	StatusCompleted  = "COMPLETED"
	StatusFailed     = "FAILED"
)

// Conversion represents one assembly attempt for a user's pending images.
// It is an audit record only; pending images themselves are never persisted.
type Conversion struct {
	UserID       int64     `firestore:"userId"`
	ChatID       int64     `firestore:"chatId"`
	ImageCount   int       `firestore:"imageCount"`
	PageCount    int       `firestore:"pageCount,omitempty"`
	Status       string    `firestore:"status,omitempty"`
	ErrorDetails string    `firestore:"errorDetails,omitempty"`
	ArtifactName string    `firestore:"artifactName,omitempty"`
	CreatedAt    time.Time `firestore:"createdAt,omitempty"`
	FinishedAt   time.Time `firestore:"finishedAt,omitempty"`
}
