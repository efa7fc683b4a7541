package models

import "time"

// ScanRecord is the audit entry written to Firestore for every processed batch.
// It carries metadata only; extracted document data is never stored.
type ScanRecord struct {
	RequestID           string    `firestore:"requestId,omitempty"`
	TotalFiles          int       `firestore:"totalFiles"`
	Successful          int       `firestore:"successful"`
	Failed              int       `firestore:"failed"`
	TotalProcessingTime float64   `firestore:"totalProcessingTime"`
	Filenames           []string  `firestore:"filenames,omitempty"`
	Errors              []string  `firestore:"errors,omitempty"`
	GeminiOnly          bool      `firestore:"geminiOnly"`
	CreatedAt           time.Time `firestore:"createdAt,omitempty"`
}
