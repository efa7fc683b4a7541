package services

import (
	"encoding/json"
	"strings"

	"github.com/Lllllllleong/passscan/internal/models"
)

// maxSnippet bounds how much of a bad response is echoed back in an error.
const maxSnippet = 200

// NormalizeResponse strips a surrounding markdown code fence from model output.
func NormalizeResponse(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ParseRecord parses normalized text as a JSON object. It returns the typed
// record and the generic decoded object for schema checks.
func ParseRecord(normalized string) (models.ExtractedRecord, map[string]any, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(normalized), &raw); err != nil {
		return models.ExtractedRecord{}, nil, newProcessingError(ErrMalformedExtractionResponse, err,
			"failed to parse gemini response as JSON: %v (response: %q)", err, snippet(normalized))
	}
	if raw == nil {
		return models.ExtractedRecord{}, nil, newProcessingError(ErrMalformedExtractionResponse, nil,
			"gemini response is not a JSON object (response: %q)", snippet(normalized))
	}

	var record models.ExtractedRecord
	if err := json.Unmarshal([]byte(normalized), &record); err != nil {
		return models.ExtractedRecord{}, nil, newProcessingError(ErrMalformedExtractionResponse, err,
			"failed to decode extracted record: %v", err)
	}
	return record, raw, nil
}

func snippet(s string) string {
	if len(s) <= maxSnippet {
		return s
	}
	return s[:maxSnippet] + "..."
}
