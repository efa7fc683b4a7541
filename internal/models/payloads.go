package models

// These structs define the JSON payloads returned by the scan endpoint.

// ProcessingMethodGeminiDirect marks a file that was submitted to Gemini as-is.
const ProcessingMethodGeminiDirect = "gemini_direct"

// FileResult is the success outcome for a single uploaded file.
type FileResult struct {
	FileIndex        int             `json:"file_index"`
	Filename         string          `json:"filename"`
	ProcessingMethod string          `json:"processing_method"`
	ProcessingTime   float64         `json:"processing_time"`
	Data             ExtractedRecord `json:"data"`
}

// FileError is the failure outcome for a single uploaded file.
type FileError struct {
	FileIndex int    `json:"file_index"`
	Filename  string `json:"filename"`
	Error     string `json:"error"`
}

// Outcome holds exactly one of Result or Failure for a file index.
type Outcome struct {
	Result  *FileResult
	Failure *FileError
}

// BatchSummary is the aggregate response for one scan request.
type BatchSummary struct {
	TotalFiles            int          `json:"total_files"`
	SuccessfulExtractions int          `json:"successful_extractions"`
	FailedExtractions     int          `json:"failed_extractions"`
	TotalProcessingTime   float64      `json:"total_processing_time"`
	Results               []FileResult `json:"results"`
	Errors                []FileError  `json:"errors,omitempty"`
}

// ExtractionRequest describes one file staged on local disk for extraction.
type ExtractionRequest struct {
	FileIndex int    `json:"file_index"`
	Filename  string `json:"filename"`
	LocalPath string `json:"local_path"`
	TempID    string `json:"temp_id"`
}
