package gcp

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/option"
)

// --- Extraction Model Prompts ---
const ExtractionSystemPrompt = "You are a travel document parser. You read booking confirmations, tickets, itineraries and vouchers and report their details as a single JSON object. Never add commentary."

// ExtractionUserPrompt enumerates every field of models.ExtractedRecord. Keep the two in sync.
const ExtractionUserPrompt = `Extract the travel document information from the attached file and return ONLY a valid JSON object with exactly these fields:

{
    "document_type": "string (e.g., Flight, Train, Bus, Hotel, Visa, Insurance)",
    "pnr_booking_id": "string (PNR or booking reference)",
    "route": "string (e.g., DEL-BOM, NYC-LAX)",
    "service_provider": "string (airline, railway, bus operator, hotel, insurer)",
    "vehicle_number": "string (flight or train number, room number, etc.)",
    "journey_date": "string (YYYY-MM-DD)",
    "journey_time": "string (departure or check-in time)",
    "arrival_time": "string (arrival or check-out time)",
    "travel_class": "string (Economy, Business, Sleeper, Deluxe, etc.)",
    "booking_amount": "string (amount with currency)",
    "passenger_list": [
        {
            "name": "string",
            "age": "string",
            "primary": boolean
        }
    ],
    "additional_info": {}
}

If a field is not present in the document or does not apply, set it to null. Return ONLY the JSON object, with no text before or after it.`

// DefaultGeminiModel is used when no model name is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

// VertexClient holds the pre-configured extraction model.
type VertexClient struct {
	ExtractionModel *genai.GenerativeModel
	baseClient      *genai.Client
}

// NewVertexClient creates a new client holding the extraction model.
func NewVertexClient(ctx context.Context, projectID, region, modelName string, opts ...option.ClientOption) (*VertexClient, error) {
	if projectID == "" || region == "" {
		return nil, fmt.Errorf("NewVertexClient: projectID and region cannot be empty")
	}
	if modelName == "" {
		modelName = DefaultGeminiModel
	}

	baseClient, err := genai.NewClient(ctx, projectID, region, opts...)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	extractionModel := baseClient.GenerativeModel(modelName)
	extractionModel.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(ExtractionSystemPrompt)},
	}
	extractionModel.GenerationConfig = genai.GenerationConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0.0),
	}

	return &VertexClient{
		ExtractionModel: extractionModel,
		baseClient:      baseClient,
	}, nil
}

// GenerateFromFile sends the file reference and the prompt as the only two
// inputs of one generation request and returns the concatenated text parts.
func (c *VertexClient) GenerateFromFile(ctx context.Context, fileURI, mimeType, prompt string) (string, error) {
	filePart := genai.FileData{
		MIMEType: mimeType,
		FileURI:  fileURI,
	}

	resp, err := c.ExtractionModel.GenerateContent(ctx, filePart, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content from gemini: %w", err)
	}
	return responseText(resp)
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("gemini returned no response")
	}
	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil {
			return "", fmt.Errorf("gemini blocked the prompt: %v", resp.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("gemini returned no candidates")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned an empty candidate (finish reason %v)", candidate.FinishReason)
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}
	return text.String(), nil
}

func (c *VertexClient) Close() error {
	if c.baseClient != nil {
		return c.baseClient.Close()
	}
	return nil
}
