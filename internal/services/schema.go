package services

import (
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const recordSchemaURL = "passscan://extracted_record.json"

// recordSchemaSource describes the shape the extraction prompt asks for.
// Extra keys are allowed and end up in additional_info.
const recordSchemaSource = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "definitions": {
    "text": {"type": ["string", "null"]},
    "passenger": {
      "type": ["object", "string"],
      "properties": {
        "name": {"$ref": "#/definitions/text"},
        "age": {"type": ["string", "number", "null"]},
        "primary": {"type": ["boolean", "null"]}
      }
    }
  },
  "properties": {
    "document_type": {"$ref": "#/definitions/text"},
    "pnr_booking_id": {"$ref": "#/definitions/text"},
    "route": {"$ref": "#/definitions/text"},
    "service_provider": {"$ref": "#/definitions/text"},
    "vehicle_number": {"$ref": "#/definitions/text"},
    "journey_date": {"$ref": "#/definitions/text"},
    "journey_time": {"$ref": "#/definitions/text"},
    "arrival_time": {"$ref": "#/definitions/text"},
    "travel_class": {"$ref": "#/definitions/text"},
    "booking_amount": {"type": ["string", "number", "null"]},
    "passenger_list": {
      "type": ["array", "null"],
      "items": {"$ref": "#/definitions/passenger"}
    },
    "additional_info": {"type": ["object", "null"]}
  }
}`

var recordSchema = jsonschema.MustCompileString(recordSchemaURL, recordSchemaSource)

// CheckRecordShape reports where a decoded response departs from the
// expected record shape. Callers treat the result as advisory.
func CheckRecordShape(raw map[string]any) error {
	if err := recordSchema.Validate(raw); err != nil {
		return fmt.Errorf("extraction response does not match record schema: %w", err)
	}
	return nil
}
