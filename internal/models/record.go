package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ExtractedRecord is the structured data Gemini returns for one travel document.
// Every field is optional; absence is encoded as JSON null.
type ExtractedRecord struct {
	DocumentType    Text           `json:"document_type"`
	PNRBookingID    Text           `json:"pnr_booking_id"`
	Route           Text           `json:"route"`
	ServiceProvider Text           `json:"service_provider"`
	VehicleNumber   Text           `json:"vehicle_number"`
	JourneyDate     Text           `json:"journey_date"`
	JourneyTime     Text           `json:"journey_time"`
	ArrivalTime     Text           `json:"arrival_time"`
	TravelClass     Text           `json:"travel_class"`
	BookingAmount   Text           `json:"booking_amount"`
	PassengerList   []Passenger    `json:"passenger_list"`
	AdditionalInfo  map[string]any `json:"additional_info"`
}

// Passenger is one entry of the passenger list.
type Passenger struct {
	Name    Text `json:"name"`
	Age     Text `json:"age"`
	Primary Flag `json:"primary"`
}

// UnmarshalJSON decodes a model response leniently. Known keys are decoded into
// their fields; unknown top-level keys are kept in AdditionalInfo.
func (r *ExtractedRecord) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*r = ExtractedRecord{}
	texts := map[string]*Text{
		"document_type":    &r.DocumentType,
		"pnr_booking_id":   &r.PNRBookingID,
		"route":            &r.Route,
		"service_provider": &r.ServiceProvider,
		"vehicle_number":   &r.VehicleNumber,
		"journey_date":     &r.JourneyDate,
		"journey_time":     &r.JourneyTime,
		"arrival_time":     &r.ArrivalTime,
		"travel_class":     &r.TravelClass,
		"booking_amount":   &r.BookingAmount,
	}

	info := make(map[string]any)
	extras := make(map[string]any)
	for key, msg := range raw {
		if dst, ok := texts[key]; ok {
			if err := json.Unmarshal(msg, dst); err != nil {
				return err
			}
			continue
		}

		switch key {
		case "passenger_list":
			passengers, leftover, err := decodePassengers(msg)
			if err != nil {
				return err
			}
			r.PassengerList = passengers
			if leftover != nil {
				extras[key] = leftover
			}
		case "additional_info":
			var v any
			if err := json.Unmarshal(msg, &v); err != nil {
				return err
			}
			switch t := v.(type) {
			case map[string]any:
				for k, val := range t {
					info[k] = val
				}
			case nil:
			default:
				info["value"] = t
			}
		default:
			var v any
			if err := json.Unmarshal(msg, &v); err != nil {
				return err
			}
			extras[key] = v
		}
	}

	// Keys nested under additional_info win over stray top-level keys.
	for k, v := range extras {
		if _, exists := info[k]; !exists {
			info[k] = v
		}
	}
	r.AdditionalInfo = info
	return nil
}

// decodePassengers accepts an array of passenger objects or bare names.
// Anything that is not an array is returned as leftover.
func decodePassengers(msg json.RawMessage) ([]Passenger, any, error) {
	trimmed := bytes.TrimSpace(msg)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil, nil, nil
	}
	if len(trimmed) == 0 || trimmed[0] != '[' {
		var v any
		if err := json.Unmarshal(trimmed, &v); err != nil {
			return nil, nil, err
		}
		return nil, v, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, nil, err
	}
	passengers := make([]Passenger, 0, len(items))
	for _, item := range items {
		item = bytes.TrimSpace(item)
		if len(item) > 0 && item[0] == '{' {
			var p Passenger
			if err := json.Unmarshal(item, &p); err != nil {
				return nil, nil, err
			}
			passengers = append(passengers, p)
			continue
		}
		var name Text
		if err := json.Unmarshal(item, &name); err != nil {
			return nil, nil, err
		}
		passengers = append(passengers, Passenger{Name: name})
	}
	return passengers, nil, nil
}

// Text is a nullable string. It accepts any JSON scalar on decode; non-string
// values keep their literal JSON text.
type Text struct {
	Value string
	Valid bool
}

// NewText returns a set Text.
func NewText(s string) Text {
	return Text{Value: s, Valid: true}
}

func (t Text) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(t.Value)
}

func (t *Text) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*t = Text{}
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*t = NewText(s)
		return nil
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, trimmed); err != nil {
		return err
	}
	*t = NewText(compact.String())
	return nil
}

// Flag is a boolean that tolerates "true"/"yes"/1 style encodings.
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case bool:
		*f = Flag(t)
	case float64:
		*f = t != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "y", "1":
			*f = true
		default:
			*f = false
		}
	default:
		*f = false
	}
	return nil
}
