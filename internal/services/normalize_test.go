package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeResponse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"json fence", "```json\n{\"document_type\":\"Flight\"}\n```", `{"document_type":"Flight"}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"no fence", `  {"a":1}  `, `{"a":1}`},
		{"leading fence only", "```json {\"a\":1}", `{"a":1}`},
		{"trailing fence only", "{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "\n\n  ```json\n{}\n```  \n", `{}`},
		{"empty", "", ""},
		{"fence only", "```", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeResponse(tt.in))
		})
	}
}

func TestNormalizeResponseIsIdempotent(t *testing.T) {
	in := "```json\n{\"route\":\"DEL-BOM\"}\n```"
	once := NormalizeResponse(in)
	assert.Equal(t, once, NormalizeResponse(once))
}

func TestParseRecord(t *testing.T) {
	record, raw, err := ParseRecord(`{"document_type":"Flight","pnr_booking_id":null,"passenger_list":[{"name":"A","age":"30","primary":true}]}`)
	require.NoError(t, err)

	assert.Equal(t, "Flight", record.DocumentType.Value)
	assert.False(t, record.PNRBookingID.Valid)
	require.Len(t, record.PassengerList, 1)
	assert.True(t, bool(record.PassengerList[0].Primary))
	assert.Equal(t, "Flight", raw["document_type"])
}

func TestParseRecordMalformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"not json", "Sorry, I cannot read this document."},
		{"array", `[{"document_type":"Flight"}]`},
		{"null", "null"},
		{"empty", ""},
		{"truncated", `{"document_type":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseRecord(tt.in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedExtractionResponse))
		})
	}
}

func TestParseRecordTruncatesSnippet(t *testing.T) {
	long := make([]byte, 1000)
	for i := range long {
		long[i] = 'x'
	}
	_, _, err := ParseRecord(string(long))
	require.Error(t, err)
	assert.Less(t, len(err.Error()), 400)
	assert.Contains(t, err.Error(), "...")
}

func TestCheckRecordShape(t *testing.T) {
	_, raw, err := ParseRecord(`{"document_type":"Train","booking_amount":1200,"passenger_list":["A"],"additional_info":{"coach":"B2"}}`)
	require.NoError(t, err)
	assert.NoError(t, CheckRecordShape(raw))

	_, raw, err = ParseRecord(`{"document_type":{"kind":"Train"},"passenger_list":"A, B"}`)
	require.NoError(t, err)
	assert.Error(t, CheckRecordShape(raw))
}
