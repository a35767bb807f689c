package recognizer_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scan1c/internal/recognizer"
)

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain object", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"fence without newline", "```json{\"a\":1}```", `{"a":1}`},
		{"surrounding prose", "Вот результат:\n{\"a\":1}\nГотово.", `{"a":1}`},
		{"whitespace", "  \n{\"a\":1}\n\t", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, recognizer.StripCodeFences(tt.in))
		})
	}
}

func TestParseJSONObject_KeepsNumbersExact(t *testing.T) {
	obj, err := recognizer.ParseJSONObject(`{"Quantity": 1.000, "Price": 99.90}`)

	require.NoError(t, err)
	assert.Equal(t, json.Number("1.000"), obj["Quantity"])
	assert.Equal(t, json.Number("99.90"), obj["Price"])
}

func TestParseJSONObject_Truncated(t *testing.T) {
	_, err := recognizer.ParseJSONObject(`{"SupplierINN":"1"`)

	require.Error(t, err)
	var pe *recognizer.ParseError
	assert.True(t, errors.As(err, &pe))
	assert.NotEmpty(t, err.Error())
}

func TestParseJSONObject_Empty(t *testing.T) {
	_, err := recognizer.ParseJSONObject("```json\n```")

	var pe *recognizer.ParseError
	assert.True(t, errors.As(err, &pe))
}

func TestParseJSONObject_NotAnObject(t *testing.T) {
	_, err := recognizer.ParseJSONObject(`[1,2,3]`)
	assert.Error(t, err)

	_, err = recognizer.ParseJSONObject(`null`)
	assert.Error(t, err)
}
