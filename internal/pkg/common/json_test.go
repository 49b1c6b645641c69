package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"裸 JSON", `{"a": 1}`, `{"a": 1}`},
		{"帶 json 圍欄", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"帶無標記圍欄", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"前後夾雜說明文字", "הנה התוצאה:\n{\"a\": 1}\nבהצלחה!", `{"a": 1}`},
		{"巢狀物件", `{"a": {"b": {"c": 3}}}`, `{"a": {"b": {"c": 3}}}`},
		{"字串值內含大括號", `{"a": "x } y { z"}`, `{"a": "x } y { z"}`},
		{"字串值內含跳脫引號", `{"a": "he said \"hi\" }"}`, `{"a": "he said \"hi\" }"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSONObject(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestExtractJSONObjectErrors(t *testing.T) {
	_, err := ExtractJSONObject("אין כאן שום דבר מובנה")
	assert.Error(t, err)

	_, err = ExtractJSONObject(`{"a": 1`)
	assert.Error(t, err)

	_, err = ExtractJSONObject("")
	assert.Error(t, err)
}

func TestExtractJSONObjectTakesFirstObject(t *testing.T) {
	got, err := ExtractJSONObject(`{"first": 1} {"second": 2}`)
	require.NoError(t, err)
	assert.Equal(t, `{"first": 1}`, got)
}

func TestParseJSONStrictRejectsUnknownFields(t *testing.T) {
	var out struct {
		Name string `json:"name"`
	}
	assert.NoError(t, ParseJSON(`{"name": "a", "extra": true}`, &out))
	assert.Error(t, ParseJSONStrict(`{"name": "a", "extra": true}`, &out))
}

func TestParseJSONRejectsTrailingData(t *testing.T) {
	var out map[string]interface{}
	assert.Error(t, ParseJSON(`{"a": 1} {"b": 2}`, &out))
}
