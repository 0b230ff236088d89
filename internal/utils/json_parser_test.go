package utils

import (
	"errors"
	"testing"
)

func TestParseAIJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    map[string]interface{}
		wantErr bool
	}{
		{
			name:  "Pure JSON",
			input: `{"brand": "VW", "year": 2016}`,
			want: map[string]interface{}{
				"brand": "VW",
				"year":  float64(2016),
			},
			wantErr: false,
		},
		{
			name: "JSON in markdown code block",
			input: "```json\n" +
				`{"a": 1}` + "\n```",
			want: map[string]interface{}{
				"a": float64(1),
			},
			wantErr: false,
		},
		{
			name: "Untagged code block",
			input: "```\n" +
				`{"a": 1}` + "\n```",
			want: map[string]interface{}{
				"a": float64(1),
			},
			wantErr: false,
		},
		{
			name:  "JSON with surrounding text",
			input: `noise {"a":1} trailing`,
			want: map[string]interface{}{
				"a": float64(1),
			},
			wantErr: false,
		},
		{
			name:    "Empty string",
			input:   "",
			want:    nil,
			wantErr: true,
		},
		{
			name:    "Invalid JSON",
			input:   "not json at all",
			want:    nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got map[string]interface{}
			err := ParseAIJSON(tt.input, &got)

			if (err != nil) != tt.wantErr {
				t.Errorf("ParseAIJSON() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if tt.wantErr {
				var perr *ParseError
				if !errors.As(err, &perr) {
					t.Fatalf("expected *ParseError, got %T", err)
				}
				if perr.Raw != tt.input {
					t.Errorf("ParseError.Raw = %q, want the original input %q", perr.Raw, tt.input)
				}
				return
			}

			if len(got) != len(tt.want) {
				t.Errorf("ParseAIJSON() got = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("ParseAIJSON() got[%q] = %v, want %v", k, got[k], v)
				}
			}
		})
	}
}

func TestParseAIJSONTypedTarget(t *testing.T) {
	var got struct {
		Brand string `json:"brand"`
		Year  int    `json:"year"`
	}
	input := "Here is the result:\n```json\n{\"brand\": \"Vw\", \"year\": 2016}\n```"
	if err := ParseAIJSON(input, &got); err != nil {
		t.Fatalf("ParseAIJSON() error = %v", err)
	}
	if got.Brand != "Vw" || got.Year != 2016 {
		t.Errorf("ParseAIJSON() got = %+v", got)
	}
}
