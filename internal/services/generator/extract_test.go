package generator

import (
	"errors"
	"strings"
	"testing"

	"github.com/ternarybob/motif/internal/interfaces"
)

func TestExtractJSONBlock(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{
			name: "bare json",
			raw:  `{"html":"a","css":"b","js":"c"}`,
			want: `{"html":"a","css":"b","js":"c"}`,
		},
		{
			name: "prose before and after",
			raw:  "Here is your animation:\n{\"html\":\"a\"}\nEnjoy!",
			want: `{"html":"a"}`,
		},
		{
			name: "markdown code fence",
			raw:  "```json\n{\"html\":\"a\"}\n```",
			want: `{"html":"a"}`,
		},
		{
			name: "nested braces kept intact",
			raw:  `noise {"js":"if (x) { y(); }"} noise`,
			want: `{"js":"if (x) { y(); }"}`,
		},
		{
			name:    "no json at all",
			raw:     "I cannot generate that animation.",
			wantErr: true,
		},
		{
			name:    "closing brace before opening",
			raw:     "} nothing here {",
			wantErr: true,
		},
		{
			name:    "empty response",
			raw:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSONBlock(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, interfaces.ErrNoJSONFound) {
					t.Fatalf("expected ErrNoJSONFound, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSanitizeControlChars(t *testing.T) {
	tests := []struct {
		name  string
		block string
		want  string
	}{
		{
			name:  "newline inside string escaped",
			block: "{\"html\":\"line1\nline2\"}",
			want:  `{"html":"line1\nline2"}`,
		},
		{
			name:  "tab and carriage return inside string",
			block: "{\"css\":\"a\tb\rc\"}",
			want:  `{"css":"a\tb\rc"}`,
		},
		{
			name:  "whitespace outside strings untouched",
			block: "{\n  \"html\": \"a\"\n}",
			want:  "{\n  \"html\": \"a\"\n}",
		},
		{
			name:  "already escaped sequences preserved",
			block: `{"js":"a\nb"}`,
			want:  `{"js":"a\nb"}`,
		},
		{
			name:  "escaped quote does not end string",
			block: "{\"js\":\"say \\\"hi\\\"\nnext\"}",
			want:  `{"js":"say \"hi\"\nnext"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeControlChars(tt.block); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseAnimationPayload(t *testing.T) {
	raw := "Sure, here it is:\n```json\n{\"html\":\"<div id=\\\"scene\\\"></div>\",\"css\":\"#scene{}\",\"js\":\"// anim\"}\n```"

	payload, err := ParseAnimationPayload(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.HTML != `<div id="scene"></div>` {
		t.Errorf("unexpected html: %q", payload.HTML)
	}
	if payload.CSS != "#scene{}" {
		t.Errorf("unexpected css: %q", payload.CSS)
	}
}

func TestParseAnimationPayloadRawNewlines(t *testing.T) {
	// Providers sometimes emit literal newlines inside JS string values.
	raw := "{\"html\":\"<div></div>\",\"css\":\"body{}\",\"js\":\"line1\nline2\"}"

	payload, err := ParseAnimationPayload(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.JS != "line1\nline2" {
		t.Errorf("unexpected js: %q", payload.JS)
	}
}

func TestParseAnimationPayloadEmptyFields(t *testing.T) {
	// An animation that needs no stylesheet is still valid output; the
	// contract is key presence, not content.
	payload, err := ParseAnimationPayload(`{"html":"<div></div>","css":"","js":"// anim"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.CSS != "" {
		t.Errorf("unexpected css: %q", payload.CSS)
	}
	if payload.HTML != "<div></div>" {
		t.Errorf("unexpected html: %q", payload.HTML)
	}
}

func TestParseAnimationPayloadErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{
			name: "no json",
			raw:  "plain refusal text",
			want: interfaces.ErrNoJSONFound,
		},
		{
			name: "invalid json",
			raw:  `{"html": }`,
			want: interfaces.ErrMalformedPayload,
		},
		{
			name: "missing required fields",
			raw:  `{"html":"<div></div>"}`,
			want: interfaces.ErrMalformedPayload,
		},
		{
			name: "non-string field value",
			raw:  `{"html":"<div></div>","css":42,"js":"x"}`,
			want: interfaces.ErrMalformedPayload,
		},
		{
			name: "null field value",
			raw:  `{"html":"<div></div>","css":null,"js":"x"}`,
			want: interfaces.ErrMalformedPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAnimationPayload(tt.raw)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("x", 500)
	if got := truncate(long, 200); len(got) > 204 {
		t.Errorf("truncate did not bound output: %d chars", len(got))
	}
	if got := truncate("short", 200); got != "short" {
		t.Errorf("truncate mangled short input: %q", got)
	}
}
