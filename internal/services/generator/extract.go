package generator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ternarybob/motif/internal/interfaces"
	"github.com/ternarybob/motif/internal/models"
)

var payloadValidator = validator.New()

// payloadFields mirrors AnimationPayload with pointer fields so that key
// presence is distinguished from an empty value. An empty stylesheet is
// valid provider output; a missing key is not.
type payloadFields struct {
	HTML *string `json:"html" validate:"required"`
	CSS  *string `json:"css" validate:"required"`
	JS   *string `json:"js" validate:"required"`
}

// ExtractJSONBlock slices the first '{' through the last '}' (inclusive)
// out of raw provider text. The response is not trusted to be bare JSON:
// it may be wrapped in explanatory prose or code fences.
func ExtractJSONBlock(raw string) (string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")

	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("%w: response was %q", interfaces.ErrNoJSONFound, truncate(raw, 200))
	}

	return raw[start : end+1], nil
}

// SanitizeControlChars escapes literal newline, carriage-return, and tab
// characters appearing inside JSON string literals. Providers sometimes
// emit raw control characters where escaped sequences were expected, which
// breaks strict parsing. Characters outside string literals are left
// untouched, so already-valid JSON is unaffected.
func SanitizeControlChars(block string) string {
	var b strings.Builder
	b.Grow(len(block))

	inString := false
	escaped := false

	for i := 0; i < len(block); i++ {
		c := block[i]

		if inString {
			if escaped {
				b.WriteByte(c)
				escaped = false
				continue
			}
			switch c {
			case '\\':
				b.WriteByte(c)
				escaped = true
			case '"':
				b.WriteByte(c)
				inString = false
			case '\n':
				b.WriteString(`\n`)
			case '\r':
				b.WriteString(`\r`)
			case '\t':
				b.WriteString(`\t`)
			default:
				b.WriteByte(c)
			}
			continue
		}

		if c == '"' {
			inString = true
		}
		b.WriteByte(c)
	}

	return b.String()
}

// ParseAnimationPayload extracts, sanitizes, and parses an animation
// payload from raw provider text, enforcing the html/css/js string-field
// contract.
func ParseAnimationPayload(raw string) (*models.AnimationPayload, error) {
	block, err := ExtractJSONBlock(raw)
	if err != nil {
		return nil, err
	}

	sanitized := SanitizeControlChars(block)

	var fields payloadFields
	if err := json.Unmarshal([]byte(sanitized), &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrMalformedPayload, err)
	}

	if err := payloadValidator.Struct(&fields); err != nil {
		return nil, fmt.Errorf("%w: missing required field: %v", interfaces.ErrMalformedPayload, err)
	}

	return &models.AnimationPayload{HTML: *fields.HTML, CSS: *fields.CSS, JS: *fields.JS}, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
