package generator

import (
	"encoding/base64"
	"fmt"
	"regexp"

	"github.com/ternarybob/motif/internal/interfaces"
	"github.com/ternarybob/motif/internal/services/llm"
)

// dataURIPattern matches a base64 data URI: data:<mime>;base64,<payload>
var dataURIPattern = regexp.MustCompile(`^data:(.+);base64,(.+)$`)

// ParseStyleImage parses a style-reference image supplied as a data URI
// into an inline image for the provider call. A non-matching payload fails
// with ErrInvalidImageFormat; this runs before any provider call so a
// malformed image never wastes a paid request.
func ParseStyleImage(styleImage string) (*llm.InlineImage, error) {
	match := dataURIPattern.FindStringSubmatch(styleImage)
	if match == nil {
		return nil, fmt.Errorf("%w: must be a base64 data URI", interfaces.ErrInvalidImageFormat)
	}

	data, err := base64.StdEncoding.DecodeString(match[2])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrInvalidImageFormat, err)
	}

	return &llm.InlineImage{
		MIMEType: match[1],
		Data:     data,
	}, nil
}
