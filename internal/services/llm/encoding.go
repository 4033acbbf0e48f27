package llm

import "encoding/base64"

// encodeBase64 re-encodes decoded image bytes for providers that take
// base64 strings on the wire.
func encodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}
