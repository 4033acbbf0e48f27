package models

// AnimationPayload is the structured generation output: a DOM fragment, a
// stylesheet, and a script that constructs and returns an animation
// controller. The server enforces only the syntactic contract (valid JSON,
// three string fields); the runtime controller contract is consumed by the
// browser player, not verified here. Empty values are legal: an animation
// that needs no stylesheet still carries a "css" key.
type AnimationPayload struct {
	HTML string `json:"html"`
	CSS  string `json:"css"`
	JS   string `json:"js"`
}

// Clone returns an independent copy, nil-safe.
func (p *AnimationPayload) Clone() *AnimationPayload {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
