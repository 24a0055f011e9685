package rsvpapi

import "encoding/json"

// Codec marshals messages as JSON. It registers under the name "json", which
// replaces Connect's protobuf-only JSON codec for these services.
type Codec struct{}

func (Codec) Name() string { return "json" }

func (Codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (Codec) Unmarshal(data []byte, msg any) error {
	return json.Unmarshal(data, msg)
}
