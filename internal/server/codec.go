package server

import (
	"encoding/json"
)

// jsonCodec replaces connect's protobuf JSON codec so plain Go structs can
// be used as messages. It keeps the "json" name so clients send
// application/json.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}
