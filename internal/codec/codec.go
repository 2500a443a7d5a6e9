// Package codec exposes the breaking pipeline over gRPC. Messages are plain Go
// structs carried by a JSON codec registered under the "json" content subtype.
package codec

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/encoding"
)

// Name is the content subtype clients must request.
const Name = "json"

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// #region json-codec
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("json marshal %T: %w", v, err)
	}
	return b, nil
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("json unmarshal %T: %w", v, err)
	}
	return nil
}

func (jsonCodec) Name() string { return Name }

// #endregion json-codec
