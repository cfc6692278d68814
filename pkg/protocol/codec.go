package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/fxamacker/cbor/v2"
)

var ErrMalformed = errors.New("malformed message")

type Encoding string

const (
	EncodingJSON Encoding = "json"
	EncodingCBOR Encoding = "cbor"
)

// Codec turns snapshots into frames and frames into player positions.
type Codec interface {
	Encoding() Encoding
	// Whether frames should be sent as binary rather than text
	Binary() bool
	EncodeState(StateMessage) ([]byte, error)
	// DecodePosition returns ErrMalformed for anything that is not a
	// position message.
	DecodePosition([]byte) (float64, error)
}

func GetCodec(encoding Encoding) (Codec, error) {
	switch encoding {
	case "", EncodingJSON:
		return JSONCodec{}, nil
	case EncodingCBOR:
		return CBORCodec{}, nil
	}
	return nil, fmt.Errorf("unknown encoding %q", encoding)
}

func checkPosition(message PositionMessage) (float64, error) {
	if message.Y == nil {
		return 0, ErrMalformed
	}

	y := *message.Y
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, ErrMalformed
	}

	return y, nil
}

type JSONCodec struct{}

var _ Codec = JSONCodec{}

func (JSONCodec) Encoding() Encoding { return EncodingJSON }
func (JSONCodec) Binary() bool       { return false }

func (JSONCodec) EncodeState(message StateMessage) ([]byte, error) {
	return json.Marshal(message)
}

func (JSONCodec) DecodePosition(data []byte) (float64, error) {
	var message PositionMessage
	if err := json.Unmarshal(data, &message); err != nil {
		return 0, ErrMalformed
	}
	return checkPosition(message)
}

type CBORCodec struct{}

var _ Codec = CBORCodec{}

func (CBORCodec) Encoding() Encoding { return EncodingCBOR }
func (CBORCodec) Binary() bool       { return true }

func (CBORCodec) EncodeState(message StateMessage) ([]byte, error) {
	return cbor.Marshal(message)
}

func (CBORCodec) DecodePosition(data []byte) (float64, error) {
	var message PositionMessage
	if err := cbor.Unmarshal(data, &message); err != nil {
		return 0, ErrMalformed
	}
	return checkPosition(message)
}
