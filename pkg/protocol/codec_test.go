package protocol

import (
	"encoding/json"
	"testing"

	"github.com/cfoust/dragonball/pkg/game"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePosition(t *testing.T) {
	for _, codec := range []Codec{JSONCodec{}, CBORCodec{}} {
		var valid []byte
		switch codec.Encoding() {
		case EncodingJSON:
			valid = []byte(`{"y": 412.5}`)
		case EncodingCBOR:
			y := 412.5
			var err error
			valid, err = cbor.Marshal(PositionMessage{Y: &y})
			require.NoError(t, err)
		}

		y, err := codec.DecodePosition(valid)
		require.NoError(t, err, codec.Encoding())
		assert.Equal(t, 412.5, y)

		_, err = codec.DecodePosition([]byte("not a message"))
		assert.ErrorIs(t, err, ErrMalformed)

		_, err = codec.DecodePosition(nil)
		assert.ErrorIs(t, err, ErrMalformed)
	}
}

func TestDecodePositionShapes(t *testing.T) {
	codec := JSONCodec{}

	for _, message := range []string{
		`{}`,
		`{"x": 3}`,
		`{"y": "300"}`,
		`{"y": null}`,
		`[300]`,
		`300`,
	} {
		_, err := codec.DecodePosition([]byte(message))
		assert.ErrorIs(t, err, ErrMalformed, message)
	}

	y, err := codec.DecodePosition([]byte(`{"y": -20, "extra": true}`))
	require.NoError(t, err)
	assert.Equal(t, -20.0, y)
}

func TestStateMessageWireForm(t *testing.T) {
	snapshot := game.Snapshot{
		Score:    20,
		GameOver: true,
		Player:   game.Player{Y: 250},
		Projectiles: []game.Projectile{
			{ID: 3, X: 10, Y: 20, VX: 3, VY: 0.5, Phase: game.PhaseActive, FadeTimer: 1},
			{ID: 4, X: 600, Y: 300, Phase: game.PhaseFading, FadeTimer: 0.4},
		},
	}

	data, err := JSONCodec{}.EncodeState(NewStateMessage(snapshot))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, 20.0, decoded["score"])
	assert.Equal(t, true, decoded["game_over"])
	assert.Equal(t, map[string]any{"y": 250.0}, decoded["player"])

	fireballs := decoded["fireballs"].([]any)
	require.Len(t, fireballs, 2)
	second := fireballs[1].(map[string]any)
	assert.Equal(t, "Extinguishing", second["state"])
	assert.Equal(t, 0.4, second["extinguish_timer"])
	assert.Equal(t, 4.0, second["id"])
	assert.NotContains(t, decoded, "nextID")
}

func TestEmptyFireballsEncodeAsList(t *testing.T) {
	data, err := JSONCodec{}.EncodeState(NewStateMessage(game.Snapshot{}))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"fireballs":[]`)
}

func TestGetCodec(t *testing.T) {
	codec, err := GetCodec("")
	require.NoError(t, err)
	assert.Equal(t, EncodingJSON, codec.Encoding())

	codec, err = GetCodec(EncodingCBOR)
	require.NoError(t, err)
	assert.True(t, codec.Binary())

	_, err = GetCodec("msgpack")
	assert.Error(t, err)
}
