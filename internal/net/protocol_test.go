package net

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LocalSketch/internal/errors"
)

func TestDecodeClientMessage(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    ClientMessage
		wantErr bool
	}{
		{
			name: "pointer",
			in:   `{"type":"pointer","phase":"down","x":10,"y":12.5}`,
			want: ClientMessage{Type: TypePointer, Phase: PhaseDown, X: 10, Y: 12.5},
		},
		{
			name: "text reply",
			in:   `{"type":"text","prompt_id":"p1","cancelled":true}`,
			want: ClientMessage{Type: TypeText, PromptID: "p1", Cancelled: true},
		},
		{name: "tool", in: `{"type":"tool","tool":"eraser"}`, want: ClientMessage{Type: TypeTool, Tool: "eraser"}},
		{name: "bad phase", in: `{"type":"pointer","phase":"hover"}`, wantErr: true},
		{name: "text without prompt", in: `{"type":"text","text":"hi"}`, wantErr: true},
		{name: "no type", in: `{}`, wantErr: true},
		{name: "unknown type", in: `{"type":"clear"}`, wantErr: true},
		{name: "not json", in: `pointer down`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeClientMessage([]byte(tt.in))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrCodeInvalidMessage), "code = %q", errors.GetCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestImageBytes(t *testing.T) {
	m := ClientMessage{Type: TypeImage, Data: base64.StdEncoding.EncodeToString([]byte("png!"))}
	b, err := m.ImageBytes()
	require.NoError(t, err)
	assert.Equal(t, []byte("png!"), b)

	_, err = ClientMessage{Type: TypeImage}.ImageBytes()
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidImage))

	_, err = ClientMessage{Type: TypeImage, Data: "%%%"}.ImageBytes()
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidImage))
}

func TestErrorMessageCodes(t *testing.T) {
	data, err := json.Marshal(newErrorMessage(errors.New(errors.ErrCodeInvalidInput, "bad tool")))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"error","code":"INVALID_INPUT","message":"INVALID_INPUT: bad tool"}`, string(data))

	uncoded := newErrorMessage(assert.AnError)
	assert.Equal(t, errors.ErrCodeInternal, uncoded.Code)
}
