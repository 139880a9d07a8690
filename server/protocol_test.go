package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signadot/kowhai/desc"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := Header{Op: OpSerialize, TreeID: 0x0102, Offset: 70000, Total: 1 << 20}
	p, err := h.AppendBinary(nil)
	require.NoError(t, err)
	require.Len(t, p, HeaderSize)
	assert.Equal(t, []byte{0x04, 0, 0x02, 0x01, 0x70, 0x11, 0x01, 0, 0, 0, 0x10, 0}, p)

	p = append(p, "chunk"...)
	got, chunk, err := ParseHeader(p)
	require.NoError(t, err)
	assert.Equal(t, h, got)
	assert.Equal(t, "chunk", string(chunk))

	_, _, err = ParseHeader(p[:HeaderSize-1])
	assert.ErrorIs(t, err, desc.ErrBufferTooSmall)
}

func packet(t *testing.T, h Header, chunk string) []byte {
	t.Helper()
	p, err := h.AppendBinary(nil)
	require.NoError(t, err)
	return append(p, chunk...)
}

func TestAssembler(t *testing.T) {
	var a Assembler
	_, _, done, err := a.Add(packet(t, Header{Op: OpRead, Total: 6}, "abc"))
	require.NoError(t, err)
	assert.False(t, done)

	h, payload, done, err := a.Add(packet(t, Header{Op: OpRead, Offset: 3, Total: 6}, "def"))
	require.NoError(t, err)
	require.True(t, done)
	assert.Equal(t, OpRead, h.Op)
	assert.Equal(t, "abcdef", string(payload))

	_, payload, done, err = a.Add(packet(t, Header{Op: OpWrite}, ""))
	require.NoError(t, err)
	assert.True(t, done)
	assert.Empty(t, payload)

	_, _, _, err = a.Add(packet(t, Header{Op: OpRead, Offset: 4, Total: 6}, "ef"))
	assert.ErrorIs(t, err, ErrBadChunk)
}

func TestAssemblerBadChunks(t *testing.T) {
	tests := []struct {
		name    string
		packets []string
		headers []Header
	}{
		{"gap", []string{"ab", "ef"}, []Header{{Total: 6}, {Offset: 4, Total: 6}}},
		{"overlap", []string{"ab", "bc"}, []Header{{Total: 6}, {Offset: 1, Total: 6}}},
		{"overrun", []string{"abc"}, []Header{{Total: 2}}},
		{"overrun later", []string{"ab", "cdef"}, []Header{{Total: 4}, {Offset: 2, Total: 4}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Assembler
			var err error
			for i, h := range tt.headers {
				h.Op = OpSerialize
				if _, _, _, err = a.Add(packet(t, h, tt.packets[i])); err != nil {
					break
				}
			}
			assert.ErrorIs(t, err, ErrBadChunk)
			assert.NotErrorIs(t, err, desc.ErrInvalidDescriptor)
		})
	}
}

func TestOpString(t *testing.T) {
	assert.Equal(t, "MERGE", OpMerge.String())
	assert.Equal(t, "OP(0x42)", Op(0x42).String())
}
