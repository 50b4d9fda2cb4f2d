package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrEncodeRoundTrip(t *testing.T) {
	cases := []string{
		"1",
		"42",
		"689f1a2b3c4d5e6f7a8b9c0d",
		"alice@example.com",
		"hello world",
		"!\"#$%&'()*+,-./0123456789:;<=>?@ABCXYZ[\\]^_`abcxyz{|}~",
	}

	for _, plain := range cases {
		encoded := StrEncode(plain)
		decoded, err := StrDecode(encoded)
		require.NoError(t, err, "input %q", plain)
		assert.Equal(t, plain, decoded, "input %q", plain)
	}
}

func TestStrEncodeObfuscates(t *testing.T) {
	assert.NotEqual(t, "689f1a2b3c4d5e6f7a8b9c0d", StrEncode("689f1a2b3c4d5e6f7a8b9c0d"))
}

func TestStrDecodeRejectsGarbage(t *testing.T) {
	_, err := StrDecode("\x01\x02 not base85 \xff")
	assert.Error(t, err)
}
