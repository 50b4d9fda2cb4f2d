package security

import (
	"encoding/ascii85"
)

// StrEncode encodes a string with base-85 so that raw identifiers never appear
// verbatim inside JWT claims. This is an obfuscation layer, not a security
// boundary; StrDecode reverses it exactly.
func StrEncode(plain string) string {
	buf := make([]byte, ascii85.MaxEncodedLen(len(plain)))
	n := ascii85.Encode(buf, []byte(plain))
	return string(buf[:n])
}

// StrDecode reverses StrEncode.
func StrDecode(encoded string) (string, error) {
	buf := make([]byte, len(encoded))
	n, _, err := ascii85.Decode(buf, []byte(encoded), true)
	if err != nil {
		return "", err
	}
	return string(buf[:n]), nil
}
