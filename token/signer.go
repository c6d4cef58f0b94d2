package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/url"
	"strings"

	"github.com/auth0/go-swt-middleware/core"
)

// Sign returns the HMAC-SHA256 of message under key, base64 encoded and then
// url-encoded.
func Sign(message, key []byte) string {
	return url.QueryEscape(base64.StdEncoding.EncodeToString(mac(message, key)))
}

// Verify reports whether signature, in the form returned by Sign, is the
// HMAC-SHA256 of message under key. The comparison is constant time.
func Verify(message []byte, signature string, key []byte) bool {
	decoded, err := url.QueryUnescape(signature)
	if err != nil {
		return false
	}
	presented, err := base64.StdEncoding.Strict().DecodeString(decoded)
	if err != nil {
		return false
	}
	return hmac.Equal(mac(message, key), presented)
}

func mac(message, key []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(message)
	return h.Sum(nil)
}

// UnsignedPrefix returns the part of wire covered by its signature. The final
// "&"-delimited segment must be the HMACSHA256 pair; otherwise the error is a
// ValidationError with code signature_malformed.
func UnsignedPrefix(wire string) (string, error) {
	i := strings.LastIndex(wire, parameterSeparator)
	if i < 0 || !strings.HasPrefix(wire[i:], signaturePairPrefix) {
		return "", core.NewValidationError(
			core.ErrorCodeSignatureMalformed,
			"HMACSHA256 must be the last parameter of the token",
			nil,
		)
	}
	return wire[:i], nil
}

const signaturePairPrefix = parameterSeparator + Signature + nameValueSeparator
