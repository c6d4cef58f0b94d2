package token

import (
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/auth0/go-swt-middleware/core"
)

// Envelope identifiers for the binary security token container.
const (
	// TokenTypeURI identifies the SWT profile; it is also the envelope valueType.
	TokenTypeURI = "http://schemas.xmlsoap.org/ws/2009/11/swt-token-profile-1.0"
	// Base64EncodingType is the only accepted envelope EncodingType.
	Base64EncodingType = "http://docs.oasis-open.org/wss/2004/01/oasis-200401-wss-soap-message-security-1.0#Base64Binary"
)

type binarySecurityToken struct {
	XMLName      xml.Name `xml:"binarySecurityToken"`
	ID           string   `xml:"Id,attr,omitempty"`
	ValueType    string   `xml:"valueType,attr"`
	EncodingType string   `xml:"EncodingType,attr,omitempty"`
	Value        string   `xml:",chardata"`
}

// WriteEnvelope writes wire as a base64 binarySecurityToken element.
func WriteEnvelope(w io.Writer, id, wire string) error {
	return xml.NewEncoder(w).Encode(binarySecurityToken{
		ID:           id,
		ValueType:    TokenTypeURI,
		EncodingType: Base64EncodingType,
		Value:        EncodeCompact(wire),
	})
}

// Envelope returns the binarySecurityToken element for wire as a string.
func Envelope(id, wire string) (string, error) {
	var b strings.Builder
	if err := WriteEnvelope(&b, id, wire); err != nil {
		return "", err
	}
	return b.String(), nil
}

// ReadEnvelope reads a binarySecurityToken element and returns the wire token
// it carries.
func ReadEnvelope(r io.Reader) (string, error) {
	var bst binarySecurityToken
	if err := xml.NewDecoder(r).Decode(&bst); err != nil {
		return "", malformed("not a binarySecurityToken element", err)
	}
	if bst.ValueType != TokenTypeURI {
		return "", malformed(fmt.Sprintf("unexpected valueType %q", bst.ValueType), nil)
	}
	if bst.EncodingType != "" && bst.EncodingType != Base64EncodingType {
		return "", core.NewValidationError(
			core.ErrorCodeUnsupportedEncoding,
			fmt.Sprintf("encoding %q is not supported, expected base64 binary", bst.EncodingType),
			nil,
		)
	}
	return DecodeCompact(bst.Value)
}

// ParseEnvelope is ReadEnvelope over a string.
func ParseEnvelope(s string) (string, error) {
	return ReadEnvelope(strings.NewReader(s))
}

// EncodeCompact base64 encodes the UTF-8 bytes of wire.
func EncodeCompact(wire string) string {
	return base64.StdEncoding.EncodeToString([]byte(wire))
}

// DecodeCompact reverses EncodeCompact.
func DecodeCompact(s string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return "", malformed("token is not valid base64", err)
	}
	if !utf8.Valid(raw) {
		return "", malformed("token is not valid UTF-8", nil)
	}
	return string(raw), nil
}
