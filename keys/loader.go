package keys

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"gopkg.in/yaml.v3"
)

// Key encodings accepted in Entry.Encoding.
const (
	EncodingUTF8   = "utf8"
	EncodingBase64 = "base64"
)

// Entry is one audience/key pair as it appears in configuration.
type Entry struct {
	Audience     string `yaml:"audience"`
	SymmetricKey string `yaml:"symmetricKey"`
	// Encoding is how SymmetricKey is written: utf8 (default) uses the bytes
	// of the string, base64 decodes it first.
	Encoding string `yaml:"encoding,omitempty"`
}

// Bytes returns the key material described by e.
func (e Entry) Bytes() ([]byte, error) {
	switch strings.ToLower(e.Encoding) {
	case "", EncodingUTF8, "utf-8":
		return []byte(e.SymmetricKey), nil
	case EncodingBase64:
		b, err := base64.StdEncoding.DecodeString(e.SymmetricKey)
		if err != nil {
			return nil, fmt.Errorf("could not decode key for %q: %w", e.Audience, err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown key encoding %q for %q", e.Encoding, e.Audience)
	}
}

type fileFormat struct {
	Audiences []Entry `yaml:"audiences"`
}

// FromEntries builds a Registry from configuration entries. Every entry needs
// an audience and a non-empty key.
func FromEntries(entries []Entry) (*Registry, error) {
	reg := NewRegistry()
	for i, e := range entries {
		if e.Audience == "" {
			return nil, fmt.Errorf("entry %d: audience is required", i)
		}
		k, err := e.Bytes()
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		if len(k) == 0 {
			return nil, fmt.Errorf("entry %d: key for %q is empty", i, e.Audience)
		}
		reg.Register(e.Audience, k)
	}
	return reg, nil
}

// LoadYAML reads an audiences document.
func LoadYAML(r io.Reader) (*Registry, error) {
	var doc fileFormat
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("could not parse audience key file: %w", err)
	}
	return FromEntries(doc.Audiences)
}

// LoadJWKSet reads a JSON Web Key Set. Only oct keys are accepted and each
// must carry its audience as the key ID.
func LoadJWKSet(r io.Reader) (*Registry, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("could not read JWK set: %w", err)
	}
	set, err := jwk.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("could not parse JWK set: %w", err)
	}
	return fromSet(set)
}

func fromSet(set jwk.Set) (*Registry, error) {
	reg := NewRegistry()
	for i := 0; i < set.Len(); i++ {
		key, ok := set.Key(i)
		if !ok {
			continue
		}
		if key.KeyType() != jwa.OctetSeq {
			return nil, fmt.Errorf("key %d: unsupported key type %q, only oct keys can sign SWTs", i, key.KeyType())
		}
		if key.KeyID() == "" {
			return nil, fmt.Errorf("key %d: kid must name the audience", i)
		}
		sym, ok := key.(jwk.SymmetricKey)
		if !ok || len(sym.Octets()) == 0 {
			return nil, fmt.Errorf("key %d: empty symmetric key", i)
		}
		reg.Register(key.KeyID(), sym.Octets())
	}
	return reg, nil
}

// LoadFile reads a key file, choosing the format from the extension: .json
// is a JWK Set, anything else is YAML.
func LoadFile(path string) (*Registry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read audience key file: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return LoadJWKSet(bytes.NewReader(b))
	}
	return LoadYAML(bytes.NewReader(b))
}
