package validator

import (
	"net/url"
	"strings"
)

// relativeBase anchors relative audiences so they can be compared.
var relativeBase = &url.URL{Scheme: "http", Host: "www.example.com", Path: "/"}

// NormalizeAudience returns the comparable form of an audience URI. Absolute
// URIs get a lowercase scheme and host, lose their query and fragment, and an
// empty path becomes "/". Relative URIs are resolved against a neutral base,
// lose their query and fragment, and are returned without the leading slash.
func NormalizeAudience(audience string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(audience))
	if err != nil {
		return "", err
	}

	if !u.IsAbs() {
		u = relativeBase.ResolveReference(u)
		if u.Host == relativeBase.Host {
			stripQuery(u)
			return strings.TrimPrefix(u.EscapedPath(), "/"), nil
		}
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	stripQuery(u)
	if u.Opaque == "" && u.Path == "" {
		u.Path = "/"
		u.RawPath = ""
	}
	return u.String(), nil
}

func stripQuery(u *url.URL) {
	u.RawQuery = ""
	u.ForceQuery = false
	u.Fragment = ""
	u.RawFragment = ""
}
