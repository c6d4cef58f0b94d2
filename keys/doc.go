/*
Package keys holds the shared symmetric keys used to sign and verify SWTs,
indexed by audience.

A Registry is filled once at startup, either programmatically:

	reg := keys.NewRegistry()
	reg.Register("https://app.example.com/", []byte("secret"))

or from a key file:

	reg, err := keys.LoadFile("audiences.yaml")

Two file formats are understood. YAML:

	audiences:
	  - audience: https://app.example.com/
	    symmetricKey: c2VjcmV0
	    encoding: base64
	  - audience: https://other.example.com/
	    symmetricKey: plain text secret

and JSON Web Key Sets (files ending in .json) whose oct keys carry the
audience in "kid".

Lookups are exact string matches. An audience must be registered exactly as
it appears in tokens.
*/
package keys
