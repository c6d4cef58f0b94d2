/*
Package issuer mints SWTs for relying parties.

Service.Issue runs the issuance path: resolve the scope for the requested
relying party, assemble the token from the caller's claims, sign it with the
scope's key and wrap it in a binarySecurityToken envelope.

	scopes, _ := scope.NewResolver(scope.WithSigningKey(key))
	svc, _ := issuer.New(
	    issuer.WithIssuerName("https://sts.example.com/"),
	    issuer.WithScopeResolver(scopes),
	)
	resp, err := svc.Issue(ctx, issuer.Request{
	    AppliesTo: "https://app.example.com/",
	    ReplyTo:   "/signin",
	    Claims:    []token.Claim{{Type: token.NameClaimType, Value: "alice"}},
	})

Handler serves the WS-Federation passive endpoints on top of a Service:
wa=wsignin1.0 answers with an auto-posting form carrying the envelope to the
resolved reply address, wa=wsignout1.0 redirects back.
*/
package issuer
