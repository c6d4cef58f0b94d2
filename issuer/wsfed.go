package issuer

import (
	"fmt"
	"net/url"

	"github.com/auth0/go-swt-middleware/core"
)

// WS-Federation passive request parameters.
const (
	ParamAction  = "wa"
	ParamRealm   = "wtrealm"
	ParamReply   = "wreply"
	ParamContext = "wctx"
	ParamResult  = "wresult"

	ActionSignIn  = "wsignin1.0"
	ActionSignOut = "wsignout1.0"
)

// SignInRequest is a parsed wa=wsignin1.0 request.
type SignInRequest struct {
	Realm   string
	Reply   string
	Context string
}

// ParseSignInRequest reads a sign-in request from query or form values.
func ParseSignInRequest(values url.Values) (*SignInRequest, error) {
	if action := values.Get(ParamAction); action != ActionSignIn {
		return nil, core.NewValidationError(
			core.ErrorCodeInvalidRequest,
			fmt.Sprintf("expected %s=%s, got %q", ParamAction, ActionSignIn, action),
			nil,
		)
	}
	realm := values.Get(ParamRealm)
	if realm == "" {
		return nil, core.NewValidationError(core.ErrorCodeInvalidRequest, ParamRealm+" is required", nil)
	}
	return &SignInRequest{
		Realm:   realm,
		Reply:   values.Get(ParamReply),
		Context: values.Get(ParamContext),
	}, nil
}

// Values renders the request as query parameters, e.g. for a redirect from a
// relying party to the issuer.
func (r *SignInRequest) Values() url.Values {
	v := url.Values{}
	v.Set(ParamAction, ActionSignIn)
	v.Set(ParamRealm, r.Realm)
	if r.Reply != "" {
		v.Set(ParamReply, r.Reply)
	}
	if r.Context != "" {
		v.Set(ParamContext, r.Context)
	}
	return v
}
