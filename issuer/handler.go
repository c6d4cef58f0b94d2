package issuer

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/auth0/go-swt-middleware/core"
	"github.com/auth0/go-swt-middleware/scope"
	"github.com/auth0/go-swt-middleware/token"
)

// ErrUnauthenticated is returned by a PrincipalFunc when the request carries
// no acceptable credentials. The handler answers 401.
var ErrUnauthenticated = errors.New("unauthenticated")

// PrincipalFunc returns the claims of the principal making r.
type PrincipalFunc func(r *http.Request) ([]token.Claim, error)

// Handler serves the WS-Federation passive endpoints.
type Handler struct {
	service   *Service
	principal PrincipalFunc
	challenge string
	logger    core.Logger
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithChallenge sets the WWW-Authenticate header sent with 401 responses.
func WithChallenge(challenge string) HandlerOption {
	return func(h *Handler) { h.challenge = challenge }
}

// WithHandlerLogger sets an optional logger.
func WithHandlerLogger(logger core.Logger) HandlerOption {
	return func(h *Handler) { h.logger = logger }
}

// NewHandler returns a Handler issuing through service for the principal
// returned by principal.
func NewHandler(service *Service, principal PrincipalFunc, opts ...HandlerOption) (*Handler, error) {
	if service == nil {
		return nil, errors.New("service cannot be nil")
	}
	if principal == nil {
		return nil, errors.New("principal func cannot be nil")
	}
	h := &Handler{service: service, principal: principal}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

var formPost = template.Must(template.New("form").Parse(`<html>
<head><title>Working...</title></head>
<body>
<form method="POST" name="hiddenform" action="{{.Action}}">
<input type="hidden" name="wa" value="wsignin1.0" />
<input type="hidden" name="wresult" value="{{.Result}}" />
{{- if .Context}}
<input type="hidden" name="wctx" value="{{.Context}}" />
{{- end}}
<noscript><p>Script is disabled. Click Submit to continue.</p><input type="submit" value="Submit" /></noscript>
</form>
<script>window.setTimeout(function () { document.forms[0].submit(); }, 0);</script>
</body>
</html>
`))

type formPostData struct {
	Action  string
	Result  string
	Context string
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	switch action := r.Form.Get(ParamAction); action {
	case ActionSignIn:
		h.signIn(w, r)
	case ActionSignOut:
		h.signOut(w, r)
	case "":
		if reply := r.Form.Get(ParamReply); reply != "" {
			h.redirect(w, r, requestBase(r), reply)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("SWT issuer " + h.service.Name() + " is running.\n"))
	default:
		http.Error(w, "unsupported action "+action, http.StatusBadRequest)
	}
}

func (h *Handler) signIn(w http.ResponseWriter, r *http.Request) {
	req, err := ParseSignInRequest(r.Form)
	if err != nil {
		h.writeError(w, err)
		return
	}

	claims, err := h.principal(r)
	if err != nil {
		if errors.Is(err, ErrUnauthenticated) {
			if h.challenge != "" {
				w.Header().Set("WWW-Authenticate", h.challenge)
			}
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}
		if h.logger != nil {
			h.logger.Error("Principal lookup failed", "error", err)
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp, err := h.service.Issue(r.Context(), Request{
		AppliesTo: req.Realm,
		ReplyTo:   req.Reply,
		Claims:    claims,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := formPost.Execute(w, formPostData{
		Action:  resp.Scope.ReplyTo,
		Result:  resp.Envelope,
		Context: req.Context,
	}); err != nil && h.logger != nil {
		h.logger.Error("Writing sign-in response failed", "error", err)
	}
}

// signOut redirects to wreply when it is on the host of a registered realm or
// of the issuer itself.
func (h *Handler) signOut(w http.ResponseWriter, r *http.Request) {
	base := requestBase(r)
	if realm := r.Form.Get(ParamRealm); realm != "" && h.service.scopes.Registered(r.Context(), realm) {
		base = realm
	}
	h.redirect(w, r, base, r.Form.Get(ParamReply))
}

func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, base, reply string) {
	target, err := scope.ReplyTo(base, reply)
	if err != nil {
		h.writeError(w, err)
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch core.CodeOf(err) {
	case core.ErrorCodeInvalidRequest:
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		if h.logger != nil {
			h.logger.Error("Issuing token failed", "error", err)
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func requestBase(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/"
}
