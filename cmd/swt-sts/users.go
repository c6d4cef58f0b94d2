package main

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/auth0/go-swt-middleware/issuer"
	"github.com/auth0/go-swt-middleware/token"
)

// user is one entry of the users file.
//
//	users:
//	  - name: alice
//	    passwordHash: $2a$10$...
//	    email: alice@example.com
//	    roles: [admin]
type user struct {
	Name         string   `yaml:"name"`
	PasswordHash string   `yaml:"passwordHash"`
	Email        string   `yaml:"email,omitempty"`
	Roles        []string `yaml:"roles,omitempty"`
}

type userStore map[string]user

var (
	compareHash = bcrypt.CompareHashAndPassword

	unknownUserHash = mustHash("unknown-user-placeholder")
)

func mustHash(password string) []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return hash
}

func loadUsers(path string) (userStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open users file: %w", err)
	}
	defer f.Close()
	return readUsers(f)
}

func readUsers(r io.Reader) (userStore, error) {
	var file struct {
		Users []user `yaml:"users"`
	}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse users file: %w", err)
	}

	users := make(userStore, len(file.Users))
	for _, u := range file.Users {
		if u.Name == "" || u.PasswordHash == "" {
			return nil, fmt.Errorf("user entry needs a name and a passwordHash")
		}
		if _, dup := users[u.Name]; dup {
			return nil, fmt.Errorf("user %q is listed twice", u.Name)
		}
		users[u.Name] = u
	}
	return users, nil
}

// claims lists the principal's claims: name identifier, email, then roles.
// Relying parties derive the name claim from the name identifier.
func (u user) claims() []token.Claim {
	out := []token.Claim{
		{Type: token.NameIdentifierClaimType, Value: u.Name},
	}
	if u.Email != "" {
		out = append(out, token.Claim{Type: token.EmailClaimType, Value: u.Email})
	}
	for _, role := range u.Roles {
		out = append(out, token.Claim{Type: token.RoleClaimType, Value: role})
	}
	return out
}

// basicAuthPrincipal authenticates the request's basic credentials against
// the store.
func (s userStore) basicAuthPrincipal(r *http.Request) ([]token.Claim, error) {
	name, password, ok := r.BasicAuth()
	if !ok {
		return nil, issuer.ErrUnauthenticated
	}
	u, found := s[name]
	hash := unknownUserHash
	if found {
		hash = []byte(u.PasswordHash)
	}
	// Unknown names are compared against a placeholder hash.
	if err := compareHash(hash, []byte(password)); err != nil || !found {
		return nil, issuer.ErrUnauthenticated
	}
	return u.claims(), nil
}
