// Package identity supplies the bearer credential attached to backend
// requests. Providers are injected into the API client at construction so
// tests can substitute their own.
package identity

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	homedir "github.com/mitchellh/go-homedir"
	"golang.org/x/sync/singleflight"
)

// ErrNoSession means no credential is available. Requests are then sent
// without an Authorization header.
var ErrNoSession = errors.New("identity: no session")

// Provider yields an opaque bearer token.
type Provider interface {
	Token(ctx context.Context) (string, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context) (string, error)

// Token calls f.
func (f ProviderFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

// Static always returns the same token.
type Static string

// Token returns s, or ErrNoSession when s is blank.
func (s Static) Token(context.Context) (string, error) {
	if strings.TrimSpace(string(s)) == "" {
		return "", ErrNoSession
	}
	return string(s), nil
}

// None is a provider without a session.
func None() Provider { return Static("") }

// File reads the token from a file written by an external login helper. The
// token is cached until Invalidate is called or Watch sees the file change;
// concurrent misses share a single read.
type File struct {
	path string

	group singleflight.Group

	mu     sync.Mutex
	cached string
	gen    uint64
}

// NewFile returns a provider for the token stored at path.
func NewFile(path string) (*File, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("identity: expand token path: %w", err)
	}
	return &File{path: expanded}, nil
}

// Path is the token file location.
func (f *File) Path() string { return f.path }

// Token returns the cached token or reads it from disk.
func (f *File) Token(ctx context.Context) (string, error) {
	f.mu.Lock()
	if f.cached != "" {
		tok := f.cached
		f.mu.Unlock()
		return tok, nil
	}
	f.mu.Unlock()

	ch := f.group.DoChan(f.path, func() (interface{}, error) {
		f.mu.Lock()
		gen := f.gen
		f.mu.Unlock()
		tok, err := f.read()
		return fileRead{token: tok, gen: gen}, err
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		r := res.Val.(fileRead)
		f.mu.Lock()
		// Only cache if nothing invalidated the token while it was read.
		if f.gen == r.gen {
			f.cached = r.token
		}
		f.mu.Unlock()
		return r.token, nil
	}
}

type fileRead struct {
	token string
	gen   uint64
}

// Invalidate drops the cached token so the next call rereads the file.
func (f *File) Invalidate() {
	f.mu.Lock()
	f.cached = ""
	f.gen++
	f.mu.Unlock()
	// Callers arriving from now on must not join a read that began before.
	f.group.Forget(f.path)
}

// readFile is swapped in tests to hold a read open.
var readFile = os.ReadFile

func (f *File) read() (string, error) {
	b, err := readFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNoSession
		}
		return "", fmt.Errorf("identity: read token: %w", err)
	}
	tok := strings.TrimSpace(string(b))
	if tok == "" {
		return "", ErrNoSession
	}
	return tok, nil
}

// FromConfig picks a provider: an inline token wins, then a token file,
// otherwise no session.
func FromConfig(token, tokenFile string) (Provider, error) {
	if strings.TrimSpace(token) != "" {
		return Static(strings.TrimSpace(token)), nil
	}
	if strings.TrimSpace(tokenFile) != "" {
		return NewFile(tokenFile)
	}
	return None(), nil
}
