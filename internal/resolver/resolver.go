package resolver

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// Resolver derives canonical document identifiers from the identifier
// forms clients send: file URIs, bare absolute paths, workspace-relative
// paths, and remote URLs. Two identifiers naming the same resource always
// canonicalize to the same string, which is what cache entries are keyed
// by.
type Resolver struct {
	root string
}

// New creates a Resolver for a workspace root, given as a file URI or a
// plain path.
func New(rootURI string) (*Resolver, error) {
	root := rootURI
	if u, err := url.Parse(rootURI); err == nil && u.Scheme == "file" {
		root = u.Path
	}
	if root == "" {
		return nil, fmt.Errorf("empty workspace root")
	}
	return &Resolver{root: filepath.Clean(root)}, nil
}

// Root returns the workspace root path.
func (r *Resolver) Root() string {
	return r.root
}

// Canonical resolves raw through a fallback chain: a parseable URI with a
// scheme is normalized as-is (file URIs additionally get a cleaned path);
// a bare absolute path becomes a file URI; anything else is treated as a
// path relative to the workspace root.
func (r *Resolver) Canonical(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("empty document identifier")
	}

	if u, err := url.Parse(raw); err == nil && u.Scheme != "" {
		if u.Scheme == "file" {
			return fileURI(u.Path), nil
		}
		// Remote and virtual schemes pass through normalized.
		return u.String(), nil
	}

	if filepath.IsAbs(raw) {
		return fileURI(raw), nil
	}
	return fileURI(filepath.Join(r.root, raw)), nil
}

// IsRemote reports whether a canonical identifier names a resource outside
// the local filesystem.
func (r *Resolver) IsRemote(canonical string) bool {
	return !strings.HasPrefix(canonical, "file://")
}

func fileURI(path string) string {
	u := url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(filepath.Clean(path)),
	}
	return u.String()
}
