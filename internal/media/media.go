// Package media stores item images as blobs and hands out public locators
// for them. Blob keys are always generated here; a caller's filename only
// contributes its extension.
package media

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/erazemk/najdeno/internal/apperr"
)

// Namespace is the key prefix under which item blobs live.
const Namespace = "items"

// Store uploads and removes blobs.
type Store interface {
	// Upload stores data under a freshly generated key and returns its locator.
	Upload(ctx context.Context, data []byte, filename string) (string, error)
	// Remove deletes the blob a locator points to.
	Remove(ctx context.Context, locator string) error
}

var (
	extPattern  = regexp.MustCompile(`^\.[a-z0-9]{1,10}$`)
	namePattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}(\.[a-z0-9]{1,10})?$`)
)

// NewKey returns a collision-resistant key for a blob named filename.
func NewKey(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if !extPattern.MatchString(ext) {
		ext = ""
	}
	return Namespace + "/" + uuid.NewString() + ext
}

// ValidName reports whether name is a blob file name this package could
// have generated.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// Locator returns the public locator of key under baseURL.
func Locator(baseURL, key string) string {
	return strings.TrimSuffix(baseURL, "/") + "/" + key
}

// ResolveKey recovers the blob key from a locator issued under baseURL.
// Locators from another host, outside the namespace or with a file name
// this package would not generate are rejected with a StorageError.
func ResolveKey(baseURL, locator string) (string, error) {
	fail := func(reason string) (string, error) {
		return "", &apperr.StorageError{Op: "resolve", Locator: locator, Err: fmt.Errorf("%s", reason)}
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return fail("invalid base url")
	}
	loc, err := url.Parse(locator)
	if err != nil {
		return fail("unparsable locator")
	}
	if loc.Scheme != base.Scheme || loc.Host != base.Host {
		return fail("foreign locator")
	}

	prefix := strings.TrimSuffix(base.Path, "/") + "/" + Namespace + "/"
	name, ok := strings.CutPrefix(loc.Path, prefix)
	if !ok {
		return fail("locator outside namespace")
	}
	if !ValidName(name) {
		return fail("unexpected blob name")
	}
	return Namespace + "/" + name, nil
}
