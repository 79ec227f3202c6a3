package media

import (
	"errors"
	"strings"
	"testing"

	"github.com/erazemk/najdeno/internal/apperr"
)

func TestNewKey(t *testing.T) {
	tests := []struct {
		filename string
		ext      string
	}{
		{"photo.jpg", ".jpg"},
		{"Photo.JPEG", ".jpeg"},
		{"../../etc/passwd", ""},
		{"no-extension", ""},
		{"weird.ph p", ""},
		{"archive.tar.gz", ".gz"},
		{"", ""},
	}

	for _, tt := range tests {
		key := NewKey(tt.filename)
		name, ok := strings.CutPrefix(key, Namespace+"/")
		if !ok {
			t.Errorf("NewKey(%q) = %q, missing namespace", tt.filename, key)
			continue
		}
		if !strings.HasSuffix(name, tt.ext) || (tt.ext == "" && strings.Contains(name, ".")) {
			t.Errorf("NewKey(%q) = %q, want extension %q", tt.filename, key, tt.ext)
		}
		if !ValidName(name) {
			t.Errorf("NewKey(%q) produced invalid name %q", tt.filename, name)
		}
		if strings.Contains(key, "photo") || strings.Contains(key, "passwd") {
			t.Errorf("NewKey(%q) leaked the caller's filename: %q", tt.filename, key)
		}
	}

	if NewKey("a.jpg") == NewKey("a.jpg") {
		t.Error("expected distinct keys for the same filename")
	}
}

func TestResolveKey(t *testing.T) {
	const base = "http://localhost:8080/media"
	const name = "0f8fad5b-d9cb-469f-a165-70867728950e.jpg"

	tests := []struct {
		name    string
		locator string
		want    string
	}{
		{"own locator", base + "/items/" + name, "items/" + name},
		{"foreign host", "http://evil.example/media/items/" + name, ""},
		{"other scheme", "https://localhost:8080/media/items/" + name, ""},
		{"outside namespace", base + "/avatars/" + name, ""},
		{"nested path", base + "/items/sub/" + name, ""},
		{"traversal", base + "/items/../settings", ""},
		{"caller name", base + "/items/my photo.jpg", ""},
		{"garbage", "::not a url", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		got, err := ResolveKey(base, tt.locator)
		if tt.want == "" {
			if err == nil {
				t.Errorf("%s: expected error, got key %q", tt.name, got)
			} else if !errors.Is(err, apperr.ErrStorage) {
				t.Errorf("%s: expected StorageError, got %v", tt.name, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: ResolveKey: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestLocatorRoundTrip(t *testing.T) {
	for _, base := range []string{"http://localhost:8080/media", "http://localhost:8080/media/", "https://bucket.s3.eu-central-1.amazonaws.com"} {
		key := NewKey("x.png")
		got, err := ResolveKey(base, Locator(base, key))
		if err != nil {
			t.Errorf("base %q: %v", base, err)
			continue
		}
		if got != key {
			t.Errorf("base %q: got %q, want %q", base, got, key)
		}
	}
}
