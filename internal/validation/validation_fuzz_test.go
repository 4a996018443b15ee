package validation

import (
	"net/url"
	"path/filepath"
	"strings"
	"testing"
)

// FuzzValidateOrigin checks that accepted origins are loopback or listed.
func FuzzValidateOrigin(f *testing.F) {
	f.Add("http://localhost:8080")
	f.Add("https://studio.example.com")
	f.Add("http://localhost.evil.com")
	f.Add("javascript:alert(1)")
	f.Add("http://127.0.0.1.nip.io")
	f.Add("http://[::1]:80")
	f.Add("")

	allowed := []string{"https://studio.example.com"}
	f.Fuzz(func(t *testing.T, origin string) {
		if err := ValidateOrigin(origin, allowed); err != nil {
			return
		}
		parsed, err := url.Parse(origin)
		if err != nil {
			t.Fatalf("accepted unparsable origin %q", origin)
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			t.Errorf("accepted origin with scheme %q", parsed.Scheme)
		}
		if !IsLoopback(parsed.Hostname()) && origin != allowed[0] && parsed.Host != allowed[0] {
			t.Errorf("accepted unlisted origin %q", origin)
		}
	})
}

// FuzzPathTraversal checks that accepted paths never climb out of their root.
func FuzzPathTraversal(f *testing.F) {
	f.Add("widgets/card.ts")
	f.Add("../secret")
	f.Add("a/../../b")
	f.Add("..")
	f.Add("./././x")

	f.Fuzz(func(t *testing.T, path string) {
		if err := ValidatePath(path); err != nil {
			return
		}
		clean := filepath.ToSlash(filepath.Clean(path))
		if clean == ".." || strings.HasPrefix(clean, "../") {
			t.Errorf("accepted traversal path %q", path)
		}
	})
}
