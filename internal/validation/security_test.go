package validation

import (
	"testing"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "relative file", path: "widgets/card.ts", wantErr: false},
		{name: "absolute file", path: "/home/dev/card.ts", wantErr: false},
		{name: "dotted name", path: "cards..v2.ts", wantErr: false},
		{name: "empty", path: "", wantErr: true},
		{name: "traversal", path: "../../etc/passwd", wantErr: true},
		{name: "traversal after clean", path: "widgets/../../secret", wantErr: true},
		{name: "proc", path: "/proc/self/environ", wantErr: true},
		{name: "shell metacharacter", path: "card.ts; rm -rf /", wantErr: true},
		{name: "null byte", path: "card.ts\x00.png", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestValidateOrigin(t *testing.T) {
	allowed := []string{"https://studio.example.com", "tools.example.com:8443"}

	tests := []struct {
		name    string
		origin  string
		allowed []string
		wantErr bool
	}{
		{name: "localhost always allowed", origin: "http://localhost:5173", wantErr: false},
		{name: "loopback ip", origin: "http://127.0.0.1:8080", wantErr: false},
		{name: "ipv6 loopback", origin: "http://[::1]:8080", wantErr: false},
		{name: "exact origin", origin: "https://studio.example.com", allowed: allowed, wantErr: false},
		{name: "host entry", origin: "https://tools.example.com:8443", allowed: allowed, wantErr: false},
		{name: "wildcard", origin: "https://anything.test", allowed: []string{"*"}, wantErr: false},
		{name: "unlisted", origin: "https://evil.example.com", allowed: allowed, wantErr: true},
		{name: "missing", origin: "", wantErr: true},
		{name: "bad scheme", origin: "file://localhost", wantErr: true},
		{name: "lookalike localhost", origin: "http://localhost.evil.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOrigin(tt.origin, tt.allowed)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOrigin(%q) error = %v, wantErr %v", tt.origin, err, tt.wantErr)
			}
		})
	}
}

func TestValidateHost(t *testing.T) {
	tests := []struct {
		host    string
		wantErr bool
	}{
		{"localhost", false},
		{"0.0.0.0", false},
		{"::1", false},
		{"studio.example.com", false},
		{"bad_host", true},
		{"host;rm", true},
		{"-leading.example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			err := ValidateHost(tt.host)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateHost(%q) error = %v, wantErr %v", tt.host, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFileExtension(t *testing.T) {
	allowed := []string{".ts", ".js", ".txt"}

	tests := []struct {
		filename string
		wantErr  bool
	}{
		{"resource.ts", false},
		{"RESOURCE.TS", false},
		{"resource.js", false},
		{"resource.exe", true},
		{"resource", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			err := ValidateFileExtension(tt.filename, allowed)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFileExtension(%q) error = %v, wantErr %v", tt.filename, err, tt.wantErr)
			}
		})
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "hello", want: "hello"},
		{name: "null bytes", input: "he\x00llo", want: "hello"},
		{name: "keeps whitespace", input: "a\tb\nc\r\n", want: "a\tb\nc\r\n"},
		{name: "drops bell and escape", input: "a\x07b\x1bc", want: "abc"},
		{name: "unicode", input: "héllo ✓", want: "héllo ✓"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeInput(tt.input); got != tt.want {
				t.Errorf("SanitizeInput(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func BenchmarkValidateOrigin(b *testing.B) {
	allowed := []string{"https://studio.example.com"}
	for i := 0; i < b.N; i++ {
		_ = ValidateOrigin("https://studio.example.com", allowed)
	}
}
