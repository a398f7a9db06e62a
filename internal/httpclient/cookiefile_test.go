package httpclient

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCookieFileSeedsJar(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cookies.txt")
	content := "# Netscape HTTP Cookie File\n" +
		"example.com\tFALSE\t/\tFALSE\t0\tsession\tabc123\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := LoadCookieFile(jar, path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	u, _ := url.Parse("http://example.com/")
	cookies := jar.Cookies(u)
	if len(cookies) != 1 || cookies[0].Name != "session" || cookies[0].Value != "abc123" {
		t.Fatalf("expected session=abc123, got %v", cookies)
	}
}

func TestLoadCookieFileRejectsMalformedLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cookies.txt")
	if err := os.WriteFile(path, []byte("not\tenough\tfields\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := LoadCookieFile(jar, path); err == nil {
		t.Fatal("expected error for malformed cookie line")
	}
}

func TestSaveCookieFileRoundTrips(t *testing.T) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	u, _ := url.Parse("http://example.com/")
	jar.SetCookies(u, []*http.Cookie{{Name: "session", Value: "abc123"}})

	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")
	if err := SaveCookieFile(jar, []*url.URL{u}, path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty cookie file")
	}

	reloaded, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := LoadCookieFile(reloaded, path); err != nil {
		t.Fatalf("unexpected error reloading saved file: %v", err)
	}
	cookies := reloaded.Cookies(u)
	if len(cookies) != 1 || cookies[0].Name != "session" || cookies[0].Value != "abc123" {
		t.Fatalf("expected session=abc123 after reload, got %v", cookies)
	}
}
