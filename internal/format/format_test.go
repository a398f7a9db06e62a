package format

import (
	"strings"
	"testing"

	"github.com/legzo/hurl/internal/parser"
)

const sampleHurl = `GET https://example.com/api
Authorization: Bearer token

HTTP/1.1 200
[Captures]
id: jsonpath "$.id"
[Asserts]
status equals 200
`

func TestCanonicalIsIdempotent(t *testing.T) {
	file, err := parser.Parse(sampleHurl)
	if err != nil {
		t.Fatal(err)
	}
	first := Canonical(file)

	reparsed, err := parser.Parse(first)
	if err != nil {
		t.Fatalf("reparsing formatted output failed: %v", err)
	}
	second := Canonical(reparsed)

	if first != second {
		t.Errorf("Canonical is not idempotent:\n--- first ---\n%s\n--- second ---\n%s", first, second)
	}
}

func TestCanonicalIncludesRequestAndResponse(t *testing.T) {
	file, err := parser.Parse(sampleHurl)
	if err != nil {
		t.Fatal(err)
	}
	out := Canonical(file)
	for _, want := range []string{"GET https://example.com/api", "Authorization: Bearer token", "HTTP/1.1 200", "[Captures]", "[Asserts]", "status equals 200"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestDumpASTMentionsEntryCount(t *testing.T) {
	file, err := parser.Parse(sampleHurl)
	if err != nil {
		t.Fatal(err)
	}
	out := DumpAST(file)
	if !strings.Contains(out, "1 entries") {
		t.Errorf("expected entry count in dump, got %q", out)
	}
}

func TestHTMLEscapesAndWrapsStandalone(t *testing.T) {
	file, err := parser.Parse(sampleHurl)
	if err != nil {
		t.Fatal(err)
	}
	frag := HTML(file, false)
	if !strings.Contains(frag, `<span class="method">GET</span>`) {
		t.Errorf("expected method span, got %q", frag)
	}
	doc := HTML(file, true)
	if !strings.HasPrefix(doc, "<!DOCTYPE html>") {
		t.Errorf("expected standalone doc, got %q", doc)
	}
}
