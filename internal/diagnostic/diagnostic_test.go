package diagnostic

import (
	"errors"
	"strings"
	"testing"

	"github.com/legzo/hurl/internal/ast"
	"github.com/legzo/hurl/internal/parser"
)

func TestFormatPointsCaretAtSpanStart(t *testing.T) {
	src := "GET example.com\nHTTP/1.1 200\n"
	d := Diagnostic{
		Filename:   "test.hurl",
		Source:     src,
		SourceInfo: ast.SourceInfo{Start: ast.Pos{Line: 1, Column: 5}, End: ast.Pos{Line: 1, Column: 16}},
		Message:    "malformed URL",
	}
	noColor := false
	out := Format(d, nil, &noColor)

	lines := strings.Split(out, "\n")
	if !strings.Contains(lines[0], "test.hurl:1:5") {
		t.Errorf("expected header to reference 1:5, got %q", lines[0])
	}
	if lines[1] != "GET example.com" {
		t.Errorf("expected source snippet line, got %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "    ^") {
		t.Errorf("expected caret indented to column 5, got %q", lines[2])
	}
}

func TestFormatIncludesFixmeHint(t *testing.T) {
	d := Diagnostic{
		Filename:   "test.hurl",
		Source:     "GET bad url\n",
		SourceInfo: ast.SourceInfo{Start: ast.Pos{Line: 1, Column: 5}, End: ast.Pos{Line: 1, Column: 8}},
		Message:    "malformed URL",
		Fixme:      "quote the URL or remove the embedded space",
	}
	noColor := false
	out := Format(d, nil, &noColor)
	if !strings.Contains(out, "quote the URL") {
		t.Errorf("expected fixme hint in output, got %q", out)
	}
}

func TestFromErrorRecognizesParserError(t *testing.T) {
	pe := &parser.Error{
		SourceInfo: ast.SourceInfo{Start: ast.Pos{Line: 2, Column: 1}, End: ast.Pos{Line: 2, Column: 4}},
		Message:    "expected a method",
		Fixme:      "use GET, POST, PUT, ...",
	}
	d, ok := FromError("test.hurl", "GET example.com\nbad\n", pe)
	if !ok {
		t.Fatal("expected FromError to recognize *parser.Error")
	}
	if d.Message != "expected a method" || d.Fixme != "use GET, POST, PUT, ..." {
		t.Errorf("unexpected diagnostic: %+v", d)
	}
}

func TestFromErrorRejectsUnknownErrorType(t *testing.T) {
	_, ok := FromError("test.hurl", "", errors.New("boom"))
	if ok {
		t.Error("expected FromError to reject a plain error")
	}
}
