package httpclient

import (
	"mime"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/legzo/hurl/internal/ast"
	"github.com/legzo/hurl/internal/variables"
)

func TestBuildMultipartFieldAndFile(t *testing.T) {
	params := []ast.MultipartParam{
		{Name: templateOf("field1"), Value: templateOf("value1")},
		{Name: templateOf("upload1"), IsFile: true, FileName: templateOf("data.txt"), ContentType: templateOf("text/plain")},
	}
	readFile := func(path string) ([]byte, error) {
		if path != "data.txt" {
			t.Fatalf("unexpected path %q", path)
		}
		return []byte("file contents"), nil
	}

	body, contentType, err := buildMultipart(params, variables.New(), readFile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, params2, err := mime.ParseMediaType(contentType)
	if err != nil {
		t.Fatalf("invalid content-type %q: %v", contentType, err)
	}
	boundary := params2["boundary"]
	if boundary == "" {
		t.Fatal("expected non-empty boundary")
	}

	mr := multipart.NewReader(strings.NewReader(string(body)), boundary)
	form, err := mr.ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if got := form.Value["field1"]; len(got) != 1 || got[0] != "value1" {
		t.Errorf("expected field1=value1, got %v", got)
	}
	if len(form.File["upload1"]) != 1 {
		t.Fatalf("expected one uploaded file, got %v", form.File)
	}
	fh := form.File["upload1"][0]
	if fh.Filename != "data.txt" {
		t.Errorf("expected filename data.txt, got %q", fh.Filename)
	}
	if ct := fh.Header.Get("Content-Type"); ct != "text/plain" {
		t.Errorf("expected content-type text/plain, got %q", ct)
	}
}
