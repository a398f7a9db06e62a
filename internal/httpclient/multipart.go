package httpclient

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/legzo/hurl/internal/ast"
	"github.com/legzo/hurl/internal/eval"
	"github.com/legzo/hurl/internal/variables"
)

// buildMultipart renders a [MultipartFormData] section into a
// multipart/form-data body. Each part's boundary-adjacent framing is
// produced by the standard mime/multipart writer; the boundary itself
// is a random v4 UUID rather than mime/multipart's own generated
// default, matching the way curl-backed tooling mints unpredictable
// boundaries per request.
func buildMultipart(params []ast.MultipartParam, vars *variables.Variables, readFile func(path string) ([]byte, error)) (body []byte, contentType string, err error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.SetBoundary(uuid.NewString()); err != nil {
		return nil, "", fmt.Errorf("multipart boundary: %w", err)
	}

	for _, p := range params {
		name, err := eval.Eval(p.Name, vars)
		if err != nil {
			return nil, "", err
		}
		if !p.IsFile {
			val, err := eval.Eval(p.Value, vars)
			if err != nil {
				return nil, "", err
			}
			fw, err := w.CreateFormField(name)
			if err != nil {
				return nil, "", err
			}
			if _, err := fw.Write([]byte(val)); err != nil {
				return nil, "", err
			}
			continue
		}

		path, err := eval.Eval(p.FileName, vars)
		if err != nil {
			return nil, "", err
		}
		data, err := readFile(path)
		if err != nil {
			return nil, "", fmt.Errorf("multipart part %q: %w", name, err)
		}
		ct := ""
		if len(p.ContentType.Elements) > 0 {
			ct, err = eval.Eval(p.ContentType, vars)
			if err != nil {
				return nil, "", err
			}
		}
		if ct == "" {
			ct = mime.TypeByExtension(filepath.Ext(path))
		}
		if ct == "" {
			ct = "application/octet-stream"
		}
		fw, err := createFormFile(w, name, filepath.Base(path), ct)
		if err != nil {
			return nil, "", err
		}
		if _, err := fw.Write(data); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

// createFormFile is mime/multipart.Writer.CreateFormFile but with an
// explicit content-type instead of the library's hardcoded
// application/octet-stream default.
func createFormFile(w *multipart.Writer, fieldName, fileName, contentType string) (io.Writer, error) {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, fieldName, fileName))
	h.Set("Content-Type", contentType)
	return w.CreatePart(h)
}
