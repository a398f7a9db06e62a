package format

import (
	"fmt"
	"html"
	"strings"

	"github.com/legzo/hurl/internal/ast"
)

// HTML renders file as a syntax-highlighted HTML fragment: one <pre>
// block, method/URL/header spans tagged with a class so a caller can
// style them. Only each entry's request line and request headers are
// rendered; sections, bodies and responses are not. If standalone is
// set, the fragment is wrapped in a minimal complete document.
func HTML(file ast.HurlFile, standalone bool) string {
	var body strings.Builder
	body.WriteString(`<pre class="hurl">`)
	for i, e := range file.Entries {
		if i > 0 {
			body.WriteString("\n")
		}
		fmt.Fprintf(&body, `<span class="method">%s</span> <span class="url">%s</span>`+"\n",
			html.EscapeString(string(e.Request.Method)), html.EscapeString(renderTemplate(e.Request.URL)))
		for _, h := range e.Request.Headers {
			fmt.Fprintf(&body, `<span class="header-name">%s</span>: <span class="header-value">%s</span>`+"\n",
				html.EscapeString(renderTemplate(h.Name)), html.EscapeString(renderTemplate(h.Value)))
		}
	}
	body.WriteString("</pre>")

	if !standalone {
		return body.String()
	}
	return "<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"><title>hurl</title></head>\n<body>\n" +
		body.String() + "\n</body>\n</html>\n"
}
