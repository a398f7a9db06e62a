package format

import (
	"fmt"
	"strings"

	"github.com/legzo/hurl/internal/ast"
)

// DumpAST renders file as an indented debug tree, for hurlfmt --ast.
func DumpAST(file ast.HurlFile) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "HurlFile (%d entries)\n", len(file.Entries))
	for i, e := range file.Entries {
		fmt.Fprintf(&sb, "  Entry[%d]\n", i)
		fmt.Fprintf(&sb, "    Request %s %s\n", e.Request.Method, renderTemplate(e.Request.URL))
		for _, h := range e.Request.Headers {
			fmt.Fprintf(&sb, "      Header %s: %s\n", renderTemplate(h.Name), renderTemplate(h.Value))
		}
		if e.Request.Body != nil {
			fmt.Fprintf(&sb, "      Body kind=%d\n", e.Request.Body.Kind)
		}
		if e.Response == nil {
			continue
		}
		fmt.Fprintf(&sb, "    Response version=%q wildcard=%v code=%d\n", e.Response.Version, e.Response.Status.Wildcard, e.Response.Status.Code)
		for _, c := range e.Response.Captures {
			fmt.Fprintf(&sb, "      Capture %s = %s\n", c.Name, renderQuery(c.Query))
		}
		for _, a := range e.Response.Asserts {
			fmt.Fprintf(&sb, "      Assert %s %s\n", renderQuery(a.Query), renderPredicate(a.Predicate))
		}
	}
	return sb.String()
}
