package runner

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// xmlNode is a minimal parsed XML/HTML tree node, built directly from
// encoding/xml's token stream (no external DOM library exists
// anywhere in the retrieval pack — see SPEC_FULL.md §3). It supports
// the structural subset of XPath 1.0 the grammar's worked examples
// exercise: child/descendant axes, tag-name steps, `@attr` steps,
// `[N]` positional predicates, and `[@attr='v']`/`[contains(@attr,'v')]`
// attribute predicates. General XPath (arbitrary function nesting,
// axes beyond child/descendant, numeric expressions) is out of scope,
// consistent with spec.md treating xpath as an opaque evaluator.
type xmlNode struct {
	Name     string
	Attrs    map[string]string
	Text     string
	Children []*xmlNode
	Parent   *xmlNode
}

func parseXML(doc []byte) (*xmlNode, error) {
	dec := xml.NewDecoder(strings.NewReader(string(doc)))
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity

	root := &xmlNode{Name: "#root"}
	stack := []*xmlNode{root}

	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &xmlNode{Name: t.Name.Local, Attrs: map[string]string{}, Parent: stack[len(stack)-1]}
			for _, a := range t.Attr {
				n.Attrs[a.Name.Local] = a.Value
			}
			stack[len(stack)-1].Children = append(stack[len(stack)-1].Children, n)
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			cur := stack[len(stack)-1]
			cur.Text += string(t)
		}
	}
	return root, nil
}

// evalXPath evaluates expr against doc, returning the text of the
// first matching node (or attribute value), whitespace-normalized when
// expr is wrapped in `normalize-space(...)` as in the grammar's typical
// usage `xpath "normalize-space(//head/title)"`. A `count(...)` wrapper
// returns the number of matching nodes instead.
func evalXPath(expr string, doc []byte) (string, error) {
	expr = strings.TrimSpace(expr)
	normalize := false
	if strings.HasPrefix(expr, "normalize-space(") && strings.HasSuffix(expr, ")") {
		normalize = true
		expr = expr[len("normalize-space(") : len(expr)-1]
	}
	if strings.HasPrefix(expr, "count(") && strings.HasSuffix(expr, ")") {
		inner := expr[len("count(") : len(expr)-1]
		root, err := parseXML(doc)
		if err != nil {
			return "", &QueryError{Kind: InvalidXML, Message: err.Error()}
		}
		nodes, _, err := evalPath(root, inner)
		if err != nil {
			return "", err
		}
		return strconv.Itoa(len(nodes)), nil
	}

	root, err := parseXML(doc)
	if err != nil {
		return "", &QueryError{Kind: InvalidXML, Message: err.Error()}
	}
	nodes, attr, err := evalPath(root, expr)
	if err != nil {
		return "", err
	}
	if len(nodes) == 0 {
		return "", &QueryError{Kind: NoQueryResult, Message: fmt.Sprintf("no node matches xpath %q", expr)}
	}
	var text string
	if attr != "" {
		text = nodes[0].Attrs[attr]
	} else {
		text = nodes[0].Text
	}
	if normalize {
		text = strings.Join(strings.Fields(text), " ")
	}
	return text, nil
}

// evalPath walks a `/`- or `//`-separated sequence of steps from root,
// returning the matched node set plus a trailing `@attr` name if the
// final step selects an attribute rather than an element.
func evalPath(root *xmlNode, expr string) ([]*xmlNode, string, error) {
	steps := splitSteps(expr)

	current := []*xmlNode{root}
	var attr string

	for idx, step := range steps {
		descendant := false
		if strings.HasPrefix(step, "/") {
			descendant = true
			step = strings.TrimPrefix(step, "/")
		}
		name, pred, isAttr := parseStep(step)

		if isAttr {
			if idx != len(steps)-1 {
				return nil, "", fmt.Errorf("xpath: @attr step must be final, in %q", expr)
			}
			attr = name
			continue
		}

		var next []*xmlNode
		for _, n := range current {
			if descendant {
				next = append(next, collectDescendants(n, name)...)
			} else {
				for _, c := range n.Children {
					if c.Name == name || name == "*" {
						next = append(next, c)
					}
				}
			}
		}
		if pred != "" {
			next = applyPredicate(next, pred)
		}
		current = next
	}
	return current, attr, nil
}

// splitSteps breaks a path expression into steps, each optionally
// prefixed with "/" to mark a "//" descendant axis.
func splitSteps(expr string) []string {
	var steps []string
	depth := 0
	start := 0
	pendingDescendant := false

	flush := func(end int) {
		if end <= start {
			return
		}
		step := expr[start:end]
		if pendingDescendant {
			step = "/" + step
			pendingDescendant = false
		}
		steps = append(steps, step)
	}

	i := 0
	for i < len(expr) {
		switch expr[i] {
		case '[':
			depth++
			i++
		case ']':
			depth--
			i++
		case '/':
			if depth != 0 {
				i++
				continue
			}
			flush(i)
			if i+1 < len(expr) && expr[i+1] == '/' {
				pendingDescendant = true
				i += 2
			} else {
				i++
			}
			start = i
		default:
			i++
		}
	}
	flush(len(expr))
	return steps
}

func parseStep(step string) (name, predicate string, isAttr bool) {
	if b := strings.IndexByte(step, '['); b >= 0 && strings.HasSuffix(step, "]") {
		predicate = step[b+1 : len(step)-1]
		step = step[:b]
	}
	if strings.HasPrefix(step, "@") {
		return step[1:], predicate, true
	}
	return step, predicate, false
}

func collectDescendants(n *xmlNode, name string) []*xmlNode {
	var out []*xmlNode
	var walk func(*xmlNode)
	walk = func(cur *xmlNode) {
		for _, c := range cur.Children {
			if c.Name == name || name == "*" {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

func applyPredicate(nodes []*xmlNode, pred string) []*xmlNode {
	if n, err := strconv.Atoi(pred); err == nil {
		if n >= 1 && n <= len(nodes) {
			return []*xmlNode{nodes[n-1]}
		}
		return nil
	}
	if strings.HasPrefix(pred, "@") {
		eq := strings.Index(pred, "=")
		if eq < 0 {
			attr := pred[1:]
			var out []*xmlNode
			for _, n := range nodes {
				if _, ok := n.Attrs[attr]; ok {
					out = append(out, n)
				}
			}
			return out
		}
		attr := pred[1:eq]
		want := strings.Trim(pred[eq+1:], `'"`)
		var out []*xmlNode
		for _, n := range nodes {
			if n.Attrs[attr] == want {
				out = append(out, n)
			}
		}
		return out
	}
	if strings.HasPrefix(pred, "contains(@") {
		rest := pred[len("contains(@"):]
		comma := strings.Index(rest, ",")
		if comma < 0 {
			return nodes
		}
		attr := rest[:comma]
		want := strings.Trim(strings.TrimSuffix(strings.TrimSpace(rest[comma+1:]), ")"), `'"`)
		var out []*xmlNode
		for _, n := range nodes {
			if strings.Contains(n.Attrs[attr], want) {
				out = append(out, n)
			}
		}
		return out
	}
	return nodes
}
