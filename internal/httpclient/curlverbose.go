package httpclient

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/aoliveti/curling"
)

// VerboseEcho renders req the way `--verbose` shows it: a reconstructed
// curl command line for the outgoing request. The response side is
// rendered separately by VerboseResponseHeader.
func VerboseEcho(req *http.Request) (string, error) {
	cmd, err := curling.NewFromRequest(req, curling.WithLongForm())
	if err != nil {
		return "", fmt.Errorf("verbose echo: %w", err)
	}
	return cmd.String(), nil
}

// VerboseResponseHeader renders the status line and headers of resp
// the way curl's `-v` does, prefixed with "< ".
func VerboseResponseHeader(status string, header http.Header) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "< %s\n", status)
	for name, values := range header {
		for _, v := range values {
			fmt.Fprintf(&sb, "< %s: %s\n", name, v)
		}
	}
	return sb.String()
}
