package httpclient

import "fmt"

// ErrorKind enumerates the HTTP transport error taxonomy, mapped from
// low-level net/http and net errors the way spec.md §4.5 maps them
// from libcurl error codes.
type ErrorKind int

const (
	CouldNotResolveHost ErrorKind = iota
	CouldNotResolveProxyName
	FailToConnect
	TooManyRedirect
	SSLCertificateError
	Timeout
	Other
)

// Error is a fatal-to-the-entry HTTP transport failure. It never
// poisons the Client: the next Execute call on the same Client starts
// clean.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *Error) Error() string {
	switch e.Kind {
	case CouldNotResolveHost:
		return "could not resolve host: " + e.Message
	case CouldNotResolveProxyName:
		return "could not resolve proxy: " + e.Message
	case FailToConnect:
		return "failed to connect: " + e.Message
	case TooManyRedirect:
		return "too many redirects"
	case SSLCertificateError:
		return "SSL certificate error: " + e.Message
	case Timeout:
		return "timeout: " + e.Message
	default:
		return fmt.Sprintf("http error [%s]: %s", e.Code, e.Message)
	}
}
