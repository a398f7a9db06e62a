package httpclient

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"strings"
)

// classify maps a low-level transport error onto the spec's error
// taxonomy (spec.md §4.5), the way the original libcurl-backed
// implementation maps CURLE_* codes.
func classify(err error) *Error {
	if err == nil {
		return nil
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &Error{Kind: CouldNotResolveHost, Message: dnsErr.Err}
	}

	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return &Error{Kind: SSLCertificateError, Message: certErr.Error()}
	}
	if strings.Contains(err.Error(), "x509") {
		return &Error{Kind: SSLCertificateError, Message: err.Error()}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: Timeout, Message: err.Error()}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: Timeout, Message: err.Error()}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Op == "dial" {
			return &Error{Kind: FailToConnect, Message: opErr.Error()}
		}
	}

	if strings.Contains(err.Error(), "proxyconnect") {
		return &Error{Kind: CouldNotResolveProxyName, Message: err.Error()}
	}

	return &Error{Kind: Other, Code: "transport", Message: err.Error()}
}
