package httpclient

import (
	"bufio"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadCookieFile seeds jar from a Netscape-format cookie file: one
// cookie per line, tab-separated
// `domain  include_subdomain  path  https  expires  name  value`.
// Lines starting with "#" are comments, per spec.md §6.
func LoadCookieFile(jar *cookiejar.Jar, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("read cookie file %s: %w", path, err)
	}
	defer f.Close()

	byURL := map[string][]*http.Cookie{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 7 {
			return fmt.Errorf("%s: malformed cookie line %q, expected 7 tab-separated fields", path, line)
		}
		domain, _, cpath, https, expires, name, value := fields[0], fields[1], fields[2], fields[3], fields[4], fields[5], fields[6]

		c := &http.Cookie{Name: name, Value: value, Path: cpath, Domain: strings.TrimPrefix(domain, ".")}
		if expSecs, err := strconv.ParseInt(expires, 10, 64); err == nil && expSecs > 0 {
			c.Expires = time.Unix(expSecs, 0)
		}

		scheme := "http"
		if strings.EqualFold(https, "TRUE") {
			scheme = "https"
			c.Secure = true
		}
		u := fmt.Sprintf("%s://%s%s", scheme, c.Domain, cpath)
		byURL[u] = append(byURL[u], c)
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	for raw, cookies := range byURL {
		u, err := url.Parse(raw)
		if err != nil {
			continue
		}
		jar.SetCookies(u, cookies)
	}
	return nil
}

// SaveCookieFile persists jar's cookies for the given URLs to a
// Netscape-format cookie file (`--cookie-jar`).
func SaveCookieFile(jar *cookiejar.Jar, urls []*url.URL, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write cookie jar %s: %w", path, err)
	}
	defer f.Close()

	fmt.Fprintln(f, "# Netscape HTTP Cookie File")
	for _, u := range urls {
		for _, c := range jar.Cookies(u) {
			includeSubdomains := "FALSE"
			domain := c.Domain
			if domain == "" {
				domain = u.Hostname()
			}
			https := "FALSE"
			if u.Scheme == "https" {
				https = "TRUE"
			}
			path := c.Path
			if path == "" {
				path = "/"
			}
			expires := int64(0)
			if !c.Expires.IsZero() {
				expires = c.Expires.Unix()
			}
			fmt.Fprintf(f, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
				domain, includeSubdomains, path, https, expires, c.Name, c.Value)
		}
	}
	return nil
}
