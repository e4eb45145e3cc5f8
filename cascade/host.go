package cascade

import (
	"regexp"
	"strings"
)

var (
	schemePrefix = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)
	portSuffix   = regexp.MustCompile(`:[0-9]+`)
)

// NormalizeHost turns a configured host into a result key: a leading
// scheme:// and the first :port are removed.
//
//	NormalizeHost("https://nodeB:8443") == "nodeB"
func NormalizeHost(host string) string {
	key := schemePrefix.ReplaceAllString(host, "")
	if loc := portSuffix.FindStringIndex(key); loc != nil {
		key = key[:loc[0]] + key[loc[1]:]
	}
	return key
}

// isSelf reports whether host names the local node. It is a substring match so
// that identifiers embedded in URLs are recognised.
func isSelf(host, localID string) bool {
	return strings.Contains(host, localID)
}

// targetURL builds the address of the cascade endpoint on host with the
// cascade-disable marker attached.
func targetURL(host, path, marker string) string {
	u := host + path
	if marker == "" {
		return u
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return u + sep + marker
}
