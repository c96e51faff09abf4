package http

import (
	"os"
	"strings"

	"github.com/fkarasek/ownmanual"
)

// ReadCookieFile loads the session cookie string from a file. The file
// holds the browser's Cookie header value for an authenticated manual
// session, copied verbatim.
//
// A missing or empty file is an authentication error: without cookies
// every API request would fail, so the run stops before it starts.
func ReadCookieFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", ownmanual.Errorf(ownmanual.EUNAUTHORIZED, "cookie file %q not found", path)
	}
	if err != nil {
		return "", err
	}

	cookie := strings.TrimSpace(string(data))
	if cookie == "" {
		return "", ownmanual.Errorf(ownmanual.EUNAUTHORIZED, "cookie file %q is empty", path)
	}

	return cookie, nil
}
