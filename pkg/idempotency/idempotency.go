package idempotency

import (
	"net/http"
	"strings"
)

const Header = "Idempotency-Key"

// Key extracts the client-supplied checkout token, if any.
func Key(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(Header))
}
