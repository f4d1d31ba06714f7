package cli

import (
	"fmt"
	"net/http"
	"strings"
)

// ParseHeaders parses repeated "NAME: VALUE" flags. A name given more than
// once collects all of its values.
func ParseHeaders(raw []string) (http.Header, error) {
	out := http.Header{}
	for _, h := range raw {
		name, value, ok := strings.Cut(h, ":")
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if !ok || name == "" || value == "" {
			return nil, fmt.Errorf("invalid header: `%s`. Should have format: `NAME: VALUE`", h)
		}
		out.Add(name, value)
	}
	return out, nil
}
