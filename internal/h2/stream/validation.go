package stream

import (
	"fmt"
	"strings"
)

// validateRequestFields checks a decoded request header list against the
// RFC 7540 §8.1.2 rules: lowercase names, pseudo-headers first and unique,
// mandatory :method/:scheme/:path, and no connection-specific fields.
func validateRequestFields(fields [][2]string) error {
	var (
		hasMethod   bool
		hasScheme   bool
		hasPath     bool
		seenRegular bool
		seenPseudo  = make(map[string]bool)
	)

	for _, f := range fields {
		name, value := f[0], f[1]

		if name != strings.ToLower(name) {
			return fmt.Errorf("header field name must be lowercase: %s", name)
		}

		if strings.HasPrefix(name, ":") {
			if seenRegular {
				return fmt.Errorf("pseudo-header %s appears after regular header", name)
			}
			if seenPseudo[name] {
				return fmt.Errorf("duplicate pseudo-header: %s", name)
			}
			seenPseudo[name] = true

			switch name {
			case ":method":
				hasMethod = true
			case ":scheme":
				hasScheme = true
			case ":path":
				hasPath = true
				if value == "" {
					return fmt.Errorf("empty :path pseudo-header")
				}
			case ":authority":
			default:
				return fmt.Errorf("unknown pseudo-header: %s", name)
			}
			continue
		}

		seenRegular = true
		switch name {
		case "connection", "keep-alive", "proxy-connection", "transfer-encoding", "upgrade":
			return fmt.Errorf("connection-specific header not allowed: %s", name)
		case "te":
			if value != "trailers" {
				return fmt.Errorf("te header must be 'trailers', got: %s", value)
			}
		}
	}

	if !hasMethod {
		return fmt.Errorf("missing required :method pseudo-header")
	}
	if !hasScheme {
		return fmt.Errorf("missing required :scheme pseudo-header")
	}
	if !hasPath {
		return fmt.Errorf("missing required :path pseudo-header")
	}
	return nil
}
