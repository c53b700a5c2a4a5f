package utils

import (
	"fmt"
	"strings"
)

// MaskDatabaseURL hides the password of an oracle:// URL. SQLite paths are returned as-is.
func MaskDatabaseURL(databaseURL string) string {
	if databaseURL == "" {
		return "--- EMPTY ---"
	}
	prefix := "oracle://"
	if !strings.HasPrefix(strings.ToLower(databaseURL), prefix) {
		return databaseURL
	}
	rest := databaseURL[len(prefix):]
	atParts := strings.SplitN(rest, "@", 2)
	if len(atParts) < 2 {
		return prefix + "***MASKED***"
	}
	user, _, hasPassword := strings.Cut(atParts[0], ":")
	if !hasPassword {
		return fmt.Sprintf("%s%s@%s", prefix, user, atParts[1])
	}
	return fmt.Sprintf("%s%s:***MASKED***@%s", prefix, user, atParts[1])
}

// MaskSecret describes a secret without revealing it.
func MaskSecret(secret, defaultValue string) string {
	switch {
	case secret == "":
		return "--- EMPTY (!!! WARNING: secret is empty !!!) ---"
	case secret == defaultValue:
		return defaultValue + " (!!! WARNING: using default value !!!)"
	case len(secret) < 8:
		return fmt.Sprintf("*** MASKED (short: %d chars) ***", len(secret))
	default:
		return "*** MASKED ***"
	}
}
