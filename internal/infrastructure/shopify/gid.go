package shopify

import (
	"fmt"
	"strings"
)

const gidPrefix = "gid://shopify/"

// IsGID reports whether s is a global Admin API identifier
func IsGID(s string) bool {
	return strings.HasPrefix(s, gidPrefix)
}

// GID builds a global identifier for the given resource kind
func GID(kind, id string) string {
	return fmt.Sprintf("%s%s/%s", gidPrefix, kind, id)
}

// LegacyID extracts the trailing numeric identifier from a GID.
// Returns the input unchanged when it is not a GID.
func LegacyID(gid string) string {
	if !IsGID(gid) {
		return gid
	}
	idx := strings.LastIndex(gid, "/")
	return gid[idx+1:]
}
