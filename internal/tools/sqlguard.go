package tools

import (
	"fmt"
	"strings"
)

// disallowedKeywords are rejected wherever they appear in a statement.
// This is a blunt substring scan, kept deliberately: it over-blocks
// identifiers like update_count and can be fooled by comment tricks, but
// the exposure here is a read-only database, so coarse and predictable
// beats clever. Tokenizing would change which statements pass.
var disallowedKeywords = []string{
	"DROP", "DELETE", "INSERT", "UPDATE", "ALTER", "CREATE", "TRUNCATE",
}

// ValidateSQL enforces the read-only, single-SELECT policy on generated SQL.
func ValidateSQL(query string) error {
	upper := strings.ToUpper(strings.TrimSpace(query))

	if !strings.HasPrefix(upper, "SELECT") {
		return fmt.Errorf("only SELECT queries are allowed")
	}

	for _, keyword := range disallowedKeywords {
		if strings.Contains(upper, keyword) {
			return fmt.Errorf("dangerous keyword detected: %s", keyword)
		}
	}

	return nil
}
