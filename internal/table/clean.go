package table

import "strings"

// CleanField trims a raw cell, drops one enclosing pair of double quotes,
// and trims again. Inner quotes are left alone.
//
//	CleanField(`  "tcp/20, tcp/21" `) == "tcp/20, tcp/21"
//	CleanField(`"`)                   == `"`
func CleanField(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 1 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		s = s[1 : len(s)-1]
	}
	return strings.TrimSpace(s)
}

func cleanRow(row []string) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = CleanField(v)
	}
	return out
}
