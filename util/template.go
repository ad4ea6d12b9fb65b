package util

import "strings"

// SubstituteVariables replaces every `{key}` placeholder found in vars with
// its value. Placeholders with no matching variable are left verbatim.
// No escaping is applied: callers own sanitizing variable values before
// they reach an HTML body.
func SubstituteVariables(s string, vars map[string]string) string {
	for key, value := range vars {
		s = strings.ReplaceAll(s, "{"+key+"}", value)
	}
	return s
}
