// Package encoding provides shared text escaping utilities.
package encoding

import "strings"

var angleReplacer = strings.NewReplacer("<", "&lt;", ">", "&gt;")

// EscapeAngles escapes only '<' and '>'.
// Transcriptions may already carry entity references such as "&amp;" or
// "&#x2E2B;", so ampersands pass through untouched.
func EscapeAngles(s string) string {
	return angleReplacer.Replace(s)
}
