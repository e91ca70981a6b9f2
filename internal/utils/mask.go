package utils

// MaskSecret keeps the first characters of a key so logs stay readable without leaking it.
func MaskSecret(s string) string {
	if len(s) <= 4 {
		return "*****"
	}
	return s[:4] + "*****"
}
