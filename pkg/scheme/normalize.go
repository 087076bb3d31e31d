package scheme

import "strings"

// Normalize lowercases and trims a scheme name, returning false when the
// result is not a valid URL scheme (ALPHA *( ALPHA / DIGIT / "+" / "-" / "." )).
func Normalize(name string) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(name))
	if s == "" {
		return "", false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case i > 0 && (c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return "", false
		}
	}
	return s, true
}
