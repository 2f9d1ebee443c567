package relay

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values. A negative
// index means "no color".
type Theme struct {
	User      int // User turn prefix
	Assistant int // Assistant turn prefix
	Partial   int // Reply still streaming
	Error     int // Error messages
	Muted     int // Status bar, placeholders
	Accent    int // Spinner, headings
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		User:      4,
		Assistant: 2,
		Partial:   8,
		Error:     1,
		Muted:     8,
		Accent:    5,
	}
}
