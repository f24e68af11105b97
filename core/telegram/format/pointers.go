package format

// OptionalString returns nil for blank input so optional text columns stay NULL.
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
