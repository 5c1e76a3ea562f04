package extract

// Truncator clips content to a configured number of characters
type Truncator struct {
	Length int
}

// Truncate applies the configured length, see Truncate
func (t Truncator) Truncate(content string) string {
	return Truncate(content, t.Length)
}

// Truncate returns the first length characters of content. A length of zero or
// less leaves content unchanged. The cut is not word aware.
func Truncate(content string, length int) string {
	if length <= 0 {
		return content
	}
	n := 0
	for i := range content {
		if n == length {
			return content[:i]
		}
		n++
	}
	return content
}
