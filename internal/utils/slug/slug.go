package slug

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode"
)

// Make derives a URL-safe slug from a video title plus its upload timestamp.
// The millisecond timestamp keeps slugs unique without a separate counter;
// collision handling on insert is still explicit (see Disambiguate).
func Make(title string, now time.Time) string {
	return normalize(title) + "-" + fmt.Sprintf("%d", now.UnixMilli())
}

// Disambiguate appends a short random suffix to a slug that collided on
// insert. Timestamp granularity alone is not trusted to guarantee
// uniqueness under concurrent uploads of the same title.
func Disambiguate(s string) string {
	return fmt.Sprintf("%s-%04x", s, rand.Intn(0x10000))
}

func normalize(title string) string {
	lowered := strings.ToLower(strings.TrimSpace(title))
	var b strings.Builder
	for _, r := range lowered {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('-')
		}
	}
	out := b.String()
	if out == "" {
		out = "video"
	}
	return out
}
