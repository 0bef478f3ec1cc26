package clipboard

import "fmt"

// Kind is the semantic type of a clipboard payload.
type Kind string

const (
	Text  Kind = "text"
	URL   Kind = "url"
	Image Kind = "image"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case Text, URL, Image:
		return true
	}
	return false
}

// ParseKind converts a stored kind name back into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown clipboard kind: %q", s)
	}
	return k, nil
}
