package session

import (
	"fmt"
	"strings"
)

const (
	kindStore = "dl"
	kindSelf  = "tk"
	separator = "|"

	// DefaultMaxTokenBytes is the platform callback-data ceiling.
	DefaultMaxTokenBytes = 64
)

// Selection is the decoded content of a selection token. URL and Ext are
// empty for store-backed tokens; the store supplies the URL at resolve time.
type Selection struct {
	URL      string
	FormatID string
	Ext      string
}

// Codec encodes and decodes selection tokens within a byte bound.
type Codec struct {
	MaxBytes int
}

func NewCodec(maxBytes int) Codec {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxTokenBytes
	}
	return Codec{MaxBytes: maxBytes}
}

// EncodeStore builds the compact token used with a server-held correlation.
func (c Codec) EncodeStore(formatID string) (string, error) {
	return c.bounded(kindStore + separator + formatID)
}

// EncodeSelf serializes the full correlation into the token itself. The URL
// goes last so it may contain no separator handling at decode time.
func (c Codec) EncodeSelf(url, formatID, ext string) (string, error) {
	if strings.Contains(formatID, separator) || strings.Contains(ext, separator) {
		return "", fmt.Errorf("%w: separator in field", ErrTokenMalformed)
	}
	return c.bounded(strings.Join([]string{kindSelf, formatID, ext, url}, separator))
}

func (c Codec) bounded(token string) (string, error) {
	if len(token) > c.MaxBytes {
		return "", fmt.Errorf("%w: %d > %d bytes", ErrTokenTooLong, len(token), c.MaxBytes)
	}
	return token, nil
}

// Decode parses a token of either kind. selfContained reports which strategy
// produced it.
func (c Codec) Decode(token string) (sel Selection, selfContained bool, err error) {
	switch {
	case strings.HasPrefix(token, kindStore+separator):
		formatID := strings.TrimPrefix(token, kindStore+separator)
		if formatID == "" {
			return Selection{}, false, fmt.Errorf("%w: empty format id", ErrTokenMalformed)
		}
		return Selection{FormatID: formatID}, false, nil
	case strings.HasPrefix(token, kindSelf+separator):
		parts := strings.SplitN(token, separator, 4)
		if len(parts) != 4 || parts[1] == "" || parts[3] == "" {
			return Selection{}, false, fmt.Errorf("%w: want kind|format|ext|url", ErrTokenMalformed)
		}
		return Selection{URL: parts[3], FormatID: parts[1], Ext: parts[2]}, true, nil
	default:
		return Selection{}, false, fmt.Errorf("%w: unknown kind", ErrTokenMalformed)
	}
}
