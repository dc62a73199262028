package infra

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// OutputDecoder turns captured process output into text. Bytes that are not
// valid in the configured encoding become U+FFFD.
type OutputDecoder struct {
	name string
	enc  encoding.Encoding
}

// NewOutputDecoder looks up an IANA encoding name such as "utf-8" or
// "windows-1252".
func NewOutputDecoder(name string) (*OutputDecoder, error) {
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	return &OutputDecoder{name: name, enc: enc}, nil
}

func (d *OutputDecoder) Name() string {
	return d.name
}

func (d *OutputDecoder) Decode(raw []byte) string {
	if d.enc == unicode.UTF8 {
		return strings.ToValidUTF8(string(raw), "�")
	}
	out, err := d.enc.NewDecoder().Bytes(raw)
	if err != nil {
		return strings.ToValidUTF8(string(raw), "�")
	}
	return string(out)
}
