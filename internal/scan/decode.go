package scan

import (
	"encoding/base64"
	"strings"
	"unicode/utf8"
)

// DecodeUpload turns browser upload content into text. Content of the form
// "data:<type>;base64,<payload>" is base64 decoded; anything else is taken to
// be the scan text itself.
func DecodeUpload(contents string) (string, error) {
	if !strings.HasPrefix(contents, "data:") {
		if !utf8.ValidString(contents) {
			return "", &DecodeError{Reason: "content is not valid UTF-8"}
		}
		return contents, nil
	}

	header, payload, ok := strings.Cut(contents, ",")
	if !ok {
		return "", &DecodeError{Reason: "data URL has no payload"}
	}
	if !strings.HasSuffix(header, ";base64") {
		return "", &DecodeError{Reason: "data URL is not base64 encoded"}
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", &DecodeError{Reason: "invalid base64 payload", Err: err}
	}
	if !utf8.Valid(raw) {
		return "", &DecodeError{Reason: "decoded content is not valid UTF-8"}
	}
	return string(raw), nil
}

// ParseUpload decodes upload content and parses the scan it contains.
func ParseUpload(contents string) (*Record, error) {
	text, err := DecodeUpload(contents)
	if err != nil {
		return nil, err
	}
	return Parse(text)
}
