package pmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrMalformedDocument marks input that does not conform to the expected
// exiftool JSON layout: an array whose first element is the metadata object.
var ErrMalformedDocument = errors.New("malformed metadata document")

// LoadDocument decodes an exiftool JSON document and returns the metadata
// object unwrapped from its `[ {...} ]` envelope.
func LoadDocument(r io.Reader) (*Object, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, fmt.Errorf("%w: root is not an array", ErrMalformedDocument)
	}
	if !dec.More() {
		return nil, fmt.Errorf("%w: envelope array is empty", ErrMalformedDocument)
	}

	node, err := decodeValue(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	obj, ok := node.(*Object)
	if !ok {
		return nil, fmt.Errorf("%w: first array element is not an object", ErrMalformedDocument)
	}

	// Trailing elements of the envelope are ignored; exiftool emits one
	// object per input file and the checker processes files one at a time.
	return obj, nil
}

// LoadFile reads and decodes a metadata document from disk.
func LoadFile(path string) (*Object, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata document: %w", err)
	}
	defer f.Close()

	obj, err := LoadDocument(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return obj, nil
}

// decodeValue consumes one JSON value from the decoder and builds the
// corresponding node, keeping object key order.
func decodeValue(dec *json.Decoder) (Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return Scalar{Value: tok}, nil
	}

	switch delim {
	case '{':
		obj := NewObject()
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("object key is not a string: %v", keyTok)
			}
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			obj.Set(key, val)
		}
		if _, err := dec.Token(); err != nil { // closing '}'
			return nil, err
		}
		return obj, nil
	case '[':
		var list List
		for dec.More() {
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			list = append(list, val)
		}
		if _, err := dec.Token(); err != nil { // closing ']'
			return nil, err
		}
		return list, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %v", delim)
	}
}
