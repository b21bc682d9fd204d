package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// DecodeStrict decodes a single JSON document into dst, rejecting unknown
// fields and trailing data.
func DecodeStrict(body io.Reader, dst any) error {
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return err
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("request body must contain a single JSON object")
	}

	return nil
}
