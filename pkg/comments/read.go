package comments

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON string

var schemaLoader = gojsonschema.NewStringLoader(schemaJSON)

// MalformedError reports a comment file that could not be read back.
type MalformedError struct {
	Path   string
	Reason string
	Err    error
}

func (e *MalformedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed comment file %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed comment file %s: %s", e.Path, e.Reason)
}

func (e *MalformedError) Unwrap() error { return e.Err }

// ReadFile reads a comment file back. Every failure, including a missing
// file, is returned as *MalformedError.
func ReadFile(path string) ([]Comment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &MalformedError{Path: path, Reason: "read failed", Err: err}
	}
	return Decode(path, data)
}

// Decode validates data against the comment schema and decodes it.
// path is only used in errors.
func Decode(path string, data []byte) ([]Comment, error) {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &MalformedError{Path: path, Reason: "invalid JSON", Err: err}
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, &MalformedError{Path: path, Reason: strings.Join(msgs, "; ")}
	}

	var out []Comment
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &MalformedError{Path: path, Reason: "decode failed", Err: err}
	}
	return out, nil
}
