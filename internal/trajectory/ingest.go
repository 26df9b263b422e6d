package trajectory

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/segmentio/encoding/json"

	"github.com/shivanikabu/agentic-governance-suite/pkg/types"
)

// ErrInvalidLog is returned when a document is not an interaction log.
var ErrInvalidLog = errors.New("invalid interaction log")

const logSchemaURL = "https://schemas.agentic-governance-suite.dev/interaction-log.json"

// An interaction log is a JSON array holding at least one object. Individual
// elements are not constrained further; the extractor skips what it cannot use.
const logSchemaJSON = `{
	"title": "interaction log",
	"type": "array",
	"contains": {"type": "object"}
}`

var compiledLogSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(logSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("parse log schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(logSchemaURL, doc); err != nil {
		return nil, fmt.Errorf("add log schema: %w", err)
	}
	return c.Compile(logSchemaURL)
})

// ValidateLog checks that data is well-formed JSON whose root is an array
// containing at least one object.
func ValidateLog(data []byte) error {
	schema, err := compiledLogSchema()
	if err != nil {
		return err
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: malformed JSON: %v", ErrInvalidLog, err)
	}
	if err := schema.Validate(inst); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidLog, describeLogViolation(inst))
	}
	return nil
}

// DecodeLog validates data and decodes it into ordered log entries.
func DecodeLog(data []byte) ([]types.LogEntry, error) {
	if err := ValidateLog(data); err != nil {
		return nil, err
	}
	var entries []types.LogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLog, err)
	}
	return entries, nil
}

func describeLogViolation(inst any) string {
	if _, ok := inst.([]any); !ok {
		return "root must be a list of message entries"
	}
	return "no valid message entries: the list holds no objects"
}
