package types

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ContentKind tags how an entry's content field was encoded in the log.
type ContentKind int

const (
	ContentAbsent ContentKind = iota
	ContentStructured
	ContentRaw
)

// Content is the decoded content of a log entry. Structured content is a JSON
// object; raw content is a string that may itself hold serialized JSON.
// Fields is the normalized mapping for both kinds and is empty when the
// content is absent, not an object, or a string that does not parse to one.
type Content struct {
	Kind   ContentKind
	Text   string
	Fields map[string]json.RawMessage
}

// ParseContent resolves a raw content value into a Content. Malformed JSON in
// string content is treated as empty content, never as an error.
func ParseContent(raw json.RawMessage) Content {
	if len(raw) == 0 || string(bytes.TrimSpace(raw)) == "null" {
		return Content{Kind: ContentAbsent}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err == nil && fields != nil {
		return Content{Kind: ContentStructured, Fields: fields}
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return Content{Kind: ContentAbsent}
	}

	c := Content{Kind: ContentRaw, Text: text}
	var parsed map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &parsed); err == nil && parsed != nil {
		c.Fields = parsed
	}
	return c
}

// String returns the trimmed string value of key, or "" when the key is
// missing or not a JSON string.
func (c Content) String(key string) string {
	return stringField(c.Fields, key)
}

// LogEntry is one event of an interaction log. It decodes from any JSON value:
// non-object values produce an entry with Valid == false, which the extractor
// skips. The original bytes are kept and re-emitted by MarshalJSON.
type LogEntry struct {
	Valid       bool
	Source      string
	Content     Content
	NextSpeaker string
	TotalTime   json.RawMessage
	TotalTokens json.RawMessage
	TotalCost   json.RawMessage

	raw json.RawMessage
}

// ParseLogEntry decodes a single log entry from data.
func ParseLogEntry(data []byte) LogEntry {
	var e LogEntry
	_ = e.UnmarshalJSON(data)
	return e
}

// UnmarshalJSON implements json.Unmarshaler. It never fails: anything that is
// not a JSON object yields an invalid entry.
func (e *LogEntry) UnmarshalJSON(data []byte) error {
	*e = LogEntry{raw: append(json.RawMessage(nil), data...)}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return nil
	}

	e.Valid = true
	e.Source = stringField(fields, "source")
	e.Content = ParseContent(fields["content"])
	e.NextSpeaker = e.Content.String("next_speaker")
	e.TotalTime = fields["total_time"]
	e.TotalTokens = fields["total_tokens"]
	e.TotalCost = fields["total_cost"]
	return nil
}

// MarshalJSON implements json.Marshaler by returning the entry's original bytes.
func (e LogEntry) MarshalJSON() ([]byte, error) {
	if len(e.raw) == 0 {
		return []byte("null"), nil
	}
	return e.raw, nil
}

func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}
