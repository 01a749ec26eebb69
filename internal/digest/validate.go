package digest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// MalformedResponseError means the provider reply was not valid JSON. Raw
// retains the original text for diagnosis.
type MalformedResponseError struct {
	Raw string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed provider response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// SchemaViolationError means the provider reply was valid JSON but one of
// the expected keys has the wrong shape. Raw retains the original text for
// diagnosis.
type SchemaViolationError struct {
	Field string
	Raw   string
	Err   error
}

func (e *SchemaViolationError) Error() string {
	return fmt.Sprintf("provider response violates digest schema at %q: %v", e.Field, e.Err)
}

func (e *SchemaViolationError) Unwrap() error { return e.Err }

// Parse validates raw provider output against the digest schema. Missing or
// null keys default to empty; a wrong-shaped key fails the whole parse, so a
// digest is never partially returned.
func Parse(raw string) (*Digest, error) {
	text := stripFences(raw)

	if !json.Valid([]byte(text)) {
		return nil, &MalformedResponseError{Raw: raw, Err: fmt.Errorf("not valid JSON")}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return nil, &SchemaViolationError{Field: "(root)", Raw: raw, Err: fmt.Errorf("response is not a JSON object")}
	}

	d := &Digest{}
	var err error

	if d.Urgent, err = stringList(fields, "urgent", raw); err != nil {
		return nil, err
	}
	if d.Decisions, err = stringList(fields, "decisions", raw); err != nil {
		return nil, err
	}
	if d.UnansweredMentions, err = stringList(fields, "unanswered_mentions", raw); err != nil {
		return nil, err
	}

	d.Topics = []Topic{}
	if list, ok := present(fields, "topics"); ok {
		if err := json.Unmarshal(list, &d.Topics); err != nil {
			return nil, &SchemaViolationError{Field: "topics", Raw: raw, Err: err}
		}
		for i := range d.Topics {
			if d.Topics[i].Participants == nil {
				d.Topics[i].Participants = []string{}
			}
		}
	}

	d.PeopleUpdates = []PersonUpdate{}
	if list, ok := present(fields, "people_updates"); ok {
		if err := json.Unmarshal(list, &d.PeopleUpdates); err != nil {
			return nil, &SchemaViolationError{Field: "people_updates", Raw: raw, Err: err}
		}
	}

	d.Calendar = []CalendarEvent{}
	if list, ok := present(fields, "calendar"); ok {
		if err := json.Unmarshal(list, &d.Calendar); err != nil {
			return nil, &SchemaViolationError{Field: "calendar", Raw: raw, Err: err}
		}
	}

	return d, nil
}

// present reports whether a key carries a usable value. JSON null is treated
// the same as absence: the key defaults to empty.
func present(fields map[string]json.RawMessage, key string) (json.RawMessage, bool) {
	raw, ok := fields[key]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, false
	}
	return raw, true
}

// stringList decodes one string-array key. Null elements are rejected, not
// coerced to ""; only whole keys get the null-as-absent treatment.
func stringList(fields map[string]json.RawMessage, key, raw string) ([]string, error) {
	list, ok := present(fields, key)
	if !ok {
		return []string{}, nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(list, &elems); err != nil {
		return nil, &SchemaViolationError{Field: key, Raw: raw, Err: err}
	}
	out := make([]string, 0, len(elems))
	for i, e := range elems {
		if bytes.Equal(bytes.TrimSpace(e), []byte("null")) {
			return nil, &SchemaViolationError{Field: key, Raw: raw, Err: fmt.Errorf("null element at index %d", i)}
		}
		var s string
		if err := json.Unmarshal(e, &s); err != nil {
			return nil, &SchemaViolationError{Field: key, Raw: raw, Err: err}
		}
		out = append(out, s)
	}
	return out, nil
}

// stripFences removes a surrounding markdown code fence, which some models
// emit despite being asked for bare JSON.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
