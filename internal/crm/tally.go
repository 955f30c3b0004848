package crm

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Tally counts occurrences per label and remembers the order in which labels
// were first seen. It marshals to a JSON object in that order.
type Tally struct {
	order  []string
	counts map[string]int
}

// Add increments the count for label.
func (t *Tally) Add(label string) {
	if t.counts == nil {
		t.counts = make(map[string]int)
	}
	if _, seen := t.counts[label]; !seen {
		t.order = append(t.order, label)
	}
	t.counts[label]++
}

// Count returns how many times label was added.
func (t Tally) Count(label string) int {
	return t.counts[label]
}

// Labels returns labels in first-seen order.
func (t Tally) Labels() []string {
	return append([]string(nil), t.order...)
}

// Len returns the number of distinct labels.
func (t Tally) Len() int {
	return len(t.order)
}

// Map returns a copy of the counts without ordering.
func (t Tally) Map() map[string]int {
	out := make(map[string]int, len(t.counts))
	for k, v := range t.counts {
		out[k] = v
	}
	return out
}

// MarshalJSON writes the counts as an object in first-seen order.
func (t Tally) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, label := range t.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(label)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		fmt.Fprintf(&buf, "%d", t.counts[label])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object back, keeping key order.
func (t *Tally) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("tally: expected object, got %v", tok)
	}
	*t = Tally{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("tally: expected string key, got %v", keyTok)
		}
		var n int
		if err := dec.Decode(&n); err != nil {
			return fmt.Errorf("tally: value for %q: %w", key, err)
		}
		if t.counts == nil {
			t.counts = make(map[string]int)
		}
		if _, seen := t.counts[key]; !seen {
			t.order = append(t.order, key)
		}
		t.counts[key] += n
	}
	_, err = dec.Token()
	return err
}
