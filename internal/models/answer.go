package models

import (
	"encoding/json"
	"fmt"
)

// Answer is one collected answer value: a single string, an ordered list of
// strings for multi-select questions, or a structured object for compound
// answers that combine several sub-variant fields into one payload.
type Answer struct {
	Single string
	Multi  []string
	Object map[string]string
}

func SingleAnswer(v string) Answer            { return Answer{Single: v} }
func MultiAnswer(vs ...string) Answer         { return Answer{Multi: vs} }
func ObjectAnswer(m map[string]string) Answer { return Answer{Object: m} }

// BoolAnswer maps a checkbox to the engine's yes/no vocabulary.
func BoolAnswer(b bool) Answer {
	if b {
		return Answer{Single: "yes"}
	}
	return Answer{Single: "no"}
}

// IsZero reports whether no variant is set.
func (a Answer) IsZero() bool {
	return a.Single == "" && a.Multi == nil && a.Object == nil
}

// MarshalJSON encodes whichever variant is populated. Multi wins over Single
// so an empty multi-select still serializes as a list.
func (a Answer) MarshalJSON() ([]byte, error) {
	switch {
	case a.Object != nil:
		return json.Marshal(a.Object)
	case a.Multi != nil:
		return json.Marshal(a.Multi)
	default:
		return json.Marshal(a.Single)
	}
}

// UnmarshalJSON accepts a string, a string list, or a string-valued object.
func (a *Answer) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("empty answer payload")
	}
	switch data[0] {
	case '[':
		a.Single, a.Object = "", nil
		return json.Unmarshal(data, &a.Multi)
	case '{':
		a.Single, a.Multi = "", nil
		return json.Unmarshal(data, &a.Object)
	default:
		a.Multi, a.Object = nil, nil
		return json.Unmarshal(data, &a.Single)
	}
}
