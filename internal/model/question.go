package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
)

// QuestionType defines the presentation tag of a question
type QuestionType string

const (
	QuestionTypeLikert QuestionType = "likert" // Agreement scale, option ids are numeric scores
	QuestionTypeScene  QuestionType = "scene"  // Scenario choice, option ids are short strings
)

// Question is an immutable question definition as served by the question source
type Question struct {
	ID      int          `json:"id" bson:"id"`
	Type    QuestionType `json:"type" bson:"type"`
	Text    string       `json:"text" bson:"text"`
	Options []Option     `json:"options" bson:"options"`
}

// Option is a single answer choice of a question
type Option struct {
	ID   OptionID `json:"id" bson:"id"`
	Text string   `json:"text" bson:"text"`
}

// IndexOf returns the position of the option with the given id, or -1
func (q *Question) IndexOf(id OptionID) int {
	for i, opt := range q.Options {
		if opt.ID == id {
			return i
		}
	}
	return -1
}

var errInvalidOptionID = errors.New("option id must be a JSON string or number")

// OptionID is an option identifier kept as its original JSON token, so a
// string id stays a string and a numeric score stays a number on the wire.
// The zero value encodes as null.
type OptionID struct {
	raw string
}

// StringID builds a string option id
func StringID(s string) OptionID {
	b, _ := json.Marshal(s)
	return OptionID{raw: string(b)}
}

// IntID builds a numeric option id
func IntID(n int) OptionID {
	return OptionID{raw: strconv.Itoa(n)}
}

// IsZero reports whether the id is unset
func (id OptionID) IsZero() bool {
	return id.raw == ""
}

// IsNumber reports whether the id is a JSON number
func (id OptionID) IsNumber() bool {
	return id.raw != "" && id.raw[0] != '"'
}

// Int returns the numeric value of a number id
func (id OptionID) Int() (int, bool) {
	if !id.IsNumber() {
		return 0, false
	}
	f, err := strconv.ParseFloat(id.raw, 64)
	if err != nil || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

// Value returns the id as a plain Go value (string, int or float64), or nil
func (id OptionID) Value() interface{} {
	if id.raw == "" {
		return nil
	}
	if !id.IsNumber() {
		return id.String()
	}
	if n, ok := id.Int(); ok {
		return n
	}
	f, _ := strconv.ParseFloat(id.raw, 64)
	return f
}

// String returns the id without JSON quoting
func (id OptionID) String() string {
	if id.raw == "" {
		return ""
	}
	if id.raw[0] == '"' {
		var s string
		if err := json.Unmarshal([]byte(id.raw), &s); err == nil {
			return s
		}
	}
	return id.raw
}

func (id OptionID) MarshalJSON() ([]byte, error) {
	if id.raw == "" {
		return []byte("null"), nil
	}
	return []byte(id.raw), nil
}

func (id *OptionID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = OptionID{}
		return nil
	}
	if len(data) == 0 {
		return errInvalidOptionID
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = StringID(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return errInvalidOptionID
		}
		*id = OptionID{raw: n.String()}
	}
	return nil
}
