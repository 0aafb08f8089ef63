// Package models defines the payloads exchanged with the fitness backend and
// the user profile persisted by the session layer.
package models

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ID is a backend identifier. The backend may send it as a JSON string or a
// number; it is always re-encoded as a string.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.New("id must be a string or a number")
	}
	*id = ID(n.String())
	return nil
}

// User is the profile of the signed-in user.
type User struct {
	ID     ID       `json:"id"`
	Name   string   `json:"name"`
	Email  string   `json:"email,omitempty"`
	Age    *int     `json:"age,omitempty"`
	Weight *float64 `json:"weight,omitempty"`
	Height *float64 `json:"height,omitempty"`
	Goal   *string  `json:"goal,omitempty"`
}

// Clone returns a deep copy of u. A nil receiver yields nil.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Age != nil {
		v := *u.Age
		c.Age = &v
	}
	if u.Weight != nil {
		v := *u.Weight
		c.Weight = &v
	}
	if u.Height != nil {
		v := *u.Height
		c.Height = &v
	}
	if u.Goal != nil {
		v := *u.Goal
		c.Goal = &v
	}
	return &c
}
