// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the data structures shared by the yoop client,
// its local store and the mock backend.
//
// Field names follow the backend's JSON schema (camelCase) so values can
// be decoded straight off the wire.
package types

import (
	"encoding/json"
	"strings"
)

// Candidate is a read-only view of a person returned by the recommendation,
// likes and matches endpoints. The client never mutates it.
type Candidate struct {
	// ID is the backend-assigned identifier.
	ID string `json:"id" yaml:"id"`

	Login      string `json:"login" yaml:"login"`
	PhotoHash  string `json:"photoHash,omitempty" yaml:"photo_hash,omitempty"`
	Name       string `json:"name" yaml:"name"`
	SurName    string `json:"surName" yaml:"sur_name"`
	FatherName string `json:"fatherName,omitempty" yaml:"father_name,omitempty"`
	Age        int    `json:"age" yaml:"age"`
	Gender     string `json:"gender,omitempty" yaml:"gender,omitempty"`
	City       string `json:"city" yaml:"city"`

	// Bio is the free-text self description ("describeUser" on the wire).
	Bio string `json:"describeUser" yaml:"bio"`

	Skills    Tags `json:"skills" yaml:"skills"`
	Interests Tags `json:"interests" yaml:"interests"`
	Hobbies   Tags `json:"hobbies" yaml:"hobbies"`
}

// FullName joins name and surname, falling back to the login.
func (c Candidate) FullName() string {
	full := strings.TrimSpace(strings.Join(nonEmpty(c.Name, c.SurName), " "))
	if full == "" {
		return c.Login
	}
	return full
}

// AllTags returns skills, interests and hobbies in that order.
func (c Candidate) AllTags() []string {
	out := make([]string, 0, len(c.Skills)+len(c.Interests)+len(c.Hobbies))
	out = append(out, c.Skills...)
	out = append(out, c.Interests...)
	return append(out, c.Hobbies...)
}

// User is the full profile of an account as returned by GET /user/{id}.
type User struct {
	Candidate `yaml:",inline"`

	Contact  string   `json:"contact" yaml:"contact"`
	Requests []string `json:"requests,omitempty" yaml:"requests,omitempty"`
}

// Tags is a list of skill, interest or hobby names. The backend sends
// either plain strings or objects such as {"skillName": "Go"}; both decode
// to the name.
type Tags []string

var tagNameKeys = []string{"skillName", "interestName", "hobbyName", "name"}

// UnmarshalJSON accepts null, an array of strings, or an array of objects.
func (t *Tags) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*t = nil
		return nil
	}

	out := make(Tags, 0, len(raw))
	for _, item := range raw {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
			continue
		}

		var obj map[string]any
		if err := json.Unmarshal(item, &obj); err != nil {
			return err
		}
		for _, key := range tagNameKeys {
			if name, ok := obj[key].(string); ok && strings.TrimSpace(name) != "" {
				out = append(out, strings.TrimSpace(name))
				break
			}
		}
	}
	*t = out
	return nil
}

func nonEmpty(parts ...string) []string {
	out := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
