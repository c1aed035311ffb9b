package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// stringList reads a JSON array of plain strings. It has no writer: the
// fields using it are left empty by Encode and dropped through omitempty.
type stringList []string

func (l *stringList) UnmarshalJSON(b []byte) error {
	if string(bytes.TrimSpace(b)) == "null" {
		*l = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return fmt.Errorf("expected array of strings, got %v", tok)
	}

	out := make([]string, 0)
	for dec.More() {
		var s string
		if err := dec.Decode(&s); err != nil {
			return fmt.Errorf("array element %d: %w", len(out), err)
		}
		out = append(out, s)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*l = out
	return nil
}

type userWire struct {
	UserID        string     `json:"userid"`
	Username      string     `json:"username"`
	Emails        stringList `json:"emails,omitempty"`
	TermsAccepted string     `json:"termsAccepted,omitempty"`
}

type patientWire struct {
	Birthday      string `json:"birthday,omitempty"`
	DiagnosisDate string `json:"diagnosisDate,omitempty"`
	AboutMe       string `json:"aboutMe,omitempty"`
}

type profileWire struct {
	FullName  string       `json:"fullName"`
	ShortName string       `json:"shortName,omitempty"`
	Patient   *patientWire `json:"patient,omitempty"`
}

type noteAuthorWire struct {
	FullName string `json:"fullName"`
}

type noteWire struct {
	ID            string          `json:"id"`
	ParentMessage string          `json:"parentmessage,omitempty"`
	UserID        string          `json:"userid"`
	GroupID       string          `json:"groupid,omitempty"`
	Timestamp     string          `json:"timestamp,omitempty"`
	CreatedTime   string          `json:"createdtime,omitempty"`
	ModifiedTime  string          `json:"modifiedtime,omitempty"`
	MessageText   string          `json:"messagetext"`
	User          *noteAuthorWire `json:"user,omitempty"`
	Replies       stringList      `json:"replies,omitempty"`
}
