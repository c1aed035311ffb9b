package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/urchin/internal/client/models"
	"github.com/dmitrijs2005/urchin/internal/common"
)

// DateFormat is a Go time layout used for timestamps on the wire.
type DateFormat string

const (
	// GeneralDateFormat is yyyy-MM-dd HH:mm:ss.SSSZ.
	GeneralDateFormat DateFormat = "2006-01-02 15:04:05.000-0700"
	// MessageDateFormat is yyyy-MM-dd'T'HH:mm:ssZ.
	MessageDateFormat DateFormat = "2006-01-02T15:04:05-0700"
)

var (
	errNotObject       = errors.New("payload is not a JSON object")
	errMissingID       = errors.New("payload has no identifier")
	errMissingMessages = errors.New("payload has no messages field")
)

type Codec struct {
	format DateFormat
}

func New(format DateFormat) *Codec {
	return &Codec{format: format}
}

func (c *Codec) Format() DateFormat {
	return c.format
}

// FormatTime renders t in the codec's date format.
func (c *Codec) FormatTime(t time.Time) string {
	return t.Format(string(c.format))
}

func (c *Codec) parseTime(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(string(c.format), s)
	if err != nil {
		return time.Time{}, fmt.Errorf("field %s: %w", field, err)
	}
	return t, nil
}

func (c *Codec) formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return c.FormatTime(t)
}

func fail(data []byte, err error) error {
	return &common.DecodeError{Fragment: string(data), Err: err}
}

func firstByte(data []byte) byte {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

func unmarshalObject(data []byte, v any) error {
	if firstByte(data) != '{' {
		return errNotObject
	}
	return json.Unmarshal(data, v)
}

// DecodeUser decodes a sign-in payload.
func (c *Codec) DecodeUser(data []byte) (*models.User, error) {
	var w userWire
	if err := unmarshalObject(data, &w); err != nil {
		return nil, fail(data, err)
	}
	if w.UserID == "" {
		return nil, fail(data, errMissingID)
	}
	terms, err := c.parseTime("termsAccepted", w.TermsAccepted)
	if err != nil {
		return nil, fail(data, err)
	}
	return &models.User{
		UserID:        w.UserID,
		Username:      w.Username,
		Emails:        []string(w.Emails),
		TermsAccepted: terms,
	}, nil
}

// DecodeProfile decodes a profile payload. The payload does not carry the
// owner id; callers stamp Profile.UserID themselves.
func (c *Codec) DecodeProfile(data []byte) (*models.Profile, error) {
	var w profileWire
	if err := unmarshalObject(data, &w); err != nil {
		return nil, fail(data, err)
	}
	p := &models.Profile{FullName: w.FullName, ShortName: w.ShortName}
	if w.Patient != nil {
		p.Patient = &models.Patient{
			Birthday:      w.Patient.Birthday,
			DiagnosisDate: w.Patient.DiagnosisDate,
			AboutMe:       w.Patient.AboutMe,
		}
	}
	return p, nil
}

// DecodeNote decodes one message payload.
func (c *Codec) DecodeNote(data []byte) (*models.Note, error) {
	var w noteWire
	if err := unmarshalObject(data, &w); err != nil {
		return nil, fail(data, err)
	}
	if w.ID == "" {
		return nil, fail(data, errMissingID)
	}

	n := &models.Note{
		ID:          w.ID,
		AuthorID:    w.UserID,
		GroupID:     w.GroupID,
		ParentID:    w.ParentMessage,
		MessageText: w.MessageText,
		Replies:     []string(w.Replies),
	}
	if w.User != nil {
		n.AuthorName = w.User.FullName
	}

	var err error
	if n.Timestamp, err = c.parseTime("timestamp", w.Timestamp); err != nil {
		return nil, fail(data, err)
	}
	if n.CreatedTime, err = c.parseTime("createdtime", w.CreatedTime); err != nil {
		return nil, fail(data, err)
	}
	if n.ModifiedTime, err = c.parseTime("modifiedtime", w.ModifiedTime); err != nil {
		return nil, fail(data, err)
	}
	return n, nil
}

// DecodeKeys returns the keys of a JSON object in document order, ignoring
// the values. Repeated keys are returned once.
func (c *Codec) DecodeKeys(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fail(data, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fail(data, errNotObject)
	}

	keys := make([]string, 0)
	seen := make(map[string]struct{})
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fail(data, err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fail(data, fmt.Errorf("unexpected token %v", tok))
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, fail(data, err)
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fail(data, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fail(data, errors.New("trailing data after object"))
	}
	return keys, nil
}

// DecodeMessages unwraps {"messages":[...]} into the raw note documents.
// Elements are normally JSON strings that hold a JSON document; objects are
// passed through as is.
func (c *Codec) DecodeMessages(data []byte) ([][]byte, error) {
	var env struct {
		Messages *[]json.RawMessage `json:"messages"`
	}
	if err := unmarshalObject(data, &env); err != nil {
		return nil, fail(data, err)
	}
	if env.Messages == nil {
		return nil, fail(data, errMissingMessages)
	}

	out := make([][]byte, 0, len(*env.Messages))
	for i, raw := range *env.Messages {
		switch firstByte(raw) {
		case '"':
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return nil, fail(raw, err)
			}
			out = append(out, []byte(s))
		case '{':
			out = append(out, []byte(raw))
		default:
			return nil, fail(raw, fmt.Errorf("message %d is neither a string nor an object", i))
		}
	}
	return out, nil
}

// Encode renders the business fields of a *models.User, *models.Profile or
// *models.Note.
func (c *Codec) Encode(v any) ([]byte, error) {
	switch e := v.(type) {
	case *models.User:
		return json.Marshal(userWire{
			UserID:        e.UserID,
			Username:      e.Username,
			TermsAccepted: c.formatTime(e.TermsAccepted),
		})
	case *models.Profile:
		w := profileWire{FullName: e.FullName, ShortName: e.ShortName}
		if e.Patient != nil {
			w.Patient = &patientWire{
				Birthday:      e.Patient.Birthday,
				DiagnosisDate: e.Patient.DiagnosisDate,
				AboutMe:       e.Patient.AboutMe,
			}
		}
		return json.Marshal(w)
	case *models.Note:
		w := noteWire{
			ID:            e.ID,
			ParentMessage: e.ParentID,
			UserID:        e.AuthorID,
			GroupID:       e.GroupID,
			Timestamp:     c.formatTime(e.Timestamp),
			CreatedTime:   c.formatTime(e.CreatedTime),
			ModifiedTime:  c.formatTime(e.ModifiedTime),
			MessageText:   e.MessageText,
		}
		if e.AuthorName != "" {
			w.User = &noteAuthorWire{FullName: e.AuthorName}
		}
		return json.Marshal(w)
	default:
		return nil, fmt.Errorf("codec: cannot encode %T", v)
	}
}
