package codec

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/urchin/internal/client/models"
	"github.com/dmitrijs2005/urchin/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireDecodeError(t *testing.T, err error, fragment string) {
	t.Helper()
	var de *common.DecodeError
	require.ErrorAs(t, err, &de)
	if fragment != "" {
		assert.Contains(t, de.Fragment, fragment)
	}
}

func TestDecodeUser_SignInPayload(t *testing.T) {
	c := New(GeneralDateFormat)

	u, err := c.DecodeUser([]byte(`{
		"userid": "abc123",
		"username": "larry@example.com",
		"emails": ["larry@example.com", "l@example.org"],
		"termsAccepted": "2015-08-27 10:11:12.345-0700",
		"emailVerified": true
	}`))
	require.NoError(t, err)

	assert.Equal(t, "abc123", u.UserID)
	assert.Equal(t, "larry@example.com", u.Username)
	assert.Equal(t, []string{"larry@example.com", "l@example.org"}, u.Emails)
	want := time.Date(2015, 8, 27, 17, 11, 12, 345000000, time.UTC)
	assert.True(t, u.TermsAccepted.Equal(want), "got %v", u.TermsAccepted)
	assert.Empty(t, u.ProfileID)
	assert.Nil(t, u.ViewableUserIDs)
}

func TestDecodeUser_Errors(t *testing.T) {
	c := New(GeneralDateFormat)

	tests := []struct {
		name    string
		payload string
	}{
		{"malformed json", `{"userid": "a"`},
		{"array instead of object", `[{"userid":"a"}]`},
		{"null", `null`},
		{"no userid", `{"username":"x"}`},
		{"emails not strings", `{"userid":"a","emails":[1,2]}`},
		{"emails not array", `{"userid":"a","emails":"a@b"}`},
		{"message format date", `{"userid":"a","termsAccepted":"2015-08-27T10:11:12-0700"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := c.DecodeUser([]byte(tt.payload))
			require.Nil(t, u)
			requireDecodeError(t, err, tt.payload)
		})
	}
}

func TestDecodeProfile(t *testing.T) {
	c := New(GeneralDateFormat)

	p, err := c.DecodeProfile([]byte(`{
		"fullName": "Larry Duff",
		"patient": {"birthday": "1990-01-02", "diagnosisDate": "2000-03-04", "aboutMe": "hi"}
	}`))
	require.NoError(t, err)

	assert.Empty(t, p.UserID, "owner id is not part of the payload")
	assert.Equal(t, "Larry Duff", p.FullName)
	require.NotNil(t, p.Patient)
	assert.Equal(t, models.Patient{Birthday: "1990-01-02", DiagnosisDate: "2000-03-04", AboutMe: "hi"}, *p.Patient)
}

func TestDecodeProfile_NoPatient(t *testing.T) {
	p, err := New(GeneralDateFormat).DecodeProfile([]byte(`{"fullName":"Clinic"}`))
	require.NoError(t, err)
	assert.Nil(t, p.Patient)
}

func TestDecodeNote(t *testing.T) {
	c := New(MessageDateFormat)

	n, err := c.DecodeNote([]byte(`{
		"id": "m1",
		"parentmessage": null,
		"userid": "author1",
		"groupid": "g1",
		"timestamp": "2023-05-01T12:30:00+0000",
		"createdtime": "2023-05-01T12:31:00+0200",
		"messagetext": "ate pizza #food",
		"user": {"fullName": "Larry"},
		"replies": ["m2", "m3"]
	}`))
	require.NoError(t, err)

	assert.Equal(t, "m1", n.ID)
	assert.Empty(t, n.UserID, "owner is stamped by the caller")
	assert.Equal(t, "author1", n.AuthorID)
	assert.Equal(t, "g1", n.GroupID)
	assert.Empty(t, n.ParentID)
	assert.Equal(t, "Larry", n.AuthorName)
	assert.Equal(t, "ate pizza #food", n.MessageText)
	assert.Equal(t, []string{"m2", "m3"}, n.Replies)
	assert.True(t, n.Timestamp.Equal(time.Date(2023, 5, 1, 12, 30, 0, 0, time.UTC)))
	assert.True(t, n.CreatedTime.Equal(time.Date(2023, 5, 1, 10, 31, 0, 0, time.UTC)))
	assert.True(t, n.ModifiedTime.IsZero())
}

func TestDecodeNote_GeneralFormatRejected(t *testing.T) {
	payload := `{"id":"m1","timestamp":"2023-05-01 12:30:00.000+0000"}`
	_, err := New(MessageDateFormat).DecodeNote([]byte(payload))
	requireDecodeError(t, err, payload)
}

func TestDecodeNote_ColonOffsetRejected(t *testing.T) {
	_, err := New(MessageDateFormat).DecodeNote([]byte(`{"id":"m1","timestamp":"2023-05-01T12:30:00+00:00"}`))
	requireDecodeError(t, err, "")
}

func TestDateFormats_CrossFormatConsistency(t *testing.T) {
	msg, err := New(MessageDateFormat).parseTime("t", "2023-05-01T12:30:00+0000")
	require.NoError(t, err)
	gen, err := New(GeneralDateFormat).parseTime("t", "2023-05-01 12:30:00.000+0000")
	require.NoError(t, err)
	assert.True(t, msg.Equal(gen))

	shifted, err := New(MessageDateFormat).parseTime("t", "2023-05-01T14:30:00+0200")
	require.NoError(t, err)
	assert.True(t, shifted.Equal(gen))
}

func TestCodecs_ConcurrentFormatsDoNotInterfere(t *testing.T) {
	general := New(GeneralDateFormat)
	message := New(MessageDateFormat)

	var wg sync.WaitGroup
	errs := make(chan error, 200)
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := general.DecodeUser([]byte(`{"userid":"u","termsAccepted":"2023-05-01 12:30:00.000+0000"}`))
			errs <- err
		}()
		go func() {
			defer wg.Done()
			_, err := message.DecodeNote([]byte(`{"id":"n","timestamp":"2023-05-01T12:30:00+0000"}`))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
}

func TestDecodeKeys(t *testing.T) {
	keys, err := New(GeneralDateFormat).DecodeKeys([]byte(`{"alice":1,"bob":{"view":{}},"alice":2}`))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "bob"}, keys)
}

func TestDecodeKeys_Empty(t *testing.T) {
	keys, err := New(GeneralDateFormat).DecodeKeys([]byte(`{}`))
	require.NoError(t, err)
	assert.NotNil(t, keys)
	assert.Empty(t, keys)
}

func TestDecodeKeys_Errors(t *testing.T) {
	c := New(GeneralDateFormat)
	for _, payload := range []string{`["alice","bob"]`, `{"alice":}`, `{"alice":1} {}`, ``, `"x"`} {
		_, err := c.DecodeKeys([]byte(payload))
		requireDecodeError(t, err, "")
	}
}

func TestDecodeMessages(t *testing.T) {
	inner := `{"id":"m1","messagetext":"hi"}`
	quoted, err := json.Marshal(inner)
	require.NoError(t, err)

	payload := `{"messages":[` + string(quoted) + `,{"id":"m2"}]}`
	msgs, err := New(MessageDateFormat).DecodeMessages([]byte(payload))
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.JSONEq(t, inner, string(msgs[0]))
	assert.JSONEq(t, `{"id":"m2"}`, string(msgs[1]))
}

func TestDecodeMessages_Errors(t *testing.T) {
	c := New(MessageDateFormat)
	for _, payload := range []string{
		`{"notes":[]}`,
		`{"messages":null}`,
		`{"messages":"m1"}`,
		`{"messages":[1]}`,
		`[]`,
	} {
		_, err := c.DecodeMessages([]byte(payload))
		requireDecodeError(t, err, "")
	}
}

func TestEncode_SkipsStoreFieldsAndStringLists(t *testing.T) {
	c := New(GeneralDateFormat)

	u := &models.User{
		UserID:          "u1",
		Username:        "larry",
		Emails:          []string{"a@b"},
		TermsAccepted:   time.Date(2023, 5, 1, 12, 30, 0, 0, time.UTC),
		ProfileID:       "u1",
		ViewableUserIDs: []string{"x"},
		UpdatedAt:       time.Now(),
	}
	b, err := c.Encode(u)
	require.NoError(t, err)
	assert.JSONEq(t, `{"userid":"u1","username":"larry","termsAccepted":"2023-05-01 12:30:00.000+0000"}`, string(b))

	back, err := c.DecodeUser(b)
	require.NoError(t, err)
	assert.True(t, back.TermsAccepted.Equal(u.TermsAccepted))
}

func TestEncode_NoteRoundTrip(t *testing.T) {
	c := New(MessageDateFormat)
	n := &models.Note{
		ID:          "m1",
		UserID:      "owner",
		AuthorID:    "a1",
		AuthorName:  "Al",
		MessageText: "text",
		Timestamp:   time.Date(2023, 5, 1, 12, 30, 0, 0, time.UTC),
		Replies:     []string{"r1"},
	}
	b, err := c.Encode(n)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "owner")
	assert.NotContains(t, string(b), "replies")

	back, err := c.DecodeNote(b)
	require.NoError(t, err)
	assert.Equal(t, n.ID, back.ID)
	assert.Equal(t, n.AuthorName, back.AuthorName)
	assert.True(t, back.Timestamp.Equal(n.Timestamp))
}

func TestEncode_Unsupported(t *testing.T) {
	_, err := New(GeneralDateFormat).Encode(&models.Session{})
	require.Error(t, err)
}

func TestFormatTime(t *testing.T) {
	ts := time.Date(2023, 5, 1, 12, 30, 0, 0, time.UTC)
	assert.Equal(t, "2023-05-01 12:30:00.000+0000", New(GeneralDateFormat).FormatTime(ts))
	assert.Equal(t, "2023-05-01T12:30:00+0000", New(MessageDateFormat).FormatTime(ts))
}
