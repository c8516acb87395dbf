package bootstrap

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/roster-hub/internal/domain/roster"
	"github.com/alem-hub/roster-hub/internal/domain/shared"
)

const userJSON = `{
    "name": "Jane",
    "email": "jane@example.com",
    "status": "Working on the mockup",
    "availability": "Away"
}`

const friendsJSON = `[
    {"name": "Bob", "email": "bob@example.com", "status": "coding", "availability": "Busy"},
    {"name": "Ann", "email": "ann@example.com", "status": "", "availability": "Online"},
    {"name": "Zoe", "email": "zoe@example.com", "status": "zzz", "availability": "Sleeping", "extra": 1}
]`

func newFS(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, body := range files {
		require.NoError(t, afero.WriteFile(fs, "/data/"+name, []byte(body), 0o644))
	}
	return fs
}

func TestLoadProfile(t *testing.T) {
	p, err := LoadProfile(strings.NewReader(userJSON))
	require.NoError(t, err)
	assert.Equal(t, roster.Profile{
		Name:         "Jane",
		Email:        "jane@example.com",
		Status:       "Working on the mockup",
		Availability: roster.Away,
	}, p)
}

func TestLoadRoster_UnknownAvailabilityFallsBackToOffline(t *testing.T) {
	friends, err := LoadRoster(strings.NewReader(friendsJSON))
	require.NoError(t, err)
	require.Len(t, friends, 3)

	assert.Equal(t, roster.Busy, friends[0].Availability)
	assert.Equal(t, roster.Online, friends[1].Availability)
	assert.Equal(t, roster.Offline, friends[2].Availability)
	assert.Equal(t, "Bob", friends[0].Name)
}

func TestLoadRoster_Empty(t *testing.T) {
	friends, err := LoadRoster(strings.NewReader(`[]`))
	require.NoError(t, err)
	assert.Empty(t, friends)
}

func TestLoad_Failures(t *testing.T) {
	tests := []struct {
		name    string
		profile string
		roster  string
		doc     string
	}{
		{"invalid profile json", `{"name": `, `[]`, "profile"},
		{"profile missing email", `{"name":"a","status":"","availability":"Online"}`, `[]`, "profile"},
		{"profile is null", `null`, `[]`, "profile"},
		{"profile trailing data", userJSON + `{}`, `[]`, "profile"},
		{"roster not an array", userJSON, `{"name":"x"}`, "roster"},
		{"roster is null", userJSON, `null`, "roster"},
		{"roster entry missing availability", userJSON, `[{"name":"a","email":"a","status":""}]`, "roster"},
		{"availability wrong type", userJSON, `[{"name":"a","email":"a","status":"","availability":3}]`, "roster"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			if tt.doc == "profile" {
				_, err = LoadProfile(strings.NewReader(tt.profile))
			} else {
				_, err = LoadRoster(strings.NewReader(tt.roster))
			}
			require.Error(t, err)
			assert.True(t, shared.IsLoad(err))

			var le *shared.LoadError
			require.True(t, errors.As(err, &le))
			assert.Equal(t, tt.doc, le.Document)
		})
	}
}

func TestLoad_FromFileSource(t *testing.T) {
	fs := newFS(t, map[string]string{
		"user.json":    userJSON,
		"friends.json": friendsJSON,
	})

	st, err := Load(context.Background(), NewFileSource(fs, "/data"), DefaultDocuments(), nil)
	require.NoError(t, err)
	assert.Equal(t, "Jane", st.Profile.Name)
	assert.Len(t, st.Friends, 3)
	assert.Equal(t, "User: Jane, Friends: 3", st.Summary())
}

func TestLoad_MissingDocument(t *testing.T) {
	fs := newFS(t, map[string]string{"user.json": userJSON})

	_, err := Load(context.Background(), NewFileSource(fs, "/data"), DefaultDocuments(), nil)
	require.Error(t, err)
	assert.True(t, shared.IsLoad(err))
	assert.ErrorIs(t, err, ErrDocumentNotFound)

	var le *shared.LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "friends.json", le.Document)
}

func TestLoad_MalformedDocumentNamesFile(t *testing.T) {
	fs := newFS(t, map[string]string{
		"user.json":    `not json`,
		"friends.json": friendsJSON,
	})

	_, err := Load(context.Background(), NewFileSource(fs, "/data"), DefaultDocuments(), nil)
	var le *shared.LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "user.json", le.Document)
}
