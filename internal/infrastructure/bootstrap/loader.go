// Package bootstrap turns the profile and roster JSON documents into the
// initial roster.State. Documents are read once, before the store is shared.
package bootstrap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/alem-hub/roster-hub/internal/domain/roster"
	"github.com/alem-hub/roster-hub/internal/domain/shared"
	"github.com/alem-hub/roster-hub/pkg/logger"
)

// Documents names the two bootstrap documents inside a Source.
type Documents struct {
	Profile string
	Roster  string
}

// DefaultDocuments returns the file names the desktop client ships with.
func DefaultDocuments() Documents {
	return Documents{
		Profile: "user.json",
		Roster:  "friends.json",
	}
}

// document is the on-disk shape shared by the profile and every roster entry.
// Pointers distinguish an absent field from an empty one.
type document struct {
	Name         *string `json:"name"`
	Email        *string `json:"email"`
	Status       *string `json:"status"`
	Availability *string `json:"availability"`
}

func (d document) missing() []string {
	var out []string
	if d.Name == nil {
		out = append(out, "name")
	}
	if d.Email == nil {
		out = append(out, "email")
	}
	if d.Status == nil {
		out = append(out, "status")
	}
	if d.Availability == nil {
		out = append(out, "availability")
	}
	return out
}

func (d document) check() error {
	if m := d.missing(); len(m) > 0 {
		return fmt.Errorf("missing required fields %v: %w", m, shared.ErrInvalidFormat)
	}
	return nil
}

// LoadProfile decodes a profile document.
func LoadProfile(r io.Reader) (roster.Profile, error) {
	p, err := decodeProfile(r)
	if err != nil {
		return roster.Profile{}, shared.NewLoadError("profile", err)
	}
	return p, nil
}

// LoadRoster decodes a roster document (a JSON array of friends).
func LoadRoster(r io.Reader) ([]roster.Friend, error) {
	fs, err := decodeRoster(r)
	if err != nil {
		return nil, shared.NewLoadError("roster", err)
	}
	return fs, nil
}

func decodeProfile(r io.Reader) (roster.Profile, error) {
	var doc *document
	if err := decodeStrict(r, &doc); err != nil {
		return roster.Profile{}, err
	}
	if doc == nil {
		return roster.Profile{}, fmt.Errorf("profile document is null: %w", shared.ErrInvalidFormat)
	}
	if err := doc.check(); err != nil {
		return roster.Profile{}, err
	}
	return roster.Profile{
		Name:         *doc.Name,
		Email:        *doc.Email,
		Status:       *doc.Status,
		Availability: roster.ParseAvailability(*doc.Availability),
	}, nil
}

func decodeRoster(r io.Reader) ([]roster.Friend, error) {
	var docs *[]document
	if err := decodeStrict(r, &docs); err != nil {
		return nil, err
	}
	if docs == nil {
		return nil, fmt.Errorf("roster document is null: %w", shared.ErrInvalidFormat)
	}
	friends := make([]roster.Friend, 0, len(*docs))
	for i, doc := range *docs {
		if err := doc.check(); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		friends = append(friends, roster.Friend{
			Name:         *doc.Name,
			Email:        *doc.Email,
			Status:       *doc.Status,
			Availability: roster.ParseAvailability(*doc.Availability),
		})
	}
	return friends, nil
}

// decodeStrict decodes exactly one JSON value and rejects trailing data.
func decodeStrict(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid JSON: trailing data after document: %w", shared.ErrInvalidFormat)
	}
	return nil
}

// Load reads both documents from src and returns the initial aggregate.
// Any failure is a *shared.LoadError naming the offending document.
func Load(ctx context.Context, src Source, docs Documents, log *logger.Logger) (roster.State, error) {
	if log == nil {
		log = logger.Nop()
	}
	log = log.With(logger.Component("bootstrap"))

	log.Info("loading user", logger.String("document", docs.Profile))
	var profile roster.Profile
	err := readDocument(ctx, src, docs.Profile, func(r io.Reader) error {
		var err error
		profile, err = decodeProfile(r)
		return err
	})
	if err != nil {
		return roster.State{}, err
	}
	log.Info("loaded user", logger.String("name", profile.Name))

	log.Info("loading friends list", logger.String("document", docs.Roster))
	var friends []roster.Friend
	err = readDocument(ctx, src, docs.Roster, func(r io.Reader) error {
		var err error
		friends, err = decodeRoster(r)
		return err
	})
	if err != nil {
		return roster.State{}, err
	}
	log.Info("loaded friends", logger.Int("count", len(friends)))

	return roster.State{Profile: profile, Friends: friends}, nil
}

func readDocument(ctx context.Context, src Source, name string, decode func(io.Reader) error) error {
	rc, err := src.Open(ctx, name)
	if err != nil {
		return shared.NewLoadError(name, err)
	}
	defer rc.Close()

	if err := decode(rc); err != nil {
		return shared.NewLoadError(name, err)
	}
	return nil
}
