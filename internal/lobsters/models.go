// Package lobsters holds the story and tag models served by a lobste.rs
// compatible site and a small read-only client for its JSON API.
//
// Models are decoded once and never mutated afterwards.
package lobsters

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// User is a story submitter.
//
// The API has served submitter_user both as a bare username string and
// as an object; both decode into the same value.
type User struct {
	Username     string `json:"username"`
	CreatedAt    string `json:"created_at,omitempty"`
	IsAdmin      bool   `json:"is_admin,omitempty"`
	IsModerator  bool   `json:"is_moderator,omitempty"`
	Karma        int    `json:"karma,omitempty"`
	AvatarURL    string `json:"avatar_url,omitempty"`
	InvitedBy    string `json:"invited_by_user,omitempty"`
	About        string `json:"about,omitempty"`
	GithubHandle string `json:"github_username,omitempty"`
}

// userFields prevents UnmarshalJSON from recursing.
type userFields User

func (u *User) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return fmt.Errorf("decoding username: %w", err)
		}
		*u = User{Username: name}
		return nil
	}

	var f userFields
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("decoding user: %w", err)
	}
	*u = User(f)
	return nil
}

func (u User) String() string {
	return u.Username
}

// Story is one ranked item on a listing page.
type Story struct {
	ShortID      string   `json:"short_id"`
	ShortIDURL   string   `json:"short_id_url"`
	CreatedAt    string   `json:"created_at"`
	Title        string   `json:"title"`
	URL          string   `json:"url"`
	Score        int      `json:"score"`
	Upvotes      int      `json:"upvotes,omitempty"`
	Downvotes    int      `json:"downvotes,omitempty"`
	CommentCount int      `json:"comment_count"`
	Description  string   `json:"description,omitempty"`
	CommentsURL  string   `json:"comments_url"`
	Submitter    User     `json:"submitter_user"`
	Tags         []string `json:"tags"`
}

// TargetURL is the story link, or the comments page for text posts.
func (s Story) TargetURL() string {
	if s.URL != "" {
		return s.URL
	}
	return s.CommentsURL
}

// Tag describes one tag known to the site.
type Tag struct {
	Name        string  `json:"tag"`
	Description string  `json:"description"`
	Privileged  bool    `json:"privileged"`
	IsMedia     bool    `json:"is_media"`
	Inactive    bool    `json:"inactive"`
	HotnessMod  float64 `json:"hotness_mod"`
}

// TagMap indexes tags by name.
type TagMap struct {
	byName map[string]Tag
}

// NewTagMap builds a TagMap. Later duplicates replace earlier ones.
func NewTagMap(tags []Tag) TagMap {
	m := TagMap{byName: make(map[string]Tag, len(tags))}
	for _, t := range tags {
		m.byName[t.Name] = t
	}
	return m
}

// Lookup returns the tag called name.
func (m TagMap) Lookup(name string) (Tag, bool) {
	t, ok := m.byName[name]
	return t, ok
}

// Len returns the number of known tags.
func (m TagMap) Len() int {
	return len(m.byName)
}

// Tags returns every tag, in no particular order.
func (m TagMap) Tags() []Tag {
	out := make([]Tag, 0, len(m.byName))
	for _, t := range m.byName {
		out = append(out, t)
	}
	return out
}

// FrontPage is a listing page joined with the tag list needed to style it.
type FrontPage struct {
	Page    int
	Stories []Story
	Tags    TagMap
}
