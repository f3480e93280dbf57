// Package format turns stories into styled lines: a headline and a byline
// per story, in list order.
package format

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"github.com/Mr-Dark-debug/lobsters/internal/lobsters"
	"github.com/Mr-Dark-debug/lobsters/internal/text"
	"github.com/Mr-Dark-debug/lobsters/internal/theme"
	"github.com/Mr-Dark-debug/lobsters/pkg/timeutil"
	"github.com/charmbracelet/x/ansi"
)

// LinesPerStory is the fixed stride between stories in the line list.
const LinesPerStory = 2

// ErrInvalidDate is wrapped by errors from a story whose creation time
// cannot be parsed.
var ErrInvalidDate = errors.New("invalid story date")

// TagLookup resolves tag names. lobsters.TagMap satisfies it.
type TagLookup interface {
	Lookup(name string) (lobsters.Tag, bool)
}

// Formatter builds the lines for a list of stories.
type Formatter struct {
	Theme theme.Theme
	Tags  TagLookup
	// Clock is "now" for relative times. Nil means the wall clock.
	Clock timeutil.Clock
}

// Format returns the headline and byline for one story. digits is the
// width the score column is padded to; selected applies the cursor
// highlight to both lines.
func (f Formatter) Format(s lobsters.Story, digits int, selected bool) (headline, byline text.Line, err error) {
	created, err := timeutil.ParseTimestamp(s.CreatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("story %s: %w: %w", s.ShortID, ErrInvalidDate, err)
	}

	headline = make(text.Line, 0, 3+len(s.Tags))
	headline = append(headline,
		text.New(fmt.Sprintf("%*d", digits, s.Score)).WithFg(f.Theme.Color(theme.RoleScore)),
		text.New(" "+printable(s.Title)).WithFg(f.Theme.Color(theme.RoleTitle)).WithBold(),
	)
	if f.Tags != nil {
		for _, name := range s.Tags {
			tag, ok := f.Tags.Lookup(name)
			if !ok {
				continue
			}
			headline = append(headline, text.New(" "+printable(tag.Name)).WithFg(f.Theme.TagColor(tag.Name, tag.IsMedia)))
		}
	}
	domain := ""
	if d := printable(Domain(s.URL)); d != "" {
		domain = " " + d
	}
	headline = append(headline, text.New(domain).WithFg(f.Theme.Color(theme.RoleDomain)).WithItalic())

	clock := f.Clock
	if clock == nil {
		clock = timeutil.System
	}
	meta := fmt.Sprintf("%*s via %s %s | %d comments",
		digits, " ", printable(s.Submitter.Username), timeutil.RelativeTime(created, clock()), s.CommentCount)
	byline = text.Line{text.New(meta).WithFg(f.Theme.Color(theme.RoleByline))}

	if selected {
		cursor := f.Theme.Color(theme.RoleCursor)
		headline = text.Highlight(headline, cursor)
		byline = text.Highlight(byline, cursor)
	}
	return headline, byline, nil
}

// FormatAll returns LinesPerStory lines per story, headline first. The
// story at index selected is highlighted; an out of range index highlights
// nothing. The first date error aborts the pass.
func (f Formatter) FormatAll(stories []lobsters.Story, selected int) ([]text.Line, error) {
	digits := ScoreDigits(stories)
	lines := make([]text.Line, 0, LinesPerStory*len(stories))
	for i, s := range stories {
		headline, byline, err := f.Format(s, digits, i == selected)
		if err != nil {
			return nil, err
		}
		lines = append(lines, headline, byline)
	}
	return lines, nil
}

// ScoreDigits returns the widest score's digit count, counting a minus
// sign as a digit. An empty list gives 1.
func ScoreDigits(stories []lobsters.Story) int {
	digits := 1
	for _, s := range stories {
		if n := len(strconv.Itoa(s.Score)); n > digits {
			digits = n
		}
	}
	return digits
}

// Domain returns the DNS host of rawURL. It is empty when the URL is
// empty, cannot be parsed, or points at an IP address.
func Domain(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := u.Hostname()
	if host == "" || net.ParseIP(host) != nil {
		return ""
	}
	return host
}

// printable removes escape sequences and control characters from text
// taken from the site, so the terminal draws exactly the cells that
// text.StringWidth counts. Tabs and line breaks become spaces.
func printable(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
}
