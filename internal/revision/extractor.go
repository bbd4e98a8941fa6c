// Package revision splits wiki export payloads into revision fragments and
// extracts typed fields from them.
package revision

import (
	"fmt"
	"iter"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/antchfx/xmlquery"
)

// TimestampLayout is the fixed timestamp format used by the export payload.
// Offsets other than the literal Z suffix are rejected.
const TimestampLayout = "2006-01-02T15:04:05Z"

// Metadata is the structured projection of a single revision fragment.
// Optional fields are nil when the corresponding element is absent.
type Metadata struct {
	ID         string
	Timestamp  time.Time
	Username   *string
	UserID     *string
	Comment    *string
	TextLength int
	Text       *string
}

// Split parses a combined export payload and returns a single-pass sequence
// of individual <revision> fragments in payload order. The source emits
// revisions in descending time order; Split preserves that order.
func Split(payload string) (iter.Seq[string], error) {
	doc, err := xmlquery.Parse(strings.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("parse export payload: %w", err)
	}

	nodes := xmlquery.Find(doc, "//revision")

	return func(yield func(string) bool) {
		for _, node := range nodes {
			if !yield(node.OutputXML(true)) {
				return
			}
		}
	}, nil
}

// HasPage reports whether the payload contains a top-level page element.
// The export endpoint omits it when the requested page does not exist.
func HasPage(payload string) bool {
	doc, err := xmlquery.Parse(strings.NewReader(payload))
	if err != nil {
		return false
	}
	return xmlquery.FindOne(doc, "//page") != nil
}

// ExtractField returns the text of the first element named field, in
// document order, anywhere in the fragment.
func ExtractField(fragment, field string) (string, error) {
	doc, err := xmlquery.Parse(strings.NewReader(fragment))
	if err != nil {
		return "", fmt.Errorf("parse revision fragment: %w", err)
	}

	node := xmlquery.FindOne(doc, "//"+field)
	if node == nil {
		return "", &MissingFieldError{Field: field}
	}
	return node.InnerText(), nil
}

// ExtractID returns the revision's id element text.
func ExtractID(fragment string) (string, error) {
	return ExtractField(fragment, "id")
}

// ExtractTimestamp returns the revision's parsed timestamp.
func ExtractTimestamp(fragment string) (time.Time, error) {
	raw, err := ExtractField(fragment, "timestamp")
	if err != nil {
		return time.Time{}, err
	}
	return ParseTimestamp(raw)
}

// ParseTimestamp parses timestamp text in the export layout.
func ParseTimestamp(value string) (time.Time, error) {
	ts, err := time.Parse(TimestampLayout, value)
	if err != nil {
		return time.Time{}, &TimestampFormatError{Value: value, Err: err}
	}
	return ts, nil
}

// ParseMetadata extracts the flat metadata record from one revision
// fragment. The id and timestamp elements are required; contributor halves,
// comment, and text are each independently optional. TextLength counts the
// body's characters and is zero when the text element is absent. The full
// body is retained only when includeText is set.
func ParseMetadata(fragment string, includeText bool) (*Metadata, error) {
	doc, err := xmlquery.Parse(strings.NewReader(fragment))
	if err != nil {
		return nil, fmt.Errorf("parse revision fragment: %w", err)
	}

	rev := xmlquery.FindOne(doc, "//revision")
	if rev == nil {
		return nil, &MissingFieldError{Field: "revision"}
	}

	idNode := xmlquery.FindOne(rev, "id")
	if idNode == nil {
		return nil, &MissingFieldError{Field: "id"}
	}
	tsNode := xmlquery.FindOne(rev, "timestamp")
	if tsNode == nil {
		return nil, &MissingFieldError{Field: "timestamp"}
	}

	ts, err := ParseTimestamp(tsNode.InnerText())
	if err != nil {
		return nil, err
	}

	meta := &Metadata{
		ID:        idNode.InnerText(),
		Timestamp: ts,
	}

	// The contributor's id lives inside the contributor element; querying
	// it relative to that element keeps it distinct from the revision id.
	if contrib := xmlquery.FindOne(rev, "contributor"); contrib != nil {
		if node := xmlquery.FindOne(contrib, "username"); node != nil {
			username := node.InnerText()
			meta.Username = &username
		}
		if node := xmlquery.FindOne(contrib, "id"); node != nil {
			userID := node.InnerText()
			meta.UserID = &userID
		}
	}

	if node := xmlquery.FindOne(rev, "comment"); node != nil {
		comment := node.InnerText()
		meta.Comment = &comment
	}

	if node := xmlquery.FindOne(rev, "text"); node != nil {
		body := node.InnerText()
		meta.TextLength = utf8.RuneCountInString(body)
		if includeText {
			meta.Text = &body
		}
	}

	return meta, nil
}
