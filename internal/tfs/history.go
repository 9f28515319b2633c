package tfs

import (
	"encoding/xml"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"
)

// ChangesetDateLayouts are the timestamp forms found in the DATE attribute.
// The tool writes the zone offset both with and without a colon.
var ChangesetDateLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999Z0700",
}

const (
	elemChangeset = "changeset"
	elemItem      = "item"
	elemComment   = "comment"

	attrID         = "id"
	attrCommitter  = "committer"
	attrDate       = "date"
	attrChangeType = "change-type"
	attrServerItem = "server-item"
)

// HistoryParser decodes "history /format:xml" output. It holds no per-document
// state and can be reused for any number of Parse calls.
type HistoryParser struct{}

// NewHistoryParser returns a ready parser.
func NewHistoryParser() *HistoryParser {
	return &HistoryParser{}
}

// historyState is the context of a single Parse call: the open element stack
// and the changeset being built.
type historyState struct {
	open    []string
	current *Changeset
	history []Changeset
	sawRoot bool
}

// Parse returns the changesets in document order.
func (p *HistoryParser) Parse(doc string) ([]Changeset, error) {
	st := &historyState{history: []Changeset{}}
	dec := xml.NewDecoder(strings.NewReader(doc))
	dec.Strict = true

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, syntaxError(dec, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			line, _ := dec.InputPos()
			if err := st.startElement(t, line); err != nil {
				return nil, err
			}
		case xml.EndElement:
			st.endElement(t)
		case xml.CharData:
			if len(st.open) == 0 && strings.TrimSpace(string(t)) != "" {
				line, _ := dec.InputPos()
				if st.sawRoot {
					return nil, &XMLSyntaxError{Message: "junk after document element", Line: line}
				}
				return nil, &XMLSyntaxError{Message: "syntax error", Line: line}
			}
			st.characterData(t)
		}
	}

	if !st.sawRoot {
		line, _ := dec.InputPos()
		return nil, &XMLSyntaxError{Message: "no element found", Line: line}
	}

	return st.history, nil
}

func (st *historyState) startElement(el xml.StartElement, line int) error {
	if len(st.open) == 0 {
		if st.sawRoot {
			return &XMLSyntaxError{Message: "junk after document element", Line: line}
		}
		st.sawRoot = true
	}
	name := strings.ToLower(el.Name.Local)
	st.open = append(st.open, name)

	switch name {
	case elemChangeset:
		cs, err := newChangeset(el.Attr)
		if err != nil {
			return err
		}
		st.current = cs
	case elemItem:
		if st.current == nil {
			return formatErrorf("history", "item element outside of a changeset")
		}
		st.current.Changes = append(st.current.Changes, ChangeItem{
			ChangeType: attrValue(el.Attr, attrChangeType),
			ServerItem: attrValue(el.Attr, attrServerItem),
		})
	}
	return nil
}

func (st *historyState) endElement(el xml.EndElement) {
	if len(st.open) > 0 {
		st.open = st.open[:len(st.open)-1]
	}
	if strings.EqualFold(el.Name.Local, elemChangeset) && st.current != nil {
		st.history = append(st.history, *st.current)
		st.current = nil
	}
}

func (st *historyState) characterData(data xml.CharData) {
	if st.current == nil || len(st.open) == 0 || st.open[len(st.open)-1] != elemComment {
		return
	}
	st.current.Comment += string(data)
	st.current.HasComment = true
}

func newChangeset(attrs []xml.Attr) (*Changeset, error) {
	rawID := attrValue(attrs, attrID)
	version, err := strconv.Atoi(strings.TrimSpace(rawID))
	if err != nil || version < 0 {
		return nil, formatErrorf("changeset id", "%q is not a non-negative integer", rawID)
	}

	rawDate := attrValue(attrs, attrDate)
	date, err := ParseChangesetDate(rawDate)
	if err != nil {
		return nil, err
	}

	return &Changeset{
		Version: version,
		Author:  attrValue(attrs, attrCommitter),
		Date:    date,
		Changes: []ChangeItem{},
	}, nil
}

// ParseChangesetDate parses a DATE attribute value.
func ParseChangesetDate(raw string) (time.Time, error) {
	for _, layout := range ChangesetDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, formatErrorf("changeset date", "cannot parse %q", raw)
}

// attrValue looks up an attribute ignoring case; the tool's schema is upper
// case in some versions and lower case in others.
func attrValue(attrs []xml.Attr, name string) string {
	for _, a := range attrs {
		if strings.EqualFold(a.Name.Local, name) {
			return a.Value
		}
	}
	return ""
}

func syntaxError(dec *xml.Decoder, err error) error {
	var se *xml.SyntaxError
	if errors.As(err, &se) {
		return &XMLSyntaxError{Message: se.Msg, Line: se.Line}
	}
	line, _ := dec.InputPos()
	return &XMLSyntaxError{Message: err.Error(), Line: line}
}
