package tfs

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validHistoryXML = `<?xml version="1.0" encoding="utf-8"?><history>
  <changeset id="3" owner="Windows Live ID\saveug@mail.ru" committer="Windows Live ID\saveug@mail.ru" date="2013-04-07T23:55:48.973+0530">
    <comment>commit comment</comment>
    <item change-type="delete" server-item="$/project/deleted.file"/>
    <item change-type="edit" server-item="$/project/updated.file"/>
    <item change-type="add" server-item="$/project/added.file"/>
  </changeset>
  <changeset id="2" owner="Windows Live ID\saveug@mail.ru" committer="Windows Live ID\saveug@mail.ru" date="2013-04-07T23:50:12.497+0530">
    <comment>another meaningful commit</comment>
    <item change-type="delete, source rename" server-item="$/project/test.txt"/>
    <item change-type="rename" server-item="$/project/test2.txt"/>
  </changeset>
  <changeset id="1" owner="vstfs:///Framework/Generic/df6a9717-e9fe-4397-890f-abbae9ed4569\Project Collection Service Accounts" committer="vstfs:///Framework/Generic/df6a9717-e9fe-4397-890f-abbae9ed4569\Project Collection Service Accounts" date="2013-04-04T14:13:04.270+0530">
    <item change-type="add" server-item="$/"/>
  </changeset>
</history>
`

const emptyHistoryXML = `<?xml version="1.0" encoding="utf-8"?><history></history>`

func TestHistoryParser_ParsesAllChangesets(t *testing.T) {
	history, err := NewHistoryParser().Parse(validHistoryXML)
	require.NoError(t, err)
	require.Len(t, history, 3)

	assert.Equal(t, []int{3, 2, 1}, []int{history[0].Version, history[1].Version, history[2].Version})
	assert.Len(t, history[0].Changes, 3)
	assert.Len(t, history[1].Changes, 2)
	assert.Len(t, history[2].Changes, 1)
}

func TestHistoryParser_ChangesetAttributes(t *testing.T) {
	history, err := NewHistoryParser().Parse(validHistoryXML)
	require.NoError(t, err)

	cs := history[0]
	assert.Equal(t, 3, cs.Version)
	assert.Equal(t, `Windows Live ID\saveug@mail.ru`, cs.Author)
	assert.Equal(t, "commit comment", cs.Comment)
	assert.True(t, cs.HasComment)

	want := time.Date(2013, 4, 7, 23, 55, 48, 973_000_000, time.FixedZone("", 5*3600+30*60))
	assert.True(t, want.Equal(cs.Date), "got %v, want %v", cs.Date, want)
}

func TestHistoryParser_ChangeItems(t *testing.T) {
	history, err := NewHistoryParser().Parse(validHistoryXML)
	require.NoError(t, err)

	assert.Equal(t, ChangeItem{ChangeType: "add", ServerItem: "$/project/added.file"}, history[0].Changes[2])
	// compound change types are passed through untouched
	assert.Equal(t, "delete, source rename", history[1].Changes[0].ChangeType)
}

func TestHistoryParser_ChangesetWithoutComment(t *testing.T) {
	history, err := NewHistoryParser().Parse(validHistoryXML)
	require.NoError(t, err)

	assert.Equal(t, 1, history[2].Version)
	assert.False(t, history[2].HasComment)
	assert.Empty(t, history[2].Comment)
}

func TestHistoryParser_EmptyHistory(t *testing.T) {
	history, err := NewHistoryParser().Parse(emptyHistoryXML)
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)
}

func TestHistoryParser_ChangesetWithoutItems(t *testing.T) {
	doc := `<history><changeset id="7" committer="me" date="2013-04-04T14:13:04.270+05:30"><comment>x</comment></changeset></history>`
	history, err := NewHistoryParser().Parse(doc)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.NotNil(t, history[0].Changes)
	assert.Empty(t, history[0].Changes)
}

func TestHistoryParser_Reenterable(t *testing.T) {
	p := NewHistoryParser()

	history, err := p.Parse(validHistoryXML)
	require.NoError(t, err)
	assert.NotEmpty(t, history)

	history, err = p.Parse(emptyHistoryXML)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestHistoryParser_CommentOnlyFromCommentElement(t *testing.T) {
	doc := `<history><changeset id="4" committer="a" date="2013-04-04T14:13:04.270+0530">stray
  <comment>first &amp; second</comment>
  text
  <item change-type="edit" server-item="$/p/f"/>
</changeset></history>`
	history, err := NewHistoryParser().Parse(doc)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "first & second", history[0].Comment)
}

func TestHistoryParser_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{
			name:    "no tags at all",
			doc:     "df6a9717-e9fe-4397-890f-abbae9ed4569",
			wantErr: ErrXMLSyntax,
		},
		{
			name:    "empty document",
			doc:     "",
			wantErr: ErrXMLSyntax,
		},
		{
			name:    "unclosed root",
			doc:     "<history>\n<changeset id=\"1\" committer=\"a\" date=\"2013-04-04T14:13:04.270+0530\">",
			wantErr: ErrXMLSyntax,
		},
		{
			name:    "mismatched tags",
			doc:     "<history>\n</changeset>",
			wantErr: ErrXMLSyntax,
		},
		{
			name:    "non numeric id",
			doc:     `<history><changeset id="abc" committer="a" date="2013-04-04T14:13:04.270+0530"/></history>`,
			wantErr: ErrFormat,
		},
		{
			name:    "negative id",
			doc:     `<history><changeset id="-1" committer="a" date="2013-04-04T14:13:04.270+0530"/></history>`,
			wantErr: ErrFormat,
		},
		{
			name:    "bad date",
			doc:     `<history><changeset id="1" committer="a" date="yesterday"/></history>`,
			wantErr: ErrFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			history, err := NewHistoryParser().Parse(tt.doc)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			assert.Nil(t, history)
		})
	}
}

func TestHistoryParser_SyntaxErrorLine(t *testing.T) {
	_, err := NewHistoryParser().Parse("<history>\n<foo>\n</history>")
	var se *XMLSyntaxError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 3, se.Line)
	assert.NotEmpty(t, se.Message)
	assert.Contains(t, se.Error(), "at line 3")
}

func TestParseChangesetDate(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{"2013-04-07T23:55:48.973+0530", time.Date(2013, 4, 7, 18, 25, 48, 973_000_000, time.UTC)},
		{"2013-04-07T23:55:48.973000+05:30", time.Date(2013, 4, 7, 18, 25, 48, 973_000_000, time.UTC)},
		{"2013-04-07T23:55:48-01:00", time.Date(2013, 4, 8, 0, 55, 48, 0, time.UTC)},
		{"2013-04-07T23:55:48.5Z", time.Date(2013, 4, 7, 23, 55, 48, 500_000_000, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseChangesetDate(tt.raw)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v, want %v", got.UTC(), tt.want)
		})
	}
}
