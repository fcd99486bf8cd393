package personas

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func preamble(n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		sb.WriteString("Report line\n")
	}
	return sb.String()
}

func TestParse(t *testing.T) {
	input := preamble(12) +
		"Segment,Area,Area,Relevance,Affinity,URL\n" +
		"# exported comment\n" +
		"Outdoor lovers,Austin,TX,high,3.5,http://a\n" +
		",,,,,\n" +
		"Urban,NYC,NY,low,,http://b\n"

	table, err := Parse(strings.NewReader(input), ParseOptions{SkipLines: DefaultSkipLines, DropColumns: DefaultDropColumns})
	require.NoError(t, err)

	assert.Equal(t, []string{"Segment", "Area", "Affinity"}, table.Columns)
	assert.Equal(t, [][]string{
		{"Outdoor lovers", "Austin", "3.5"},
		{"Urban", "NYC", ""},
	}, table.Rows)
}

func TestParseIgnoresMissingDropColumns(t *testing.T) {
	table, err := Parse(strings.NewReader("Name,Age\nAnn,30\n"), ParseOptions{DropColumns: []string{"Comment"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Age"}, table.Columns)
	assert.Len(t, table.Rows, 1)
}

func TestParseShortFile(t *testing.T) {
	_, err := Parse(strings.NewReader(preamble(3)), ParseOptions{SkipLines: DefaultSkipLines})
	assert.ErrorIs(t, err, ErrNoHeader)

	_, err = Parse(strings.NewReader(preamble(12)), ParseOptions{SkipLines: DefaultSkipLines})
	assert.ErrorIs(t, err, ErrNoHeader)
}

func TestRecordsJSON(t *testing.T) {
	table := &Table{
		Columns: []string{"Segment", "Affinity", "Note"},
		Rows:    [][]string{{"Outdoor", "3.5", ""}},
	}

	got, err := table.RecordsJSON()
	require.NoError(t, err)
	assert.Equal(t, "[\n    {\n        \"Segment\": \"Outdoor\",\n        \"Affinity\": 3.5,\n        \"Note\": null\n    }\n]", got)
}

func TestRecordsJSONEmpty(t *testing.T) {
	got, err := (&Table{Columns: []string{"A"}}).RecordsJSON()
	require.NoError(t, err)
	assert.Equal(t, "[]", got)
}

func TestParseDuplicateHeadersAndRaggedRows(t *testing.T) {
	input := "\ufeffName,Tag,Tag,Tag\n" +
		"Ann,a,b\n" +
		"Bob,c,d,e,extra\n"

	got, err := Parse(strings.NewReader(input), ParseOptions{DropColumns: []string{"Tag.1"}})
	require.NoError(t, err)

	want := &Table{
		Columns: []string{"Name", "Tag", "Tag.2"},
		Rows: [][]string{
			{"Ann", "a", ""},
			{"Bob", "c", "e"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}
