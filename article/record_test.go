package article

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNewRecord verifies field derivation and unset enrichment fields
func TestNewRecord(t *testing.T) {
	record := NewRecord("A Replication", "JOP", "https://osf.io/abc12/")

	assert.Equal(t, "A Replication", record.Title)
	assert.Equal(t, "JOP", record.Journal)
	assert.Equal(t, FieldPoliticalScience, record.Field)
	assert.Equal(t, "https://osf.io/abc12/", record.URL)
	assert.Empty(t, record.Year)
	assert.Empty(t, record.Language)
	assert.Empty(t, record.Links)
	assert.False(t, record.Enriched())
}

// TestRecord_Values verifies values line up with Columns
func TestRecord_Values(t *testing.T) {
	record := Record{
		Title:    "T",
		Field:    "F",
		Journal:  "J",
		Year:     "2020",
		Language: "",
		Links:    "a, b",
		URL:      "ignored",
	}

	values := record.Values()

	assert.Len(t, values, len(Columns))
	assert.Equal(t, []string{"T", "F", "J", "2020", "", "a, b"}, values)
	assert.True(t, record.Enriched())
}

// TestColumns_Order verifies the export header order
func TestColumns_Order(t *testing.T) {
	assert.Equal(t, []string{"title", "field", "journal", "year", "language", "links"}, Columns)
}

// TestToTable verifies records become rows under the Columns header
func TestToTable(t *testing.T) {
	records := []Record{
		NewRecord("First", "AER", "https://osf.io/a/"),
		{Title: "Second", Year: "2019", Links: "https://osf.io/b/"},
	}

	table := ToTable(records)

	assert.Equal(t, Columns, table.Header)
	assert.Equal(t, [][]string{
		{"First", "Economics", "AER", "", "", ""},
		{"Second", "", "", "2019", "", "https://osf.io/b/"},
	}, table.Rows)
}
