package article

import "github.com/pevans/replidata/dataset"

// Columns is the export column order for article records. It matches the
// header of every metadata CSV the pipeline writes.
var Columns = []string{"title", "field", "journal", "year", "language", "links"}

// Record represents a single paper listed in the discussion-paper index.
// Title, Journal and Field come from the listing card; Year and Links are
// filled in by enrichment. Language is never populated.
type Record struct {
	Title    string `json:"title"`
	Field    string `json:"field"`
	Journal  string `json:"journal"`
	Year     string `json:"year"`
	Language string `json:"language"`
	Links    string `json:"links"`

	// URL is the detail page for the paper. It is not exported as a column.
	URL string `json:"-"`
}

// NewRecord creates a record from listing card values, deriving the field
// from the journal.
func NewRecord(title, journal, url string) Record {
	return Record{
		Title:   title,
		Field:   FieldForJournal(journal),
		Journal: journal,
		URL:     url,
	}
}

// Values returns the record's column values in Columns order.
func (r Record) Values() []string {
	return []string{r.Title, r.Field, r.Journal, r.Year, r.Language, r.Links}
}

// Enriched reports whether the record has been through detail enrichment.
func (r Record) Enriched() bool {
	return r.Links != ""
}

// ToTable converts records into a table with the Columns header.
func ToTable(records []Record) *dataset.Table {
	table := dataset.NewTable(Columns)
	for _, r := range records {
		table.Append(r.Values()...)
	}
	return table
}
