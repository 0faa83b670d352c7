package article

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestFieldForJournal_Economics verifies every economics journal maps to
// Economics
func TestFieldForJournal_Economics(t *testing.T) {
	for _, journal := range economicsJournals {
		assert.Equal(t, FieldEconomics, FieldForJournal(journal), journal)
	}
}

// TestFieldForJournal_PoliticalScience verifies the political science list
func TestFieldForJournal_PoliticalScience(t *testing.T) {
	for _, journal := range politicalScienceJournals {
		assert.Equal(t, FieldPoliticalScience, FieldForJournal(journal), journal)
	}
}

// TestFieldForJournal_HumanBehavior verifies the human behaviour list
func TestFieldForJournal_HumanBehavior(t *testing.T) {
	for _, journal := range humanBehaviorJournals {
		assert.Equal(t, FieldPsychologicalScience, FieldForJournal(journal), journal)
	}
}

// TestFieldForJournal_Unrecognized verifies unknown and near-miss names are
// not classified
func TestFieldForJournal_Unrecognized(t *testing.T) {
	tests := []struct {
		name    string
		journal string
	}{
		{name: "empty", journal: ""},
		{name: "unknown journal", journal: "Science"},
		{name: "lowercase", journal: "aer"},
		{name: "trailing space", journal: "AER "},
		{name: "leading space", journal: " QJE"},
		{name: "partial", journal: "AEJ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, FieldForJournal(tt.journal))
		})
	}
}
