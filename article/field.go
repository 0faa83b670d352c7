package article

// Research fields assigned to records.
const (
	FieldEconomics            = "Economics"
	FieldPoliticalScience     = "Political Science"
	FieldPsychologicalScience = "Psychological Science"
)

var economicsJournals = []string{
	"AE: Macro",
	"AEJ: Applied",
	"AEJ: Econ Policy",
	"AEJ: Macro",
	"AEJ: Policy",
	"AER",
	"AER: Insights",
	"EJ",
	"JPE",
	"QJE",
	"Restat",
	"Restud",
}

var politicalScienceJournals = []string{"AJPS", "APSR", "JOP"}

var humanBehaviorJournals = []string{"Nature Human Behaviour"}

// FieldForJournal returns the research field for a journal abbreviation, or
// an empty string if the journal is not recognized. Matching is exact: no
// case folding or whitespace normalization is applied. Economics is checked
// first, then political science, then human behaviour.
func FieldForJournal(journal string) string {
	switch {
	case contains(economicsJournals, journal):
		return FieldEconomics
	case contains(politicalScienceJournals, journal):
		return FieldPoliticalScience
	case contains(humanBehaviorJournals, journal):
		return FieldPsychologicalScience
	default:
		return ""
	}
}

// contains checks if a string slice contains a specific string
func contains(slice []string, str string) bool {
	for _, s := range slice {
		if s == str {
			return true
		}
	}
	return false
}
