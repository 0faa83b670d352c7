package scraper

// ListingConfig defines how to extract article cards from the discussion
// paper index page.
type ListingConfig struct {
	// Clicks are selectors clicked in order after the index page loads, e.g.
	// the "Reports" tab followed by the "Economics" filter.
	Clicks            []string `yaml:"clicks"`
	ContainerSelector string   `yaml:"container_selector"`
	CardSelector      string   `yaml:"card_selector"`
	TitleSelector     string   `yaml:"title_selector"`
	JournalSelector   string   `yaml:"journal_selector"`
	LinkSelector      string   `yaml:"link_selector"`
}

// DetailConfig defines how to extract outbound links from an article's
// detail page.
type DetailConfig struct {
	// LinksRegion is the element that must be present before the page is
	// considered rendered.
	LinksRegion  string `yaml:"links_region"`
	LinkSelector string `yaml:"link_selector"`
}

// MetadataConfig defines how to reach and read an article's repository
// metadata page.
type MetadataConfig struct {
	// Suffix is appended to the detail URL verbatim.
	Suffix       string `yaml:"suffix"`
	DateSelector string `yaml:"date_selector"`
}

// NewListingConfig creates a listing configuration with the selectors used by
// the discussion paper index.
func NewListingConfig() ListingConfig {
	return ListingConfig{
		Clicks:            []string{"#reports-tab", "#economicsBtn"},
		ContainerSelector: "#articles-container",
		CardSelector:      "#articles-container .col-md-6.mb-4",
		TitleSelector:     "h5.card-title",
		JournalSelector:   "p.h6.text-secondary",
		LinkSelector:      "a[href]",
	}
}

// NewDetailConfig creates a detail page configuration with default selectors.
func NewDetailConfig() DetailConfig {
	return DetailConfig{
		LinksRegion:  "#nodeDescriptionEditable",
		LinkSelector: "#nodeDescriptionEditable a",
	}
}

// NewMetadataConfig creates a metadata page configuration with default
// values.
func NewMetadataConfig() MetadataConfig {
	return MetadataConfig{
		Suffix:       "metadata/osf",
		DateSelector: "dd[data-test-creation-date]",
	}
}

// MetadataURL returns the metadata page for a detail URL. The suffix is
// concatenated as-is, so detail URLs are expected to end in a slash.
func (c MetadataConfig) MetadataURL(detailURL string) string {
	return detailURL + c.Suffix
}
