package domain

type SectionDefinition struct {
	Key      string
	Keywords []string
	Emoji    string
	Category string
}

// ContentType is a static profile selecting the section taxonomy for a document.
type ContentType struct {
	Key          string
	Label        string
	Emoji        string
	DefaultTitle string
	Keywords     []string
	Sections     []SectionDefinition
	// SectionNames maps section keys to display titles.
	SectionNames map[string]string
}

// Section returns the declared definition for key.
func (ct ContentType) Section(key string) (SectionDefinition, bool) {
	for _, sec := range ct.Sections {
		if sec.Key == key {
			return sec, true
		}
	}
	return SectionDefinition{}, false
}

type Line struct {
	Text       string
	Normalized string
	WordCount  int
}

type ClassifiedItem struct {
	Name       string
	Note       string
	SectionKey string
	Category   string
	Raw        string
	IsNew      bool
}

// Detection is the outcome of content type detection.
type Detection struct {
	Type     ContentType
	AvgWords float64
	Scores   map[string]int
}
