package knowledge

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"prodid/internal/category"
)

//go:embed data/*.json
var dataFS embed.FS

// Verbosity controls how much of a knowledge document is rendered into the
// identification prompt.
type Verbosity string

const (
	VerbosityMinimal  Verbosity = "minimal"
	VerbosityStandard Verbosity = "standard"
	VerbosityDetailed Verbosity = "detailed"
)

// ParseVerbosity maps a config string to a Verbosity, defaulting to standard.
func ParseVerbosity(value string) Verbosity {
	switch Verbosity(value) {
	case VerbosityMinimal, VerbosityStandard, VerbosityDetailed:
		return Verbosity(value)
	default:
		return VerbosityStandard
	}
}

// Colorway records a recent product line's color offerings.
type Colorway struct {
	Line   string   `json:"line"`
	Year   string   `json:"year"`
	Colors []string `json:"colors"`
}

// Brand carries the visual and naming signature of one brand.
type Brand struct {
	Name               string     `json:"name"`
	Aliases            []string   `json:"aliases"`
	SignatureColors    []string   `json:"signatureColors"`
	DesignCues         []string   `json:"designCues"`
	IdentificationTips []string   `json:"identificationTips"`
	RecentColorways    []Colorway `json:"recentColorways,omitempty"`
}

// Document is one category's brand knowledge.
type Document struct {
	Category        category.Category   `json:"category"`
	Brands          []Brand             `json:"brands"`
	ColorVocabulary map[string][]string `json:"colorVocabulary,omitempty"`

	// colorOrder preserves a stable rendering order for the vocabulary map.
	colorOrder []string
}

// Registry resolves knowledge documents by category. Documents are parsed
// lazily from the embedded data directory and cached.
type Registry struct {
	mu   sync.Mutex
	docs map[category.Category]*Document
}

// NewRegistry constructs an empty registry over the embedded documents.
func NewRegistry() *Registry {
	return &Registry{docs: make(map[category.Category]*Document)}
}

// Load returns the knowledge document for a category, or false when the
// category has no document (including category.None).
func (r *Registry) Load(cat category.Category) (*Document, bool) {
	if cat == category.None {
		return nil, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if doc, ok := r.docs[cat]; ok {
		return doc, doc != nil
	}
	doc, err := parseDocument(cat)
	if err != nil {
		// Missing or malformed documents degrade to no enrichment.
		r.docs[cat] = nil
		return nil, false
	}
	r.docs[cat] = doc
	return doc, true
}

func parseDocument(cat category.Category) (*Document, error) {
	raw, err := dataFS.ReadFile(fmt.Sprintf("data/%s.json", cat))
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse knowledge document %s: %w", cat, err)
	}
	if doc.Category == category.None {
		doc.Category = cat
	}
	doc.colorOrder = make([]string, 0, len(doc.ColorVocabulary))
	for color := range doc.ColorVocabulary {
		doc.colorOrder = append(doc.colorOrder, color)
	}
	sort.Strings(doc.colorOrder)
	return &doc, nil
}
