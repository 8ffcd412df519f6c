package knowledge

import (
	"strings"

	"prodid/internal/category"
)

const contextHeader = `===============================================================
BRAND KNOWLEDGE BASE (Use this to identify products)
===============================================================`

// Context renders the knowledge documents for the supplied categories as
// prompt injection text. Categories without documents contribute nothing; an
// all-empty result is the empty string, which callers treat as a no-op.
func (r *Registry) Context(categories []category.Category, verbosity Verbosity) string {
	var sections []string
	for _, cat := range categories {
		doc, ok := r.Load(cat)
		if !ok {
			continue
		}
		if section := formatDocument(doc, verbosity); section != "" {
			sections = append(sections, section)
		}
	}
	if len(sections) == 0 {
		return ""
	}
	return contextHeader + "\n" + strings.Join(sections, "\n\n") + "\n"
}

func formatDocument(doc *Document, verbosity Verbosity) string {
	var lines []string
	lines = append(lines, "### "+strings.ToUpper(string(doc.Category))+" BRANDS ###")

	if verbosity != VerbosityMinimal && len(doc.ColorVocabulary) > 0 {
		lines = append(lines, "", "COLOR TERMS:")
		colorLimit := len(doc.colorOrder)
		if verbosity != VerbosityDetailed && colorLimit > 4 {
			colorLimit = 4
		}
		for _, color := range doc.colorOrder[:colorLimit] {
			variants := doc.ColorVocabulary[color]
			variantLimit := len(variants)
			if verbosity != VerbosityDetailed && variantLimit > 3 {
				variantLimit = 3
			}
			lines = append(lines, "  "+color+" -> "+strings.Join(variants[:variantLimit], ", "))
		}
	}

	lines = append(lines, "", "BRANDS:")

	brandLimit := len(doc.Brands)
	switch verbosity {
	case VerbosityMinimal:
		if brandLimit > 3 {
			brandLimit = 3
		}
	case VerbosityStandard:
		if brandLimit > 5 {
			brandLimit = 5
		}
	}

	for _, brand := range doc.Brands[:brandLimit] {
		lines = append(lines, formatBrand(brand, verbosity))
	}

	return strings.Join(lines, "\n")
}

func formatBrand(brand Brand, verbosity Verbosity) string {
	if verbosity == VerbosityMinimal {
		return "- " + brand.Name + ": " + strings.Join(brand.SignatureColors, "/")
	}

	var lines []string
	header := "\n**" + brand.Name + "**"
	if len(brand.Aliases) > 0 {
		header += " (" + strings.Join(brand.Aliases, ", ") + ")"
	}
	lines = append(lines, header)
	lines = append(lines, "  Colors: "+strings.Join(brand.SignatureColors, ", "))

	if len(brand.DesignCues) > 0 {
		cueLimit := len(brand.DesignCues)
		if verbosity != VerbosityDetailed && cueLimit > 2 {
			cueLimit = 2
		}
		lines = append(lines, "  Cues: "+strings.Join(brand.DesignCues[:cueLimit], ", "))
	}

	if len(brand.IdentificationTips) > 0 {
		tipLimit := len(brand.IdentificationTips)
		if verbosity != VerbosityDetailed && tipLimit > 2 {
			tipLimit = 2
		}
		lines = append(lines, "  ID Tips:")
		for _, tip := range brand.IdentificationTips[:tipLimit] {
			lines = append(lines, "    - "+tip)
		}
	}

	if verbosity == VerbosityDetailed && len(brand.RecentColorways) > 0 {
		lines = append(lines, "  Recent Models:")
		limit := len(brand.RecentColorways)
		if limit > 2 {
			limit = 2
		}
		for _, cw := range brand.RecentColorways[:limit] {
			lines = append(lines, "    - "+cw.Line+" ("+cw.Year+"): "+strings.Join(cw.Colors, ", "))
		}
	}

	return strings.Join(lines, "\n")
}
