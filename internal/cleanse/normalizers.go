package cleanse

import (
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
	"golang.org/x/text/cases"
)

// NotAvailable is the label written when a coded value matches no known code.
const NotAvailable = "n/a"

// Label sets keyed by the case-folded code.
var (
	maritalStatusLabels = map[string]string{
		"s": "Single",
		"m": "Married",
	}

	genderLabels = map[string]string{
		"f": "Female",
		"m": "Male",
	}

	// ERP systems spell gender out as often as they abbreviate it.
	erpGenderLabels = map[string]string{
		"f":      "Female",
		"female": "Female",
		"m":      "Male",
		"male":   "Male",
	}

	productLineLabels = map[string]string{
		"m": "Mountain",
		"r": "Road",
		"s": "Other Sales",
		"t": "Touring",
	}

	countryLabels = map[string]string{
		"de":  "Germany",
		"us":  "United States",
		"usa": "United States",
	}
)

// foldCode trims a code and case-folds it for comparison.
// cases.Caser is stateful, so a fresh one is used per call.
func foldCode(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// NormalizeCode maps a raw code to its label.
// NULL, blank and unknown codes all resolve to NotAvailable.
func NormalizeCode(v pgtype.Text, labels map[string]string) string {
	if !v.Valid {
		return NotAvailable
	}
	if label, ok := labels[foldCode(v.String)]; ok {
		return label
	}
	return NotAvailable
}

// NormalizeMaritalStatus maps S/M to Single/Married.
func NormalizeMaritalStatus(v pgtype.Text) string {
	return NormalizeCode(v, maritalStatusLabels)
}

// NormalizeGender maps the CRM single-letter codes F/M to Female/Male.
func NormalizeGender(v pgtype.Text) string {
	return NormalizeCode(v, genderLabels)
}

// NormalizeErpGender maps F, FEMALE, M and MALE to Female/Male.
func NormalizeErpGender(v pgtype.Text) string {
	return NormalizeCode(v, erpGenderLabels)
}

// NormalizeProductLine maps M/R/S/T to Mountain, Road, Other Sales and Touring.
func NormalizeProductLine(v pgtype.Text) string {
	return NormalizeCode(v, productLineLabels)
}

// NormalizeCountry maps known country codes to display names.
// Unlike the other normalizers an unknown value is kept (trimmed), since
// most ERP rows already carry the full country name.
func NormalizeCountry(v pgtype.Text) string {
	if !v.Valid {
		return NotAvailable
	}
	trimmed := strings.TrimSpace(v.String)
	if trimmed == "" {
		return NotAvailable
	}
	if label, ok := countryLabels[foldCode(trimmed)]; ok {
		return label
	}
	return trimmed
}

// trimText trims whitespace but keeps NULL as NULL.
func trimText(v pgtype.Text) pgtype.Text {
	if !v.Valid {
		return v
	}
	return pgtype.Text{String: strings.TrimSpace(v.String), Valid: true}
}
