package cleanse

import (
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// erpCustomerPrefix marks ids the ERP stores with a legacy "NAS" prefix.
const erpCustomerPrefix = "NAS"

// CleanseErpCustomer strips the legacy id prefix, drops birth dates that lie
// after now and normalizes the gender spelling.
func CleanseErpCustomer(raw RawErpCustomer, now time.Time) ErpCustomer {
	c := ErpCustomer{
		CID:       raw.CID,
		BirthDate: raw.BirthDate,
		Gender:    NormalizeErpGender(raw.Gender),
	}
	if raw.CID.Valid {
		c.CID = pgtype.Text{String: strings.TrimPrefix(raw.CID.String, erpCustomerPrefix), Valid: true}
	}
	if raw.BirthDate.Valid && raw.BirthDate.Time.After(now) {
		c.BirthDate = pgtype.Date{}
	}
	return c
}

// CleanseErpCustomers cleanses every ERP customer against the same clock.
func CleanseErpCustomers(raws []RawErpCustomer, now time.Time) []ErpCustomer {
	out := make([]ErpCustomer, len(raws))
	for i, raw := range raws {
		out[i] = CleanseErpCustomer(raw, now)
	}
	return out
}

// CleanseErpLocation removes the hyphens from the customer id so it joins
// with the CRM key, and normalizes the country.
func CleanseErpLocation(raw RawErpLocation) ErpLocation {
	l := ErpLocation{
		CID:     raw.CID,
		Country: NormalizeCountry(raw.Country),
	}
	if raw.CID.Valid {
		l.CID = pgtype.Text{String: strings.ReplaceAll(raw.CID.String, "-", ""), Valid: true}
	}
	return l
}

// CleanseErpLocations cleanses every ERP location.
func CleanseErpLocations(raws []RawErpLocation) []ErpLocation {
	out := make([]ErpLocation, len(raws))
	for i, raw := range raws {
		out[i] = CleanseErpLocation(raw)
	}
	return out
}

// CleanseErpCategory copies the category row as is; the source is already clean.
func CleanseErpCategory(raw RawErpCategory) ErpCategory {
	return ErpCategory(raw)
}

// CleanseErpCategories copies every category row.
func CleanseErpCategories(raws []RawErpCategory) []ErpCategory {
	out := make([]ErpCategory, len(raws))
	for i, raw := range raws {
		out[i] = CleanseErpCategory(raw)
	}
	return out
}
