package cleanse

import (
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// Layout of the composite product key: the first categoryIDWidth characters
// are the category, the product code starts at productCodeOffset (0-based),
// skipping the separator between them.
const (
	categoryIDWidth   = 5
	productCodeOffset = 6
)

// SplitProductKey splits a composite key such as "CO-RF-FR-R92B-58" into the
// category id "CO_RF" and the product code "FR-R92B-58". Keys shorter than
// the layout yield what is there: a short category and an empty code.
func SplitProductKey(key string) (categoryID, productCode string) {
	runes := []rune(key)

	cat := runes
	if len(cat) > categoryIDWidth {
		cat = cat[:categoryIDWidth]
	}
	categoryID = strings.ReplaceAll(string(cat), "-", "_")

	if len(runes) > productCodeOffset {
		productCode = string(runes[productCodeOffset:])
	}
	return categoryID, productCode
}

// CleanseProduct projects a single product version. EndDate is left NULL;
// it depends on the other versions of the product and is filled in by
// DeriveEndDates.
func CleanseProduct(raw RawProduct) Product {
	p := Product{
		ID:        raw.ID,
		Name:      raw.Name,
		Line:      NormalizeProductLine(raw.Line),
		StartDate: toDate(raw.StartDate),
	}
	if raw.Key.Valid {
		cat, code := SplitProductKey(raw.Key.String)
		p.CategoryID = pgtype.Text{String: cat, Valid: true}
		p.Key = pgtype.Text{String: code, Valid: true}
	}
	if raw.Cost.Valid {
		p.Cost = raw.Cost.Int64
	}
	return p
}

// CleanseProducts cleanses every product version and derives end dates.
func CleanseProducts(raws []RawProduct) []Product {
	out := make([]Product, len(raws))
	for i, raw := range raws {
		out[i] = CleanseProduct(raw)
	}
	return DeriveEndDates(out)
}

// toDate drops the time of day.
func toDate(ts pgtype.Timestamp) pgtype.Date {
	if !ts.Valid {
		return pgtype.Date{}
	}
	y, m, d := ts.Time.Date()
	return pgtype.Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
}
