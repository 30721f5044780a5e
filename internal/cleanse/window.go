package cleanse

// window.go implements the two partitioned computations the rules need:
//
//   - "most recent wins" deduplication (pick one record per key)
//   - "pair with next in group" effective dating (end = next start - 1 day)
//
// Both are an explicit grouping map (key -> records in input order)
// followed by a linear scan of each group.

import (
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// partition groups items by key. Keys are returned in first-seen order and
// each group keeps the input order of its members. Items for which key
// reports false are dropped.
func partition[T any, K comparable](items []T, key func(T) (K, bool)) ([]K, map[K][]T) {
	var order []K
	groups := make(map[K][]T)
	for _, item := range items {
		k, ok := key(item)
		if !ok {
			continue
		}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], item)
	}
	return order, groups
}

// LatestCustomers keeps one record per customer id: the one with the latest
// create date. Records with a NULL id are excluded.
//
// A NULL create date ranks below any date. Equal dates are resolved by
// comparing cst_key, then first name, last name, marital code and gender
// code byte-wise, smallest first. The rule only looks at record content,
// so any permutation of the same input selects the same records.
// The result is ordered by id.
func LatestCustomers(raws []RawCustomer) []RawCustomer {
	ids, groups := partition(raws, func(c RawCustomer) (int64, bool) {
		return c.ID.Int64, c.ID.Valid
	})
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	latest := make([]RawCustomer, 0, len(ids))
	for _, id := range ids {
		group := groups[id]
		best := group[0]
		for _, c := range group[1:] {
			if customerRanksAbove(c, best) {
				best = c
			}
		}
		latest = append(latest, best)
	}
	return latest
}

// customerRanksAbove reports whether a should be kept over b.
func customerRanksAbove(a, b RawCustomer) bool {
	switch {
	case a.CreateDate.Valid && !b.CreateDate.Valid:
		return true
	case !a.CreateDate.Valid && b.CreateDate.Valid:
		return false
	case a.CreateDate.Valid && !a.CreateDate.Time.Equal(b.CreateDate.Time):
		return a.CreateDate.Time.After(b.CreateDate.Time)
	}

	pairs := [][2]pgtype.Text{
		{a.Key, b.Key},
		{a.FirstName, b.FirstName},
		{a.LastName, b.LastName},
		{a.MaritalStatus, b.MaritalStatus},
		{a.Gender, b.Gender},
	}
	for _, p := range pairs {
		if c := compareText(p[0], p[1]); c != 0 {
			return c < 0
		}
	}
	return false
}

// compareText orders NULL after any value.
func compareText(a, b pgtype.Text) int {
	switch {
	case a.Valid && !b.Valid:
		return -1
	case !a.Valid && b.Valid:
		return 1
	case !a.Valid && !b.Valid:
		return 0
	}
	return strings.Compare(a.String, b.String)
}

// DeriveEndDates sets each product's EndDate to the day before the start of
// the next version of the same product key, ordered by start date. The last
// version of each key stays open ended (NULL).
//
// NULL start dates sort first and equal start dates are ordered by id. All
// NULL keys form a single group. The returned slice keeps the input order.
func DeriveEndDates(products []Product) []Product {
	out := make([]Product, len(products))
	copy(out, products)

	positions := make([]int, len(out))
	for i := range positions {
		positions[i] = i
	}

	_, groups := partition(positions, func(i int) (pgtype.Text, bool) {
		return out[i].Key, true
	})

	for _, group := range groups {
		sort.SliceStable(group, func(x, y int) bool {
			return productStartsBefore(out[group[x]], out[group[y]])
		})
		for n, pos := range group {
			out[pos].EndDate = pgtype.Date{}
			if n+1 == len(group) {
				continue
			}
			next := out[group[n+1]].StartDate
			if next.Valid {
				out[pos].EndDate = pgtype.Date{Time: next.Time.AddDate(0, 0, -1), Valid: true}
			}
		}
	}
	return out
}

func productStartsBefore(a, b Product) bool {
	switch {
	case !a.StartDate.Valid && b.StartDate.Valid:
		return true
	case a.StartDate.Valid && !b.StartDate.Valid:
		return false
	case a.StartDate.Valid && !a.StartDate.Time.Equal(b.StartDate.Time):
		return a.StartDate.Time.Before(b.StartDate.Time)
	}
	if a.ID.Valid != b.ID.Valid {
		return !a.ID.Valid
	}
	return a.ID.Int64 < b.ID.Int64
}
