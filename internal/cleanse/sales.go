package cleanse

import (
	"math"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// ParseIntDate converts a yyyymmdd integer into a date.
// Zero, anything that is not exactly eight digits and impossible calendar
// dates (20240230) all yield NULL.
func ParseIntDate(v pgtype.Int8) pgtype.Date {
	if !v.Valid || v.Int64 < 10000000 || v.Int64 > 99999999 {
		return pgtype.Date{}
	}
	t, err := time.Parse("20060102", strconv.FormatInt(v.Int64, 10))
	if err != nil {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: t, Valid: true}
}

// CleanseSalesLine validates the integer dates and reconciles sales, quantity
// and price.
//
// Sales is recomputed as quantity * |price| when it is NULL, not positive, or
// disagrees with that product. Price is derived as sales / quantity when it is
// NULL or not positive; a zero or NULL quantity leaves it NULL. Price is
// derived from the reconciled sales so the two always agree on output.
func CleanseSalesLine(raw RawSalesLine) SalesLine {
	sales := reconcileSales(raw.Sales, raw.Quantity, raw.Price)
	return SalesLine{
		OrderNumber: raw.OrderNumber,
		ProductKey:  raw.ProductKey,
		CustomerID:  raw.CustomerID,
		OrderDate:   ParseIntDate(raw.OrderDate),
		ShipDate:    ParseIntDate(raw.ShipDate),
		DueDate:     ParseIntDate(raw.DueDate),
		Sales:       sales,
		Quantity:    raw.Quantity,
		Price:       reconcilePrice(raw.Price, sales, raw.Quantity),
	}
}

// CleanseSalesLines cleanses every sales line. Rows are never dropped.
func CleanseSalesLines(raws []RawSalesLine) []SalesLine {
	out := make([]SalesLine, len(raws))
	for i, raw := range raws {
		out[i] = CleanseSalesLine(raw)
	}
	return out
}

// expectedSales is quantity * |price|, NULL when either side is NULL.
func expectedSales(qty pgtype.Int8, price pgtype.Float8) pgtype.Float8 {
	if !qty.Valid || !price.Valid {
		return pgtype.Float8{}
	}
	return pgtype.Float8{Float64: float64(qty.Int64) * math.Abs(price.Float64), Valid: true}
}

func reconcileSales(sales pgtype.Float8, qty pgtype.Int8, price pgtype.Float8) pgtype.Float8 {
	expected := expectedSales(qty, price)
	switch {
	case !sales.Valid, sales.Float64 <= 0:
		return expected
	case expected.Valid && sales.Float64 != expected.Float64:
		return expected
	}
	return sales
}

func reconcilePrice(price, sales pgtype.Float8, qty pgtype.Int8) pgtype.Float8 {
	if price.Valid && price.Float64 > 0 {
		return price
	}
	if !sales.Valid || !qty.Valid || qty.Int64 == 0 {
		return pgtype.Float8{}
	}
	return pgtype.Float8{Float64: sales.Float64 / float64(qty.Int64), Valid: true}
}
