// Package cleanse holds the bronze-to-silver rule engine: the record
// shapes of both layers and the pure functions that project raw records
// into cleansed ones.
//
// Nothing in this package performs I/O or logging. Every function is a
// projection from its input to a newly built output; raw records are never
// mutated and cleansed records keep no reference to their source.
//
// Nullable columns use pgtype values (Valid=false means NULL) so records can
// be written by either storage backend without another conversion layer.
package cleanse

import "github.com/jackc/pgx/v5/pgtype"

// RawCustomer is a row of bronze.crm_cust_info.
type RawCustomer struct {
	ID            pgtype.Int8
	Key           pgtype.Text
	FirstName     pgtype.Text
	LastName      pgtype.Text
	MaritalStatus pgtype.Text
	Gender        pgtype.Text
	CreateDate    pgtype.Date
}

// Customer is a row of silver.crm_cust_info.
type Customer struct {
	ID            int64
	Key           pgtype.Text
	FirstName     pgtype.Text
	LastName      pgtype.Text
	MaritalStatus string
	Gender        string
	CreateDate    pgtype.Date
}

// RawProduct is a row of bronze.crm_prd_info.
// Key is the composite "CO-RF-FR-R92B-58" style key: category then product code.
type RawProduct struct {
	ID        pgtype.Int8
	Key       pgtype.Text
	Name      pgtype.Text
	Cost      pgtype.Int8
	Line      pgtype.Text
	StartDate pgtype.Timestamp
	EndDate   pgtype.Timestamp
}

// Product is a row of silver.crm_prd_info.
type Product struct {
	ID         pgtype.Int8
	CategoryID pgtype.Text
	Key        pgtype.Text
	Name       pgtype.Text
	Cost       int64
	Line       string
	StartDate  pgtype.Date
	EndDate    pgtype.Date
}

// RawSalesLine is a row of bronze.crm_sales_details.
// Dates arrive as yyyymmdd integers.
type RawSalesLine struct {
	OrderNumber pgtype.Text
	ProductKey  pgtype.Text
	CustomerID  pgtype.Int8
	OrderDate   pgtype.Int8
	ShipDate    pgtype.Int8
	DueDate     pgtype.Int8
	Sales       pgtype.Float8
	Quantity    pgtype.Int8
	Price       pgtype.Float8
}

// SalesLine is a row of silver.crm_sales_details.
type SalesLine struct {
	OrderNumber pgtype.Text
	ProductKey  pgtype.Text
	CustomerID  pgtype.Int8
	OrderDate   pgtype.Date
	ShipDate    pgtype.Date
	DueDate     pgtype.Date
	Sales       pgtype.Float8
	Quantity    pgtype.Int8
	Price       pgtype.Float8
}

// RawErpCustomer is a row of bronze.erp_cust_az12.
type RawErpCustomer struct {
	CID       pgtype.Text
	BirthDate pgtype.Date
	Gender    pgtype.Text
}

// ErpCustomer is a row of silver.erp_cust_az12.
type ErpCustomer struct {
	CID       pgtype.Text
	BirthDate pgtype.Date
	Gender    string
}

// RawErpLocation is a row of bronze.erp_loc_a101.
type RawErpLocation struct {
	CID     pgtype.Text
	Country pgtype.Text
}

// ErpLocation is a row of silver.erp_loc_a101.
type ErpLocation struct {
	CID     pgtype.Text
	Country string
}

// RawErpCategory is a row of bronze.erp_px_cat_g1v2.
type RawErpCategory struct {
	ID          pgtype.Text
	Category    pgtype.Text
	Subcategory pgtype.Text
	Maintenance pgtype.Text
}

// ErpCategory is a row of silver.erp_px_cat_g1v2.
type ErpCategory struct {
	ID          pgtype.Text
	Category    pgtype.Text
	Subcategory pgtype.Text
	Maintenance pgtype.Text
}
