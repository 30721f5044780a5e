package tables

import (
	"github.com/JonMunkholm/silver/internal/cleanse"
	"github.com/JonMunkholm/silver/internal/core"
)

var (
	customerColumns = []string{
		"cst_id", "cst_key", "cst_firstname", "cst_lastname",
		"cst_marital_status", "cst_gndr", "cst_create_date",
	}
	rawProductColumns = []string{
		"prd_id", "prd_key", "prd_nm", "prd_cost", "prd_line", "prd_start_dt", "prd_end_dt",
	}
	productColumns = []string{
		"prd_id", "cat_id", "prd_key", "prd_nm", "prd_cost", "prd_line", "prd_start_dt", "prd_end_dt",
	}
	salesColumns = []string{
		"sls_ord_num", "sls_prd_key", "sls_cust_id", "sls_order_dt", "sls_ship_dt",
		"sls_due_dt", "sls_sales", "sls_quantity", "sls_price",
	}
)

func init() {
	registerCrmCustomers()
	registerCrmProducts()
	registerCrmSales()
}

func registerCrmCustomers() {
	core.Register(core.StageDefinition{
		Info: core.StageInfo{
			Key:   "crm_cust_info",
			Layer: core.LayerSilver,
			Group: groupCRM,
			Label: "Customers",
			Order: orderCustomers,
		},
		Extract:       core.FromTable("crm_cust_info", customerColumns),
		Transform:     core.Cleanse(decodeCustomer, setRule(cleanse.CleanseCustomers), encodeCustomer),
		TargetColumns: customerColumns,
	})
}

func decodeCustomer(row []any) cleanse.RawCustomer {
	return cleanse.RawCustomer{
		ID:            core.Int8Value(row[0]),
		Key:           core.TextValue(row[1]),
		FirstName:     core.TextValue(row[2]),
		LastName:      core.TextValue(row[3]),
		MaritalStatus: core.TextValue(row[4]),
		Gender:        core.TextValue(row[5]),
		CreateDate:    core.DateValue(row[6]),
	}
}

func encodeCustomer(c cleanse.Customer) []any {
	return []any{c.ID, c.Key, c.FirstName, c.LastName, c.MaritalStatus, c.Gender, c.CreateDate}
}

func registerCrmProducts() {
	core.Register(core.StageDefinition{
		Info: core.StageInfo{
			Key:   "crm_prd_info",
			Layer: core.LayerSilver,
			Group: groupCRM,
			Label: "Products",
			Order: orderProducts,
		},
		Extract:       core.FromTable("crm_prd_info", rawProductColumns),
		Transform:     core.Cleanse(decodeProduct, setRule(cleanse.CleanseProducts), encodeProduct),
		TargetColumns: productColumns,
	})
}

func decodeProduct(row []any) cleanse.RawProduct {
	return cleanse.RawProduct{
		ID:        core.Int8Value(row[0]),
		Key:       core.TextValue(row[1]),
		Name:      core.TextValue(row[2]),
		Cost:      core.Int8Value(row[3]),
		Line:      core.TextValue(row[4]),
		StartDate: core.TimestampValue(row[5]),
		EndDate:   core.TimestampValue(row[6]),
	}
}

func encodeProduct(p cleanse.Product) []any {
	return []any{p.ID, p.CategoryID, p.Key, p.Name, p.Cost, p.Line, p.StartDate, p.EndDate}
}

func registerCrmSales() {
	core.Register(core.StageDefinition{
		Info: core.StageInfo{
			Key:   "crm_sales_details",
			Layer: core.LayerSilver,
			Group: groupCRM,
			Label: "Sales Details",
			Order: orderSales,
		},
		Extract:       core.FromTable("crm_sales_details", salesColumns),
		Transform:     core.Cleanse(decodeSalesLine, setRule(cleanse.CleanseSalesLines), encodeSalesLine),
		TargetColumns: salesColumns,
	})
}

func decodeSalesLine(row []any) cleanse.RawSalesLine {
	return cleanse.RawSalesLine{
		OrderNumber: core.TextValue(row[0]),
		ProductKey:  core.TextValue(row[1]),
		CustomerID:  core.Int8Value(row[2]),
		OrderDate:   core.Int8Value(row[3]),
		ShipDate:    core.Int8Value(row[4]),
		DueDate:     core.Int8Value(row[5]),
		Sales:       core.Float8Value(row[6]),
		Quantity:    core.Int8Value(row[7]),
		Price:       core.Float8Value(row[8]),
	}
}

func encodeSalesLine(s cleanse.SalesLine) []any {
	return []any{
		s.OrderNumber, s.ProductKey, s.CustomerID,
		s.OrderDate, s.ShipDate, s.DueDate,
		s.Sales, s.Quantity, s.Price,
	}
}
