package tables

import "github.com/JonMunkholm/silver/internal/core"

// Bronze stages copy the source system extracts into the bronze layer as-is.
// Paths are relative to BRONZE_SOURCE_DIR.

func init() {
	registerBronze("crm_cust_info", groupCRM, "Customers", orderCustomers,
		"source_crm/cust_info.csv", []core.FieldSpec{
			{Name: "cst_id", Type: core.FieldInt, Required: true},
			{Name: "cst_key", Type: core.FieldText, Required: true},
			{Name: "cst_firstname", Type: core.FieldText},
			{Name: "cst_lastname", Type: core.FieldText},
			{Name: "cst_marital_status", Type: core.FieldText},
			{Name: "cst_gndr", Type: core.FieldText},
			{Name: "cst_create_date", Type: core.FieldDate},
		})

	registerBronze("crm_prd_info", groupCRM, "Products", orderProducts,
		"source_crm/prd_info.csv", []core.FieldSpec{
			{Name: "prd_id", Type: core.FieldInt, Required: true},
			{Name: "prd_key", Type: core.FieldText, Required: true},
			{Name: "prd_nm", Type: core.FieldText},
			{Name: "prd_cost", Type: core.FieldInt},
			{Name: "prd_line", Type: core.FieldText},
			{Name: "prd_start_dt", Type: core.FieldTimestamp},
			{Name: "prd_end_dt", Type: core.FieldTimestamp},
		})

	registerBronze("crm_sales_details", groupCRM, "Sales Details", orderSales,
		"source_crm/sales_details.csv", []core.FieldSpec{
			{Name: "sls_ord_num", Type: core.FieldText, Required: true},
			{Name: "sls_prd_key", Type: core.FieldText, Required: true},
			{Name: "sls_cust_id", Type: core.FieldInt, Required: true},
			{Name: "sls_order_dt", Type: core.FieldInt},
			{Name: "sls_ship_dt", Type: core.FieldInt},
			{Name: "sls_due_dt", Type: core.FieldInt},
			{Name: "sls_sales", Type: core.FieldNumeric},
			{Name: "sls_quantity", Type: core.FieldInt},
			{Name: "sls_price", Type: core.FieldNumeric},
		})

	registerBronze("erp_cust_az12", groupERP, "Customer Demographics", orderErpCustomers,
		"source_erp/CUST_AZ12.csv", []core.FieldSpec{
			{Name: "cid", Type: core.FieldText, Required: true},
			{Name: "bdate", Type: core.FieldDate},
			{Name: "gen", Type: core.FieldText},
		})

	registerBronze("erp_loc_a101", groupERP, "Customer Locations", orderErpLocations,
		"source_erp/LOC_A101.csv", []core.FieldSpec{
			{Name: "cid", Type: core.FieldText, Required: true},
			{Name: "cntry", Type: core.FieldText},
		})

	registerBronze("erp_px_cat_g1v2", groupERP, "Product Categories", orderErpCategories,
		"source_erp/PX_CAT_G1V2.csv", []core.FieldSpec{
			{Name: "id", Type: core.FieldText, Required: true},
			{Name: "cat", Type: core.FieldText},
			{Name: "subcat", Type: core.FieldText},
			{Name: "maintenance", Type: core.FieldText},
		})
}

func registerBronze(key, group, label string, order int, path string, fields []core.FieldSpec) {
	core.Register(core.StageDefinition{
		Info: core.StageInfo{
			Key:   key,
			Layer: core.LayerBronze,
			Group: group,
			Label: label,
			Order: order,
		},
		Extract:       core.FromCSV(path, fields),
		TargetColumns: core.Columns(fields),
	})
}
