package tables

import (
	"github.com/JonMunkholm/silver/internal/cleanse"
	"github.com/JonMunkholm/silver/internal/core"
)

var (
	erpCustomerColumns = []string{"cid", "bdate", "gen"}
	erpLocationColumns = []string{"cid", "cntry"}
	erpCategoryColumns = []string{"id", "cat", "subcat", "maintenance"}
)

func init() {
	registerErpCustomers()
	registerErpLocations()
	registerErpCategories()
}

func registerErpCustomers() {
	core.Register(core.StageDefinition{
		Info: core.StageInfo{
			Key:   "erp_cust_az12",
			Layer: core.LayerSilver,
			Group: groupERP,
			Label: "Customer Demographics",
			Order: orderErpCustomers,
		},
		Extract:       core.FromTable("erp_cust_az12", erpCustomerColumns),
		Transform:     core.Cleanse(decodeErpCustomer, cleanErpCustomers, encodeErpCustomer),
		TargetColumns: erpCustomerColumns,
	})
}

// cleanErpCustomers judges birth dates against the runner's clock.
func cleanErpCustomers(raws []cleanse.RawErpCustomer, env core.Env) []cleanse.ErpCustomer {
	return cleanse.CleanseErpCustomers(raws, env.Now())
}

func decodeErpCustomer(row []any) cleanse.RawErpCustomer {
	return cleanse.RawErpCustomer{
		CID:       core.TextValue(row[0]),
		BirthDate: core.DateValue(row[1]),
		Gender:    core.TextValue(row[2]),
	}
}

func encodeErpCustomer(c cleanse.ErpCustomer) []any {
	return []any{c.CID, c.BirthDate, c.Gender}
}

func registerErpLocations() {
	core.Register(core.StageDefinition{
		Info: core.StageInfo{
			Key:   "erp_loc_a101",
			Layer: core.LayerSilver,
			Group: groupERP,
			Label: "Customer Locations",
			Order: orderErpLocations,
		},
		Extract:       core.FromTable("erp_loc_a101", erpLocationColumns),
		Transform:     core.Cleanse(decodeErpLocation, setRule(cleanse.CleanseErpLocations), encodeErpLocation),
		TargetColumns: erpLocationColumns,
	})
}

func decodeErpLocation(row []any) cleanse.RawErpLocation {
	return cleanse.RawErpLocation{
		CID:     core.TextValue(row[0]),
		Country: core.TextValue(row[1]),
	}
}

func encodeErpLocation(l cleanse.ErpLocation) []any {
	return []any{l.CID, l.Country}
}

func registerErpCategories() {
	core.Register(core.StageDefinition{
		Info: core.StageInfo{
			Key:   "erp_px_cat_g1v2",
			Layer: core.LayerSilver,
			Group: groupERP,
			Label: "Product Categories",
			Order: orderErpCategories,
		},
		Extract:       core.FromTable("erp_px_cat_g1v2", erpCategoryColumns),
		Transform:     core.Cleanse(decodeErpCategory, setRule(cleanse.CleanseErpCategories), encodeErpCategory),
		TargetColumns: erpCategoryColumns,
	})
}

func decodeErpCategory(row []any) cleanse.RawErpCategory {
	return cleanse.RawErpCategory{
		ID:          core.TextValue(row[0]),
		Category:    core.TextValue(row[1]),
		Subcategory: core.TextValue(row[2]),
		Maintenance: core.TextValue(row[3]),
	}
}

func encodeErpCategory(c cleanse.ErpCategory) []any {
	return []any{c.ID, c.Category, c.Subcategory, c.Maintenance}
}
