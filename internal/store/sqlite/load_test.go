package sqlite_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/silver/internal/core"
	_ "github.com/JonMunkholm/silver/internal/core/tables" // Register all stages
	"github.com/JonMunkholm/silver/internal/store/sqlite"
)

var sources = map[string]string{
	"source_crm/cust_info.csv": "cst_id,cst_key,cst_firstname,cst_lastname,cst_marital_status,cst_gndr,cst_create_date\n" +
		"11000,AW00011000, Jon ,Yang,M,M,2025-10-05\n" +
		"11000,AW00011000,Jon,Yang ,S,M,2025-10-06\n" +
		"11001,AW00011001,Eugene,Huang,s, f ,2025-10-06\n" +
		",AW_ORPHAN,No,Id,M,M,2025-10-06\n",
	"source_crm/prd_info.csv": "prd_id,prd_key,prd_nm,prd_cost,prd_line,prd_start_dt,prd_end_dt\n" +
		"210,CO-RF-FR-R92B-58,HL Road Frame,,R,2003-07-01,\n" +
		"211,CO-RF-FR-R92B-58,HL Road Frame,12,R,2004-07-01,\n",
	"source_crm/sales_details.csv": "sls_ord_num,sls_prd_key,sls_cust_id,sls_order_dt,sls_ship_dt,sls_due_dt,sls_sales,sls_quantity,sls_price\n" +
		"SO001,FR-RT1,11000,20240101,0,20240110,,5,10\n" +
		"SO002,FR-RT1,11001,20240102,20240105,20240110,30,2,-15\n",
	"source_erp/CUST_AZ12.csv": "CID,BDATE,GEN\n" +
		"NASAW00011000,1971-10-06,Male\n" +
		"AW00011001,2099-01-01,F\n",
	"source_erp/LOC_A101.csv": "CID,CNTRY\n" +
		"AW-00011000,DE\n" +
		"AW-00011001,\n",
	"source_erp/PX_CAT_G1V2.csv": "ID,CAT,SUBCAT,MAINTENANCE\n" +
		"AC_BR,Accessories,Bike Racks,Yes\n",
}

var schemas = core.Schemas{Bronze: "bronze", Silver: "silver"}

func setup(t *testing.T) (*sqlite.Store, core.RunnerConfig) {
	t.Helper()
	dir := t.TempDir()
	for name, data := range sources {
		path := filepath.Join(dir, "datasets", filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	}

	store, err := sqlite.Open(context.Background(), filepath.Join(dir, "warehouse.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.ApplySchema(context.Background(), schemas))

	return store, core.RunnerConfig{
		Schemas:   schemas,
		SourceDir: filepath.Join(dir, "datasets"),
		Now:       func() time.Time { return time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC) },
	}
}

func run(t *testing.T, store *sqlite.Store, cfg core.RunnerConfig, layer core.Layer) core.RunResult {
	t.Helper()
	result := core.NewRunner(store, cfg).Run(context.Background(), layer)
	require.True(t, result.Success(), "%s load failed: %v", layer, result.Err())
	return result
}

// snapshot renders every silver table so two runs can be compared.
func snapshot(t *testing.T, store *sqlite.Store) string {
	t.Helper()
	var out string
	for _, def := range core.ByLayer(core.LayerSilver) {
		rows, err := store.Read(context.Background(), def.Target(schemas), def.TargetColumns)
		require.NoError(t, err)
		out += fmt.Sprintf("%s=%v\n", def.Info.Key, rows)
	}
	return out
}

func TestLoad_BronzeThenSilver(t *testing.T) {
	store, cfg := setup(t)

	bronze := run(t, store, cfg, core.LayerBronze)
	require.Len(t, bronze.Stages, 6)
	assert.EqualValues(t, 4, bronze.Stages[0].RowsWritten, "bronze keeps raw duplicates")

	silver := run(t, store, cfg, core.LayerSilver)
	require.Len(t, silver.Stages, 6)

	db := store.DB()

	t.Run("customers deduplicated", func(t *testing.T) {
		rows, err := db.Query(`SELECT cst_id, cst_firstname, cst_lastname, cst_marital_status, cst_gndr
			FROM silver_crm_cust_info ORDER BY cst_id`)
		require.NoError(t, err)
		defer rows.Close()

		var got []string
		for rows.Next() {
			var id int64
			var first, last, marital, gender string
			require.NoError(t, rows.Scan(&id, &first, &last, &marital, &gender))
			got = append(got, fmt.Sprintf("%d|%s|%s|%s|%s", id, first, last, marital, gender))
		}
		require.NoError(t, rows.Err())
		assert.Equal(t, []string{
			"11000|Jon|Yang|Single|Male",
			"11001|Eugene|Huang|Single|Female",
		}, got)
	})

	t.Run("product end dates", func(t *testing.T) {
		var catID, key string
		var cost int64
		var line string
		require.NoError(t, db.QueryRow(`SELECT cat_id, prd_key, prd_cost, prd_line
			FROM silver_crm_prd_info WHERE prd_id = 210`).Scan(&catID, &key, &cost, &line))
		assert.Equal(t, "CO_RF", catID)
		assert.Equal(t, "FR-R92B-58", key)
		assert.Zero(t, cost)
		assert.Equal(t, "Road", line)

		rows, err := store.Read(context.Background(),
			core.TableRef{Schema: "silver", Name: "crm_prd_info"}, []string{"prd_id", "prd_end_dt"})
		require.NoError(t, err)
		ends := map[int64]string{}
		for _, r := range rows {
			end := core.DateValue(r[1])
			if end.Valid {
				ends[core.Int8Value(r[0]).Int64] = end.Time.Format("2006-01-02")
			} else {
				ends[core.Int8Value(r[0]).Int64] = "open"
			}
		}
		assert.Equal(t, map[int64]string{210: "2004-06-30", 211: "open"}, ends)
	})

	t.Run("sales recomputed", func(t *testing.T) {
		rows, err := store.Read(context.Background(),
			core.TableRef{Schema: "silver", Name: "crm_sales_details"},
			[]string{"sls_ord_num", "sls_ship_dt", "sls_sales", "sls_price"})
		require.NoError(t, err)
		require.Len(t, rows, 2)

		byOrder := map[string][]any{}
		for _, r := range rows {
			byOrder[core.TextValue(r[0]).String] = r
		}
		so1 := byOrder["SO001"]
		assert.False(t, core.DateValue(so1[1]).Valid, "ship date 0 loads as NULL")
		assert.Equal(t, 50.0, core.Float8Value(so1[2]).Float64)
		assert.Equal(t, 10.0, core.Float8Value(so1[3]).Float64)

		so2 := byOrder["SO002"]
		assert.Equal(t, 30.0, core.Float8Value(so2[2]).Float64)
		assert.Equal(t, 15.0, core.Float8Value(so2[3]).Float64, "negative price made positive")
	})

	t.Run("erp tables", func(t *testing.T) {
		var cid, gen string
		require.NoError(t, db.QueryRow(`SELECT cid, gen FROM silver_erp_cust_az12 WHERE cid = 'AW00011000'`).Scan(&cid, &gen))
		assert.Equal(t, "Male", gen)

		var future any
		require.NoError(t, db.QueryRow(`SELECT bdate FROM silver_erp_cust_az12 WHERE cid = 'AW00011001'`).Scan(&future))
		assert.Nil(t, future, "birth date after today is NULL")

		var country string
		require.NoError(t, db.QueryRow(`SELECT cntry FROM silver_erp_loc_a101 WHERE cid = 'AW00011000'`).Scan(&country))
		assert.Equal(t, "Germany", country)
		require.NoError(t, db.QueryRow(`SELECT cntry FROM silver_erp_loc_a101 WHERE cid = 'AW00011001'`).Scan(&country))
		assert.Equal(t, "n/a", country)

		var stamped int
		require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM silver_erp_px_cat_g1v2 WHERE dwh_create_date IS NOT NULL`).Scan(&stamped))
		assert.Equal(t, 1, stamped)
	})
}

func TestLoad_SilverIsIdempotent(t *testing.T) {
	store, cfg := setup(t)
	run(t, store, cfg, core.LayerBronze)

	run(t, store, cfg, core.LayerSilver)
	first := snapshot(t, store)

	run(t, store, cfg, core.LayerSilver)
	second := snapshot(t, store)

	assert.Equal(t, first, second)
}

func TestLoad_MissingSourceContinues(t *testing.T) {
	store, cfg := setup(t)
	require.NoError(t, os.Remove(filepath.Join(cfg.SourceDir, "source_erp", "LOC_A101.csv")))
	cfg.Policy = core.ContinueOnError

	result := core.NewRunner(store, cfg).Run(context.Background(), core.LayerBronze)

	require.False(t, result.Success())
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "erp_loc_a101", result.Failed[0].Stage)
	assert.Equal(t, "FILE001", result.Failed[0].Code)

	var n int
	require.NoError(t, store.DB().QueryRow(`SELECT COUNT(*) FROM bronze_erp_px_cat_g1v2`).Scan(&n))
	assert.Equal(t, 1, n, "stages after the failure still load")
}
