// Package core runs warehouse loads.
//
// A load copies one layer of the warehouse from its source: CSV extracts
// feed the bronze layer, bronze tables feed the silver layer. This package
// knows nothing about individual tables; those register themselves from
// package tables.
//
// # Stage Registry
//
// Stages are registered at init time using [Register]. Each
// [StageDefinition] says where its rows come from, how they are cleansed
// and which columns of the target table they fill:
//
//	core.Register(core.StageDefinition{
//	    Info:          core.StageInfo{Key: "crm_cust_info", Layer: core.LayerSilver, Group: "CRM", Label: "Customers", Order: 10},
//	    Extract:       core.FromTable("crm_cust_info", rawCustomerColumns),
//	    Transform:     core.Cleanse(decodeCustomer, cleanCustomers, encodeCustomer),
//	    TargetColumns: customerColumns,
//	})
//
// # Runner
//
// [Runner.Run] executes the stages of a layer in order. Every stage is
// extract, transform, then [Store.Replace], which truncates and refills the
// target table in one transaction. Each stage is timed and reported as a
// [StageResult]; failures carry a [StageError] with a support code and, for
// Postgres, the SQLSTATE. By default the first failure halts the run.
//
// # Error Handling
//
// Technical errors are mapped to short messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - DB001-DB009: Database errors (constraints, connections, privileges)
//   - VAL001-VAL005: Value and column errors
//   - FILE001-FILE005: Source extract errors
//   - TBL001: Missing tables
//   - RUN001-RUN002: Cancelled or timed out loads
package core
