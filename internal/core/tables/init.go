// Package tables registers all warehouse stages with the core registry.
// Import this package to ensure all stages are registered.
package tables

// This file exists to provide a single import point.
// Each table file uses init() to register its stages.

import "github.com/JonMunkholm/silver/internal/core"

// Load order within a layer. CRM tables load before ERP tables.
const (
	orderCustomers = 10 * (iota + 1)
	orderProducts
	orderSales
	orderErpCustomers
	orderErpLocations
	orderErpCategories
)

const (
	groupCRM = "CRM"
	groupERP = "ERP"
)

// setRule adapts a set-level rule that does not need the stage environment.
func setRule[R, C any](rule func([]R) []C) func([]R, core.Env) []C {
	return func(raws []R, _ core.Env) []C {
		return rule(raws)
	}
}
