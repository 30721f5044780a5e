package core

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registry   = make(map[string]StageDefinition)
	registryMu sync.RWMutex
)

// Register adds a stage definition to the registry.
// Panics if a stage with the same layer and key is already registered.
func Register(def StageDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	id := def.Info.ID()
	if _, exists := registry[id]; exists {
		panic(fmt.Sprintf("stage already registered: %s", id))
	}
	if def.Extract == nil {
		panic(fmt.Sprintf("stage %s has no extract function", id))
	}
	if len(def.TargetColumns) == 0 {
		panic(fmt.Sprintf("stage %s has no target columns", id))
	}

	registry[id] = def
}

// Get returns a stage definition by layer and key.
// Returns false if not found.
func Get(layer Layer, key string) (StageDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[StageInfo{Layer: layer, Key: key}.ID()]
	return def, ok
}

// All returns all registered stage definitions.
// Sorted by layer, then by order, then by key.
func All() []StageDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]StageDefinition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Info.Layer != result[j].Info.Layer {
			return result[i].Info.Layer < result[j].Info.Layer
		}
		return stageBefore(result[i], result[j])
	})

	return result
}

// ByLayer returns the stages of one layer in load order.
func ByLayer(layer Layer) []StageDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	var result []StageDefinition
	for _, def := range registry {
		if def.Info.Layer == layer {
			result = append(result, def)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return stageBefore(result[i], result[j])
	})

	return result
}

// Groups returns the group names of a layer in load order.
func Groups(layer Layer) []string {
	var groups []string
	seen := make(map[string]bool)
	for _, def := range ByLayer(layer) {
		if !seen[def.Info.Group] {
			seen[def.Info.Group] = true
			groups = append(groups, def.Info.Group)
		}
	}
	return groups
}

// StageCount returns the number of registered stages.
func StageCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Clear removes all registered stages.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]StageDefinition)
}

func stageBefore(a, b StageDefinition) bool {
	if a.Info.Order != b.Info.Order {
		return a.Info.Order < b.Info.Order
	}
	return a.Info.Key < b.Info.Key
}
