// Command loadsilver cleanses the bronze layer into the silver layer.
package main

import (
	"os"

	"github.com/JonMunkholm/silver/internal/app"
	"github.com/JonMunkholm/silver/internal/core"
	_ "github.com/JonMunkholm/silver/internal/core/tables" // Register all stages
)

func main() {
	os.Exit(app.Main(core.LayerSilver))
}
