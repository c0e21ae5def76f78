// Command vtkconverter inspects, transforms and exports VTK mesh tallies.
package main

import "github.com/hupe1980/vtkconverter/internal/cli"

func main() {
	cli.Execute()
}
