// The main package for the newsharvest executable.
package main

import (
	"newsharvest/cmd"
)

func main() {
	cmd.Execute()
}
