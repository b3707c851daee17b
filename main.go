// Command asm16 is the CLI entry point: it assembles 16-bit assembly
// source into a relocatable object description.
package main

import "github.com/Manu343726/asm16/cmd"

func main() {
	cmd.Execute()
}
