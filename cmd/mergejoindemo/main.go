package main

import "github.com/kasuganosora/mergejoin/cmd/mergejoindemo/commands"

func main() {
	commands.Execute()
}
