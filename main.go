package main

import (
	"os"

	"sqlchat/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
