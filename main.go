package main

import "github.com/jmehdipour/invest-backoffice/cmd"

func main() {
	cmd.Execute()
}
