package main

import "github.com/dmitrymomot/idlesession/cmd/idlesession/cmd"

func main() {
	cmd.Execute()
}
