package main

import "github.com/scttfrdmn/labstop/cmd"

func main() {
	cmd.Execute()
}
