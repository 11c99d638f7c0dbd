package main

import "github.com/waferlab/mdmreport/cmd"

func main() {
	cmd.Execute()
}
