package main

import "github.com/Tiliavir/weekly-punch/cmd"

func main() {
	cmd.Execute()
}
