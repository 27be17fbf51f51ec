package main

import "github.com/example/toyoko-monitor/cmd"

func main() {
	cmd.Execute()
}
