package main

import "github.com/mfontan/ironlog/cmd"

func main() {
	cmd.Execute()
}
