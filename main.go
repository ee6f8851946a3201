package main

import "github.com/simseed/simseed/cmd"

func main() {
	cmd.Execute()
}
