package main

import "github.com/Mohsinsiddi/w3abi/cmd"

func main() {
	cmd.Execute()
}
