package main

import "ecomapa/cmd/client/cmd"

func main() {
	cmd.Execute()
}
