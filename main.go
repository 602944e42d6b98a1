package main

import "github.com/chrisdamba/deliverymap/cmd"

func main() {
	cmd.Execute()
}
