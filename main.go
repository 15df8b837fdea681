package main

import "guest-manager/cmd"

func main() {
	cmd.Execute()
}
