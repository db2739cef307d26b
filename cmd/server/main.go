package main

import "github.com/guestlist/server/cmd/server/cmd"

func main() {
	cmd.Execute()
}
