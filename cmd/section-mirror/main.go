package main

import "section-mirror/cmd"

func main() {
	cmd.Execute()
}
