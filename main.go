package main

import "github.com/bz888/stockchat/cmd"

func main() {
	cmd.Execute()
}
