package main

import "github.com/whoami669/my-bot/cmd"

func main() {
	cmd.Execute()
}
