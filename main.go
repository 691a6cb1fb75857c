package main

import "github.com/lendscope/loan-preview-client/cmd"

func main() {
	cmd.Execute()
}
