/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/ssargent/datagen/cmd/datagen/cmd"

func main() {
	cmd.Execute()
}
