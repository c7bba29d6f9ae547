// Package main provides the entry point for the Receita server.
package main

func main() {
	Execute()
}
