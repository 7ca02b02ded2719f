package main

import "github.com/augleao/frontend-dev-sub000/internal/cli"

func main() {
	cli.Execute()
}
