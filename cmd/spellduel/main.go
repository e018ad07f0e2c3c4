package main

import (
	"github.com/mcoot/spellduel-go/internal/cli"
)

func main() {
	cli.Execute()
}
