// Command podo manages declarative PostgreSQL schema migrations: it
// computes the changes needed to reach a declared schema and applies them
// to a database as an ordered, reversible history.
package main

import "github.com/podo/podo/cmd"

func main() {
	cmd.Execute()
}
