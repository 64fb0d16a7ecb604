// Command repo-sweeper is an interactive CLI for bulk-deleting GitHub
// repositories you no longer use.
package main

import "github.com/naka-gawa/repo-sweeper/cmd"

func main() {
	cmd.Execute()
}
