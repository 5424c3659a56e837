// Command pager serves the demo products API over the relational, hosted
// search and self-hosted search backends.
package main

import (
	"fmt"
	"os"

	"github.com/ncobase/pager/cmd/pager/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
