// Command mailcheck validates email addresses and sending domains.
package main

import "github.com/synqronlabs/mailcheck/cli"

func main() {
	cli.Execute()
}
