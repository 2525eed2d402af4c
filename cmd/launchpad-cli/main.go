/*
Copyright © 2024 pando
*/
package main

import "github.com/pandodao/launchpad/cmd/launchpad-cli/cmd"

func main() {
	cmd.Execute()
}
