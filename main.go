// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/rnanosaur/nanosaur-cli/cmd/nanosaur"

func main() {
	cmd.Execute()
}
