// SPDX-License-Identifier: MPL-2.0

package main

import cmd "toltool/cmd/toltool"

func main() {
	cmd.Execute()
}
