// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/hashlog/hashlog/cmd/hashlog"

func main() {
	cmd.Execute()
}
