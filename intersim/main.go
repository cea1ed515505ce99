// Command intersim simulates the traffic through a four-way intersection.
package main

import "github.com/sarchlab/intersim/intersim/cmd"

func main() {
	cmd.Execute()
}
