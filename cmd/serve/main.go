// Command serve serves a local directory over HTTP for previewing sites.
package main

import "github.com/f4ah6o/devshot/internal/cli"

func main() {
	cli.ExecuteServe()
}
