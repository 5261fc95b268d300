// Command screenshot captures a full-page PNG of a URL into an auto-numbered file.
package main

import "github.com/f4ah6o/devshot/internal/cli"

func main() {
	cli.ExecuteScreenshot()
}
