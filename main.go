package main

import "github.com/seo-optimizer/onpage/cmd"

func main() {
	cmd.Execute()
}
