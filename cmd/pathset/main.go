package main

import (
	"shanhu.io/pathset/pathsetbin"
)

func main() { pathsetbin.Main() }
