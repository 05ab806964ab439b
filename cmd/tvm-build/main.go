package main

import "github.com/goplus/tvmbuild/cmd/tvm-build/internal"

func main() {
	internal.Execute()
}
