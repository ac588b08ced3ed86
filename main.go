package main

import "github.com/dirsweep/dirsweep/cmd/dirsweep"

func main() { dirsweep.Execute() }
