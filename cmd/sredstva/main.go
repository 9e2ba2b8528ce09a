package main

import "os"

func main() {
	opts := &RootOptions{}
	err := newRootCommand(opts).Execute()
	opts.Close()
	if err != nil {
		os.Exit(1)
	}
}
