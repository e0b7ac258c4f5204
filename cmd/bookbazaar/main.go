package main

import "os"

func main() {
	if err := Execute(); err != nil {
		// Whatever failed has already been surfaced through the
		// notification sink or the store error fields.
		os.Exit(1)
	}
}
