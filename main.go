package main

import (
	"os"

	"github.com/QL1STY/Badminton-IPBA-Project/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
