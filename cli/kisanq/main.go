package main

import (
	"os"

	kisanqcmder "github.com/openkisan/kisanq/cmd/kisanq"
)

func main() {
	cmd := kisanqcmder.NewKisanqCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
