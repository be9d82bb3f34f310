package main

import (
	"os"

	"github.com/RicheySon/smartcart-akedo/smartcartservice"
)

func main() {
	if err := smartcartservice.Run(); err != nil {
		os.Exit(1)
	}
}
