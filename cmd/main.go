/*
 *  main.go
 *  cmd
 *
 *  Created by Haibao Tang on 10/16/26
 *  Copyright © 2026 Haibao Tang. All rights reserved.
 */

package main

import (
	"log"

	"github.com/op/go-logging"
	"github.com/tanghaibao/micropan"
)

// main is the entrypoint for the entire program, routes to commands
func main() {
	logging.SetBackend(micropan.BackendFormatter)
	err := micropan.Execute()
	if err != nil {
		log.Fatal(err)
	}
}
