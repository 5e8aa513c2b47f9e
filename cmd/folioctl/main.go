package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	log.SetPrefix("[folioctl]: ")
	log.SetFlags(0)

	_ = godotenv.Load()

	opts := &options{DocID: -1, Env: envOrDefault()}
	ctx := defineFlags(opts, os.Stdout)

	subcmd, err := ctx.Parse(os.Args)
	if err != nil {
		log.Fatalln(err)
	}

	// If the subcommand is nil, print the usage and exit
	if subcmd == nil {
		ctx.PrintUsage(os.Stdout)
		os.Exit(1)
	}

	subcmd.Handler()
}
