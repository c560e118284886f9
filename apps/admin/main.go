package main

import (
	"context"
	"log"
	"os"

	"github.com/mediotec/portal-api/core"
	"github.com/mediotec/portal-api/storage/mongodb"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	ctx := context.Background()

	// set up DB
	db, err := mongodb.Open(ctx, core.Conf)
	errAndDie(err)
	defer func() { _ = db.Close(ctx) }()

	// start CLI
	cli := commandLine{
		usrRepo: mongodb.NewUserRepository(db),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
