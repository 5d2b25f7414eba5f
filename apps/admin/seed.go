package main

import (
	"github.com/jukulab/hansei/core"
	"github.com/jukulab/hansei/storage/database"
)

func (cli *commandLine) seed() error {
	return database.Seed(cli.db, core.Conf.DataDir)
}
