package main

import (
	"log"
	"os"

	"github.com/carlmjohnson/versioninfo"
	"github.com/urfave/cli"

	"github.com/vectis-labs/vectis/extension-client/configs"
)

func main() {
	app := cli.NewApp()
	app.Flags = configs.Flags
	app.Version = versioninfo.Short()
	app.Name = "vectis-todo"
	app.Usage = "The vectis todo list demo"
	app.Description = "Connects a keyring wallet to a CosmWasm todo contract and serves it over http"

	app.Action = serve
	app.Commands = []cli.Command{
		{
			Name:   "serve",
			Usage:  "serve the todo application http api",
			Action: serve,
		},
		{
			Name:   "connect",
			Usage:  "connect the wallet and show the account state",
			Action: connect,
		},
		{
			Name:   "instantiate",
			Usage:  "instantiate a todo contract owned by the connected account",
			Action: instantiate,
		},
		{
			Name:    "todos",
			Aliases: []string{"t"},
			Usage:   "subcommand for the todo list of the connected account",
			Subcommands: []cli.Command{
				{
					Name:   "list",
					Usage:  "list the todos",
					Action: todosList,
				},
				{
					Name:      "add",
					Usage:     "add a todo",
					ArgsUsage: "DESCRIPTION",
					Action:    todosAdd,
				},
				{
					Name:      "delete",
					Usage:     "delete a todo",
					ArgsUsage: "ID",
					Action:    todosDelete,
				},
				{
					Name:      "update",
					Usage:     "update the description and/or status of a todo",
					ArgsUsage: "ID",
					Flags: []cli.Flag{
						cli.StringFlag{Name: "description", Usage: "new description"},
						cli.StringFlag{Name: "status", Usage: "to_do, in_progress, done or cancelled"},
					},
					Action: todosUpdate,
				},
			},
		},
		{
			Name:    "keys",
			Aliases: []string{"k"},
			Usage:   "subcommand for wallet key manage",
			Subcommands: []cli.Command{
				{
					Name:      "add",
					Usage:     "create a new key and print its mnemonic",
					ArgsUsage: "NAME",
					Action:    keysAdd,
				},
				{
					Name:      "restore",
					Usage:     "restore a key from its mnemonic",
					ArgsUsage: "NAME MNEMONIC",
					Action:    keysRestore,
				},
				{
					Name:   "list",
					Usage:  "list the keys with their address on the selected chain",
					Action: keysList,
				},
			},
		},
		{
			Name:   "chains",
			Usage:  "list the supported networks",
			Action: chainsList,
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatalln("Application failed.", "Message:", err)
	}
}
