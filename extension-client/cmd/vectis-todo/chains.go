package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/vectis-labs/vectis/extension-client/chains"
)

func chainsList(_ *cli.Context) error {
	for _, id := range chains.ChainIDs() {
		network, err := chains.Lookup(id)
		if err != nil {
			return err
		}

		fmt.Printf(
			"%s\trpc=%s\tgas_price=%s\tcode_id=%d\n",
			network.ChainID(),
			network.RPCAddr(),
			network.GasPrice.String(),
			network.CodeID,
		)
	}

	return nil
}
