package main

import (
	"fmt"
	"log"

	"github.com/cosmos/cosmos-sdk/types/bech32"
	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/vectis-labs/vectis/extension-client/chains"
	"github.com/vectis-labs/vectis/extension-client/wallet/keyring"
)

func keysAdd(cliCtx *cli.Context) error {
	config, logger := loadConfig(cliCtx)

	keyName := cliCtx.Args().Get(0)
	if keyName == "" {
		keyName = config.Keyring.KeyName
	}

	kr, err := openKeyring(config)
	if err != nil {
		return err
	}

	record, mnemonic, err := keyring.AddKey(kr, keyName, keyring.DefaultCoinType)
	if err != nil {
		return err
	}

	logger.Info("key created", "name", record.Name)

	fmt.Printf("name: %s\nmnemonic: %s\n", record.Name, mnemonic)
	fmt.Println("write the mnemonic down, it is the only way to recover the key")

	return nil
}

func keysRestore(cliCtx *cli.Context) error {
	config, logger := loadConfig(cliCtx)

	keyName := cliCtx.Args().Get(0)
	mnemonic := cliCtx.Args().Get(1)
	if keyName == "" || mnemonic == "" {
		log.Fatalf("usage: keys restore NAME MNEMONIC")
	}

	kr, err := openKeyring(config)
	if err != nil {
		return err
	}

	record, err := keyring.RestoreKey(kr, keyName, mnemonic, keyring.DefaultCoinType)
	if err != nil {
		return err
	}

	logger.Info("key restored", "name", record.Name)

	return nil
}

func keysList(cliCtx *cli.Context) error {
	config, _ := loadConfig(cliCtx)

	network, err := chains.Lookup(config.ChainID)
	if err != nil {
		return err
	}

	kr, err := openKeyring(config)
	if err != nil {
		return err
	}

	records, err := kr.List()
	if err != nil {
		return errors.Wrap(err, "list keys failed")
	}

	for _, record := range records {
		addr, err := record.GetAddress()
		if err != nil {
			return errors.Wrapf(err, "address of %s", record.Name)
		}

		bech, err := bech32.ConvertAndEncode(network.Info.Bech32Config.Bech32PrefixAccAddr, addr)
		if err != nil {
			return err
		}

		active := ""
		if record.Name == config.Keyring.KeyName {
			active = " (active)"
		}
		fmt.Printf("%s\t%s%s\n", record.Name, bech, active)
	}

	return nil
}
