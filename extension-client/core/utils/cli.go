package utils

import (
	"github.com/urfave/cli"
)

var (
	/* Required Flags */
	ConfigFileFlag = cli.StringFlag{
		Name:     "config",
		Required: false,
		Usage:    "Load configuration from `FILE`",
		EnvVar:   "VECTIS_CONFIG_PATH",
	}

	/* Optional Flags */
	ChainFlag = cli.StringFlag{
		Name:   "chain",
		Usage:  "Select the network `CHAIN_ID` to connect to",
		EnvVar: "VECTIS_CHAIN_ID",
	}
)

var requiredFlags = []cli.Flag{
	ConfigFileFlag,
}

var optionalFlags = []cli.Flag{
	ChainFlag,
}

func init() {
	Flags = append(requiredFlags, optionalFlags...)
}

// Flags contains the list of configuration options available to the binary.
var Flags []cli.Flag
