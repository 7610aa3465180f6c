package chains

import (
	"sort"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/pkg/errors"
)

const (
	UniTestnet     = "uni-6"
	ElgafarTestnet = "elgafar-1"
	PulsarDevnet   = "pulsar-dev-1"
	DefaultChainID = PulsarDevnet

	cosmosCoinType   = 118
	defaultEcosystem = "cosmos"
)

var ErrUnknownChain = errors.New("unknown chain")

// Network is the static configuration of a supported network: what the wallet is told about
// the chain, and what the signing client needs to talk to it.
type Network struct {
	Info     ChainInfo
	GasPrice sdk.DecCoin
	// CodeID is the uploaded todo contract code on that network.
	CodeID uint64
}

func (n Network) ChainID() string {
	return n.Info.ChainID
}

func (n Network) RPCAddr() string {
	return n.Info.RPC
}

var networks = map[string]Network{
	UniTestnet: {
		Info: ChainInfo{
			ChainID:       UniTestnet,
			ChainName:     "Juno Testnet",
			RPC:           "https://rpc.testcosmos.directory/junotestnet",
			REST:          "https://rest.testcosmos.directory/junotestnet",
			Bech32Prefix:  "juno",
			Bech32Config:  NewBech32Config("juno"),
			BIP44:         BIP44{CoinType: cosmosCoinType},
			StakeCurrency: Currency{CoinDenom: "JUNOX", CoinMinimalDenom: "ujunox", CoinDecimals: 6},
			Currencies: []Currency{
				{CoinDenom: "JUNOX", CoinMinimalDenom: "ujunox", CoinDecimals: 6},
			},
			FeeCurrencies: []Currency{
				{
					CoinDenom: "JUNOX", CoinMinimalDenom: "ujunox", CoinDecimals: 6,
					GasPriceStep: &GasPriceStep{Low: 0.001, Average: 0.003, High: 0.004},
				},
			},
			Features:  []string{"cosmwasm"},
			Ecosystem: defaultEcosystem,
		},
		GasPrice: sdk.NewDecCoinFromDec("ujunox", sdkmath.LegacyMustNewDecFromStr("0.003")),
		CodeID:   2545,
	},
	ElgafarTestnet: {
		Info: ChainInfo{
			ChainID:       ElgafarTestnet,
			ChainName:     "Stargaze Testnet",
			RPC:           "https://rpc.testcosmos.directory/stargazetestnet",
			REST:          "https://rest.testcosmos.directory/stargazetestnet",
			Bech32Prefix:  "stars",
			Bech32Config:  NewBech32Config("stars"),
			BIP44:         BIP44{CoinType: cosmosCoinType},
			StakeCurrency: Currency{CoinDenom: "STARS", CoinMinimalDenom: "ustars", CoinDecimals: 6},
			Currencies: []Currency{
				{CoinDenom: "STARS", CoinMinimalDenom: "ustars", CoinDecimals: 6},
			},
			FeeCurrencies: []Currency{
				{
					CoinDenom: "STARS", CoinMinimalDenom: "ustars", CoinDecimals: 6,
					GasPriceStep: &GasPriceStep{Low: 0.03, Average: 0.04, High: 0.05},
				},
			},
			Features:  []string{"cosmwasm"},
			Ecosystem: defaultEcosystem,
		},
		GasPrice: sdk.NewDecCoinFromDec("ustars", sdkmath.LegacyMustNewDecFromStr("0.04")),
		CodeID:   2609,
	},
	PulsarDevnet: {
		Info: ChainInfo{
			ChainID:      PulsarDevnet,
			ChainName:    "localhost",
			RPC:          "http://192.168.178.86:26657",
			REST:         "http://192.168.178.86:1317",
			Bech32Prefix: "pulsar",
			Bech32Config: Bech32Config{
				Bech32PrefixAccAddr:  "pulsar",
				Bech32PrefixAccPub:   "pulsarpub",
				Bech32PrefixValAddr:  "pulsarvaloper",
				Bech32PrefixValPub:   "pulsarvaloperpub",
				Bech32PrefixConsAddr: "pulsevalcons",
				Bech32PrefixConsPub:  "pulsarvalconspub",
			},
			BIP44:         BIP44{CoinType: cosmosCoinType},
			StakeCurrency: Currency{CoinDenom: "Pulse", CoinMinimalDenom: "upulse", CoinDecimals: 6},
			Currencies: []Currency{
				{
					CoinDenom: "Pulse", CoinMinimalDenom: "upulse", CoinDecimals: 6,
					GasPriceStep: &GasPriceStep{Low: 0.01, Average: 0.025, High: 0.04},
				},
			},
			FeeCurrencies: []Currency{
				{
					CoinDenom: "Pulse", CoinMinimalDenom: "upulse", CoinDecimals: 6,
					GasPriceStep: &GasPriceStep{Low: 0.01, Average: 0.025, High: 0.04},
				},
			},
			Features:  []string{},
			Ecosystem: defaultEcosystem,
		},
		GasPrice: sdk.NewDecCoinFromDec("upulse", sdkmath.LegacyMustNewDecFromStr("0.025")),
		CodeID:   1,
	},
}

// Lookup returns the static configuration of chainID.
func Lookup(chainID string) (Network, error) {
	n, ok := networks[chainID]
	if !ok {
		return Network{}, errors.Wrapf(ErrUnknownChain, "chain id %q", chainID)
	}

	n.Info = n.Info.Clone()
	return n, nil
}

func IsKnown(chainID string) bool {
	_, ok := networks[chainID]
	return ok
}

// ChainIDs lists the supported networks, sorted.
func ChainIDs() []string {
	ids := make([]string, 0, len(networks))
	for id := range networks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// All returns the chain infos of every supported network, sorted by chain id.
func All() []ChainInfo {
	ids := ChainIDs()
	res := make([]ChainInfo, 0, len(ids))
	for _, id := range ids {
		res = append(res, networks[id].Info.Clone())
	}
	return res
}
