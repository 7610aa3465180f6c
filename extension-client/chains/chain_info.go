package chains

// ChainInfo describes a network the wallet is asked to support. It is handed to the wallet
// verbatim by SuggestChains and never mutated afterwards.
type ChainInfo struct {
	ChainID       string       `yaml:"chain_id" json:"chainId"`
	ChainName     string       `yaml:"chain_name" json:"chainName"`
	PrettyName    string       `yaml:"pretty_name,omitempty" json:"prettyName,omitempty"`
	RPC           string       `yaml:"rpc" json:"rpc"`
	REST          string       `yaml:"rest" json:"rest"`
	GRPC          string       `yaml:"grpc,omitempty" json:"grpc,omitempty"`
	Bech32Prefix  string       `yaml:"bech32_prefix" json:"bech32Prefix"`
	Bech32Config  Bech32Config `yaml:"bech32_config" json:"bech32Config"`
	BIP44         BIP44        `yaml:"bip44" json:"bip44"`
	StakeCurrency Currency     `yaml:"stake_currency" json:"stakeCurrency"`
	Currencies    []Currency   `yaml:"currencies" json:"currencies"`
	FeeCurrencies []Currency   `yaml:"fee_currencies" json:"feeCurrencies"`
	Features      []string     `yaml:"features,omitempty" json:"features"`
	Ecosystem     string       `yaml:"ecosystem" json:"ecosystem"`
}

type Bech32Config struct {
	Bech32PrefixAccAddr  string `yaml:"acc_addr" json:"bech32PrefixAccAddr"`
	Bech32PrefixAccPub   string `yaml:"acc_pub" json:"bech32PrefixAccPub"`
	Bech32PrefixValAddr  string `yaml:"val_addr" json:"bech32PrefixValAddr"`
	Bech32PrefixValPub   string `yaml:"val_pub" json:"bech32PrefixValPub"`
	Bech32PrefixConsAddr string `yaml:"cons_addr" json:"bech32PrefixConsAddr"`
	Bech32PrefixConsPub  string `yaml:"cons_pub" json:"bech32PrefixConsPub"`
}

type BIP44 struct {
	CoinType uint32 `yaml:"coin_type" json:"coinType"`
}

type Currency struct {
	CoinDenom        string        `yaml:"coin_denom" json:"coinDenom"`
	CoinMinimalDenom string        `yaml:"coin_minimal_denom" json:"coinMinimalDenom"`
	CoinDecimals     uint32        `yaml:"coin_decimals" json:"coinDecimals"`
	GasPriceStep     *GasPriceStep `yaml:"gas_price_step,omitempty" json:"gasPriceStep,omitempty"`
}

type GasPriceStep struct {
	Low     float64 `yaml:"low" json:"low"`
	Average float64 `yaml:"average" json:"average"`
	High    float64 `yaml:"high" json:"high"`
}

// NewBech32Config derives the usual cosmos prefix set from the account prefix.
func NewBech32Config(prefix string) Bech32Config {
	return Bech32Config{
		Bech32PrefixAccAddr:  prefix,
		Bech32PrefixAccPub:   prefix + "pub",
		Bech32PrefixValAddr:  prefix + "valoper",
		Bech32PrefixValPub:   prefix + "valoperpub",
		Bech32PrefixConsAddr: prefix + "valcons",
		Bech32PrefixConsPub:  prefix + "valconspub",
	}
}

// Clone returns a deep copy, so callers can never alias the static table.
func (c ChainInfo) Clone() ChainInfo {
	out := c
	out.Currencies = cloneCurrencies(c.Currencies)
	out.FeeCurrencies = cloneCurrencies(c.FeeCurrencies)
	out.StakeCurrency = cloneCurrency(c.StakeCurrency)
	if c.Features != nil {
		out.Features = append([]string{}, c.Features...)
	}

	return out
}

func cloneCurrency(c Currency) Currency {
	if c.GasPriceStep != nil {
		step := *c.GasPriceStep
		c.GasPriceStep = &step
	}
	return c
}

func cloneCurrencies(in []Currency) []Currency {
	if in == nil {
		return nil
	}
	out := make([]Currency, len(in))
	for i, c := range in {
		out[i] = cloneCurrency(c)
	}
	return out
}
