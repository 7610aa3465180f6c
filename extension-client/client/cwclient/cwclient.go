package cwclient

import (
	"context"
	"time"

	rpcclient "github.com/cometbft/cometbft/rpc/client"
	rpchttp "github.com/cometbft/cometbft/rpc/client/http"
	ctypes "github.com/cometbft/cometbft/rpc/core/types"
	cmttypes "github.com/cometbft/cometbft/types"
	cosmosclient "github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/pkg/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/vectis-labs/vectis/extension-client/core/logging"
	"github.com/vectis-labs/vectis/extension-client/encoding"
	"github.com/vectis-labs/vectis/extension-client/wallet"
)

var _ ISigningCosmWasmClient = &SigningClient{}

const (
	// hardcode the rpc timeout to 20 seconds. We can expose it to the params once needed
	DefaultTimeout = 20 * time.Second

	DefaultGasAdjustment         = 1.3
	DefaultBroadcastPollInterval = 700 * time.Millisecond
	DefaultBroadcastTimeout      = 4500 * time.Millisecond
)

type Config struct {
	RPCAddr string
	// optional, queries go over gRPC when set
	GRPCAddr string
	ChainID  string
	GasPrice sdk.DecCoin
	// multiplier applied to the simulated gas
	GasAdjustment         float64
	BroadcastPollInterval time.Duration
	BroadcastTimeout      time.Duration
}

func (c *Config) withDefaults() {
	if c.GasAdjustment <= 0 {
		c.GasAdjustment = DefaultGasAdjustment
	}
	if c.BroadcastPollInterval <= 0 {
		c.BroadcastPollInterval = DefaultBroadcastPollInterval
	}
	if c.BroadcastTimeout <= 0 {
		c.BroadcastTimeout = DefaultBroadcastTimeout
	}
}

// broadcaster is the part of the rpc client the tx pipeline needs.
type broadcaster interface {
	BroadcastTxSync(ctx context.Context, tx cmttypes.Tx) (*ctypes.ResultBroadcastTx, error)
	Tx(ctx context.Context, hash []byte, prove bool) (*ctypes.ResultTx, error)
}

// SigningClient is bound to one rpc endpoint, one signer and one gas price. It is built fresh
// for every wallet connection.
type SigningClient struct {
	logger logging.Logger
	cfg    Config

	rpc       rpcclient.Client
	grpcConn  *grpc.ClientConn
	clientCtx cosmosclient.Context
	encCfg    encoding.EncodingConfig

	bcast  broadcaster
	signer wallet.OfflineDirectSigner
}

// Dial connects to the node at cfg.RPCAddr and checks it serves cfg.ChainID.
func Dial(ctx context.Context, logger logging.Logger, cfg Config, signer wallet.OfflineDirectSigner) (*SigningClient, error) {
	cfg.withDefaults()

	rpc, err := rpchttp.NewWithTimeout(cfg.RPCAddr, "/websocket", uint(DefaultTimeout/time.Second))
	if err != nil {
		return nil, errors.Wrapf(err, "create rpc client for %s failed", cfg.RPCAddr)
	}

	return connect(ctx, logger, cfg, rpc, signer)
}

// connect checks the chain id served over rpc and sets up the optional gRPC query connection.
func connect(ctx context.Context, logger logging.Logger, cfg Config, rpc rpcclient.Client, signer wallet.OfflineDirectSigner) (*SigningClient, error) {
	statusCtx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	status, err := rpc.Status(statusCtx)
	if err != nil {
		return nil, errors.Wrapf(err, "query status of %s failed", cfg.RPCAddr)
	}
	if cfg.ChainID != "" && status.NodeInfo.Network != cfg.ChainID {
		return nil, errors.Wrapf(ErrChainIDMismatch, "want %s, node serves %s", cfg.ChainID, status.NodeInfo.Network)
	}

	client := newSigningClient(logger, cfg, rpc, signer)

	if cfg.GRPCAddr != "" {
		conn, err := grpc.NewClient(
			cfg.GRPCAddr,
			grpc.WithTransportCredentials(insecure.NewCredentials()),
			grpc.WithDefaultCallOptions(grpc.ForceCodec(codec.NewProtoCodec(client.encCfg.InterfaceRegistry).GRPCCodec())),
		)
		if err != nil {
			return nil, errors.Wrapf(err, "dial grpc %s failed", cfg.GRPCAddr)
		}
		client.grpcConn = conn
		client.clientCtx = client.clientCtx.WithGRPCClient(conn)
	}

	client.logger.Info(
		"signing client connected",
		"rpc", cfg.RPCAddr,
		"chainId", status.NodeInfo.Network,
		"latestHeight", status.SyncInfo.LatestBlockHeight,
	)

	return client, nil
}

func newSigningClient(logger logging.Logger, cfg Config, rpc rpcclient.Client, signer wallet.OfflineDirectSigner) *SigningClient {
	cfg.withDefaults()
	encCfg := encoding.MakeEncodingConfig()

	clientCtx := cosmosclient.Context{}.
		WithClient(rpc).
		WithChainID(cfg.ChainID).
		WithCodec(encCfg.Codec).
		WithInterfaceRegistry(encCfg.InterfaceRegistry)

	return &SigningClient{
		logger:    logger.With("module", "signingClient"),
		cfg:       cfg,
		rpc:       rpc,
		clientCtx: clientCtx,
		encCfg:    encCfg,
		bcast:     rpc,
		signer:    signer,
	}
}

func (c *SigningClient) ChainID() string {
	return c.cfg.ChainID
}

func (c *SigningClient) Close() error {
	if c.grpcConn != nil {
		if err := c.grpcConn.Close(); err != nil {
			return errors.Wrap(err, "close grpc connection failed")
		}
	}
	return nil
}
