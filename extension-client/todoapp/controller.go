package todoapp

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/vectis-labs/vectis/extension-client/chains"
	"github.com/vectis-labs/vectis/extension-client/client/cwclient"
	"github.com/vectis-labs/vectis/extension-client/core/logging"
	"github.com/vectis-labs/vectis/extension-client/metrics"
	"github.com/vectis-labs/vectis/extension-client/storage"
	"github.com/vectis-labs/vectis/extension-client/wallet"
)

type State string

const (
	StateDisconnected          State = "disconnected"
	StateConnecting            State = "connecting"
	StateConnected             State = "connected"
	StateConnectedWithContract State = "connected_with_contract"
)

var (
	ErrNotConnected = errors.New("wallet is not connected")
	ErrNoContract   = errors.New("no todo contract for the account")
)

// Dialer builds the signing client of a new connection.
type Dialer func(ctx context.Context, network chains.Network, signer wallet.OfflineDirectSigner) (cwclient.ISigningCosmWasmClient, error)

// NewDialer dials the network's rpc endpoint with its gas price.
func NewDialer(logger logging.Logger) Dialer {
	return func(ctx context.Context, network chains.Network, signer wallet.OfflineDirectSigner) (cwclient.ISigningCosmWasmClient, error) {
		client, err := cwclient.Dial(ctx, logger, cwclient.Config{
			RPCAddr:               network.RPCAddr(),
			GRPCAddr:              network.Info.GRPC,
			ChainID:               network.ChainID(),
			GasPrice:              network.GasPrice,
			BroadcastPollInterval: cwclient.DefaultBroadcastPollInterval,
			BroadcastTimeout:      cwclient.DefaultBroadcastTimeout,
		}, signer)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

type Config struct {
	ChainID      string
	WalletSource WalletSource
}

// Snapshot is a consistent copy of the controller state.
type Snapshot struct {
	State           State  `json:"state"`
	ChainID         string `json:"chainId"`
	Address         string `json:"address,omitempty"`
	ContractAddress string `json:"contractAddress,omitempty"`
	Todos           []Todo `json:"todos"`
}

var _ wallet.AccountChangeListener = &Controller{}

// Controller drives the todo application: it connects the wallet, keeps the signing client
// of the connection and caches the todo list of the connected account.
//
// Mutations are not serialized. Two concurrent mutations each re-query the list and the
// cache ends up with whichever query finished last.
type Controller struct {
	logger    logging.Logger
	provider  *wallet.Provider
	connector Connector
	dial      Dialer
	store     storage.Store
	notifier  Notifier
	metrics   *metrics.TodoMetrics

	mu           sync.RWMutex
	network      chains.Network
	state        State
	key          *wallet.KeyInfo
	client       cwclient.ISigningCosmWasmClient
	contractAddr string
	todos        []Todo
	subscribed   bool
	baseCtx      context.Context
	// set by Close, no reconnect starts after it
	closed bool

	wg sync.WaitGroup
}

// NewController creates a disconnected controller. A nil dial uses NewDialer, nil metrics are
// collected but not registered.
func NewController(
	logger logging.Logger,
	cfg Config,
	provider *wallet.Provider,
	store storage.Store,
	notifier Notifier,
	todoMetrics *metrics.TodoMetrics,
	dial Dialer,
) (*Controller, error) {
	chainID := cfg.ChainID
	if chainID == "" {
		chainID = chains.DefaultChainID
	}

	network, err := chains.Lookup(chainID)
	if err != nil {
		return nil, err
	}

	connector, err := NewConnector(cfg.WalletSource)
	if err != nil {
		return nil, err
	}

	logger = logger.With("module", "todoapp")

	if dial == nil {
		dial = NewDialer(logger)
	}
	if todoMetrics == nil {
		todoMetrics = metrics.NewUnregisteredTodoMetrics()
	}

	return &Controller{
		logger:    logger,
		provider:  provider,
		connector: connector,
		dial:      dial,
		store:     store,
		notifier:  notifier,
		metrics:   todoMetrics,
		network:   network,
		state:     StateDisconnected,
		baseCtx:   context.Background(),
	}, nil
}

// Start reconnects silently when the user granted the wallet permission before. Account
// change reconnects run on ctx.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	c.baseCtx = ctx
	c.mu.Unlock()

	allow, err := c.store.AllowPermission()
	if err != nil {
		return errors.Wrap(err, "read permission flag failed")
	}
	if !allow {
		c.logger.Info("no wallet permission stored, waiting for connect")
		return nil
	}

	if err := c.ConnectWallet(ctx); err != nil {
		c.logger.Warn("silent reconnect failed", "err", err)
	}

	return nil
}

// Close unsubscribes from the wallet and releases the signing client.
func (c *Controller) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.unsubscribe()
	c.wg.Wait()
	// a reconnect still running above may have subscribed again
	c.unsubscribe()

	c.mu.Lock()
	client := c.client
	c.client = nil
	c.mu.Unlock()

	if client != nil {
		return client.Close()
	}
	return nil
}

func (c *Controller) ConnectWallet(ctx context.Context) error {
	if err := c.connect(ctx); err != nil {
		c.notifier.Error(err.Error())
		return err
	}
	return nil
}

func (c *Controller) connect(ctx context.Context) error {
	c.mu.Lock()
	network := c.network
	c.state = StateConnecting
	c.mu.Unlock()

	c.unsubscribe()

	c.logger.Info("connecting wallet", "chainId", network.ChainID())

	conn, err := c.connector.Connect(ctx, c.provider, network)
	if err != nil {
		c.disconnect()
		c.metrics.RecordConnection(network.ChainID(), err)
		return err
	}

	client, err := c.dial(ctx, network, conn.Signer)
	if err != nil {
		c.disconnect()
		c.metrics.RecordConnection(network.ChainID(), err)
		return errors.Wrapf(err, "connect to %s failed", network.RPCAddr())
	}

	key := conn.Key
	address := key.Bech32Address

	c.mu.Lock()
	old := c.client
	c.key = &key
	c.client = client
	c.contractAddr = ""
	c.todos = nil
	c.state = StateConnected
	c.mu.Unlock()

	c.closeClient(old)
	c.metrics.RecordConnection(network.ChainID(), nil)

	if err := c.store.SetAllowPermission(true); err != nil {
		c.logger.Error("persist permission flag failed", "err", err)
	}

	if err := c.provider.OnAccountChange(c); err != nil {
		c.logger.Warn("subscribe to account changes failed", "err", err)
	} else {
		c.mu.Lock()
		c.subscribed = true
		c.mu.Unlock()
	}

	c.logger.Info("wallet connected", "chainId", network.ChainID(), "address", address)
	c.notifier.Success(msgWalletConnected)

	contract, err := c.store.ContractAddress(address)
	if err != nil {
		c.logger.Error("load contract address failed", "address", address, "err", err)
		return nil
	}
	if contract == "" {
		return nil
	}

	c.mu.Lock()
	if c.client == client {
		c.contractAddr = contract
		c.state = StateConnectedWithContract
	}
	c.mu.Unlock()

	if _, err := c.queryTodos(ctx); err != nil {
		c.notifier.Error(err.Error())
	}

	return nil
}

func (c *Controller) disconnect() {
	c.mu.Lock()
	old := c.client
	chainID := c.network.ChainID()
	c.key = nil
	c.client = nil
	c.contractAddr = ""
	c.todos = nil
	c.state = StateDisconnected
	c.mu.Unlock()

	c.closeClient(old)
	c.metrics.RecordDisconnected(chainID)
}

func (c *Controller) closeClient(client cwclient.ISigningCosmWasmClient) {
	if client == nil {
		return
	}
	if err := client.Close(); err != nil {
		c.logger.Warn("close signing client failed", "err", err)
	}
}

func (c *Controller) unsubscribe() {
	c.mu.Lock()
	subscribed := c.subscribed
	c.subscribed = false
	c.mu.Unlock()

	if !subscribed {
		return
	}
	if err := c.provider.OffAccountChange(c); err != nil {
		c.logger.Warn("unsubscribe from account changes failed", "err", err)
	}
}

// OnAccountChange reconnects when the wallet switched to another account.
func (c *Controller) OnAccountChange(key wallet.KeyInfo) {
	c.mu.RLock()
	current := ""
	if c.key != nil {
		current = c.key.Bech32Address
	}
	c.mu.RUnlock()

	if key.Bech32Address != "" && key.Bech32Address == current {
		return
	}

	// wg.Add happens under the lock Close takes to set closed, so Wait never races an Add
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	ctx := c.baseCtx
	c.wg.Add(1)
	c.mu.Unlock()

	c.logger.Info("wallet account changed, reconnecting", "name", key.Name)

	go func() {
		defer c.wg.Done()
		if err := c.ConnectWallet(ctx); err != nil {
			c.logger.Warn("reconnect after account change failed", "err", err)
		}
	}()
}

type session struct {
	network  chains.Network
	address  string
	client   cwclient.ISigningCosmWasmClient
	contract string
}

func (c *Controller) session() session {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := session{
		network:  c.network,
		client:   c.client,
		contract: c.contractAddr,
	}
	if c.key != nil {
		s.address = c.key.Bech32Address
	}
	return s
}

// InstantiateTodoContract creates a todo contract owned by the connected account and remembers
// it for that account.
func (c *Controller) InstantiateTodoContract(ctx context.Context) (string, error) {
	s := c.session()
	if s.address == "" || s.client == nil {
		c.notifier.Error(msgConnectWallet)
		return "", ErrNotConnected
	}

	res, err := Promise(c.notifier, PromiseMessages{Loading: msgLoading, Success: msgInstantiated},
		func() (*cwclient.InstantiateResult, error) {
			return s.client.Instantiate(
				ctx,
				s.address,
				s.network.CodeID,
				InstantiateMsg{Owner: s.address},
				ContractLabel,
				nil,
			)
		})
	c.metrics.RecordContractTx(s.network.ChainID(), "instantiate", err)
	if err != nil {
		return "", errors.Wrapf(err, "instantiate code %d failed", s.network.CodeID)
	}

	c.logger.Info("todo contract instantiated", "address", s.address, "contract", res.ContractAddress, "txHash", res.TxHash)

	c.mu.Lock()
	if c.client == s.client {
		c.contractAddr = res.ContractAddress
		c.todos = nil
		c.state = StateConnectedWithContract
	}
	c.mu.Unlock()

	// the contract exists on chain whether or not the store keeps it
	if err := c.store.SetContractAddress(s.address, res.ContractAddress); err != nil {
		c.notifier.Error(err.Error())
		return res.ContractAddress, errors.Wrap(err, "persist contract address failed")
	}

	return res.ContractAddress, nil
}

// QueryTodos refreshes the cache from the contract. It does nothing without a contract.
func (c *Controller) QueryTodos(ctx context.Context) ([]Todo, error) {
	todos, err := c.queryTodos(ctx)
	if err != nil {
		c.notifier.Error(err.Error())
		return nil, err
	}
	return todos, nil
}

func (c *Controller) queryTodos(ctx context.Context) ([]Todo, error) {
	s := c.session()
	if s.contract == "" || s.client == nil {
		return c.Todos(), nil
	}

	var resp TodoListResponse
	err := s.client.QueryContractSmart(ctx, s.contract, QueryMsg{
		GetTodoList: &GetTodoListQuery{Addr: s.address, Limit: QueryLimit},
	}, &resp)
	c.metrics.RecordQuery(s.network.ChainID(), len(resp.Todos), err)
	if err != nil {
		return nil, errors.Wrapf(err, "query todos of %s failed", s.contract)
	}

	todos := append([]Todo{}, resp.Todos...)

	c.mu.Lock()
	if c.client == s.client && c.contractAddr == s.contract {
		c.todos = todos
	}
	c.mu.Unlock()

	return append([]Todo(nil), todos...), nil
}

func (c *Controller) execute(ctx context.Context, msg ExecuteMsg) error {
	s := c.session()
	if s.address == "" || s.client == nil {
		c.notifier.Error(msgConnectWallet)
		return ErrNotConnected
	}
	if s.contract == "" {
		c.notifier.Error(ErrNoContract.Error())
		return ErrNoContract
	}

	kind := msg.Kind()
	res, err := Promise(c.notifier, PromiseMessages{Loading: msgLoading, Success: msgExecuted, OnError: msgExecuteFailed},
		func() (*cwclient.TxResult, error) {
			return s.client.Execute(ctx, s.address, s.contract, msg, nil)
		})
	c.metrics.RecordContractTx(s.network.ChainID(), kind, err)
	if err != nil {
		return errors.Wrapf(err, "%s failed", kind)
	}

	c.logger.Info("todo contract executed", "kind", kind, "txHash", res.TxHash, "height", res.Height)

	// the mutation stands even if the refresh fails
	if _, err := c.queryTodos(ctx); err != nil {
		c.notifier.Error(err.Error())
		return err
	}

	return nil
}

func (c *Controller) AddTodo(ctx context.Context, description string) error {
	return c.execute(ctx, ExecuteMsg{AddTodo: &AddTodoMsg{Description: description}})
}

func (c *Controller) DeleteTodo(ctx context.Context, id uint64) error {
	return c.execute(ctx, ExecuteMsg{DeleteTodo: &DeleteTodoMsg{ID: id}})
}

func (c *Controller) UpdateTodoDescription(ctx context.Context, id uint64, description string) error {
	return c.execute(ctx, ExecuteMsg{UpdateTodo: &UpdateTodoMsg{ID: id, Description: &description}})
}

func (c *Controller) UpdateTodoStatus(ctx context.Context, id uint64, status TodoStatus) error {
	if _, err := ParseTodoStatus(string(status)); err != nil {
		c.notifier.Error(err.Error())
		return err
	}
	return c.execute(ctx, ExecuteMsg{UpdateTodo: &UpdateTodoMsg{ID: id, Status: &status}})
}

// SetChain selects another network. When the wallet permission was granted before, the
// wallet is reconnected against it; a failed reconnect is notified and leaves the
// controller disconnected on the new network.
func (c *Controller) SetChain(ctx context.Context, chainID string) error {
	network, err := chains.Lookup(chainID)
	if err != nil {
		c.notifier.Error(msgChainNotSupported)
		return err
	}

	c.mu.Lock()
	unchanged := c.network.ChainID() == network.ChainID()
	c.network = network
	c.mu.Unlock()

	if unchanged {
		return nil
	}

	c.logger.Info("chain selected", "chainId", chainID)

	allow, err := c.store.AllowPermission()
	if err != nil {
		return errors.Wrap(err, "read permission flag failed")
	}
	if !allow {
		c.unsubscribe()
		c.disconnect()
		return nil
	}

	if err := c.ConnectWallet(ctx); err != nil {
		c.logger.Warn("reconnect on chain switch failed", "chainId", chainID, "err", err)
	}

	return nil
}

func (c *Controller) Todos() []Todo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Todo(nil), c.todos...)
}

func (c *Controller) ContractAddress() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.contractAddr
}

// UserKey returns a copy of the connected key, nil when disconnected.
func (c *Controller) UserKey() *wallet.KeyInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.key == nil {
		return nil
	}
	key := *c.key
	return &key
}

func (c *Controller) Chain() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.network.ChainID()
}

func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Snapshot{
		State:           c.state,
		ChainID:         c.network.ChainID(),
		ContractAddress: c.contractAddr,
		Todos:           append([]Todo{}, c.todos...),
	}
	if c.key != nil {
		s.Address = c.key.Bech32Address
	}
	return s
}
