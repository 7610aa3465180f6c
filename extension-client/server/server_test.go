package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	sdkkeyring "github.com/cosmos/cosmos-sdk/crypto/keyring"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/bech32"
	"github.com/stretchr/testify/require"

	"github.com/vectis-labs/vectis/extension-client/chains"
	"github.com/vectis-labs/vectis/extension-client/client/cwclient"
	"github.com/vectis-labs/vectis/extension-client/core/logging"
	"github.com/vectis-labs/vectis/extension-client/storage"
	"github.com/vectis-labs/vectis/extension-client/todoapp"
	"github.com/vectis-labs/vectis/extension-client/wallet"
	"github.com/vectis-labs/vectis/extension-client/wallet/keyring"
	"github.com/vectis-labs/vectis/extension-client/wallet/wallettest"
)

// memContract keeps todos in memory and answers like the todo contract.
type memContract struct {
	mu     sync.Mutex
	todos  []todoapp.Todo
	nextID uint64
}

func (m *memContract) QueryContractSmart(_ context.Context, _ string, _ any, resp any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, err := json.Marshal(todoapp.TodoListResponse{Todos: append([]todoapp.Todo{}, m.todos...)})
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, resp)
}

func (m *memContract) Instantiate(context.Context, string, uint64, any, string, *cwclient.InstantiateOptions) (*cwclient.InstantiateResult, error) {
	return &cwclient.InstantiateResult{ContractAddress: "pulsar1xyz"}, nil
}

func (m *memContract) Execute(_ context.Context, _ string, _ string, msg any, _ sdk.Coins) (*cwclient.TxResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	execute := msg.(todoapp.ExecuteMsg)
	switch {
	case execute.AddTodo != nil:
		m.nextID++
		m.todos = append(m.todos, todoapp.Todo{ID: m.nextID, Description: execute.AddTodo.Description, Status: todoapp.DefaultStatus})
	case execute.DeleteTodo != nil:
		kept := m.todos[:0]
		for _, todo := range m.todos {
			if todo.ID != execute.DeleteTodo.ID {
				kept = append(kept, todo)
			}
		}
		m.todos = kept
	case execute.UpdateTodo != nil:
		for i := range m.todos {
			if m.todos[i].ID == execute.UpdateTodo.ID && execute.UpdateTodo.Status != nil {
				m.todos[i].Status = *execute.UpdateTodo.Status
			}
			if m.todos[i].ID == execute.UpdateTodo.ID && execute.UpdateTodo.Description != nil {
				m.todos[i].Description = *execute.UpdateTodo.Description
			}
		}
	}

	return &cwclient.TxResult{TxHash: "AB"}, nil
}

func (m *memContract) Close() error {
	return nil
}

func newTestServer(t *testing.T, w wallet.CosmosWallet) *httptest.Server {
	return newTestServerWithAccounts(t, w, nil)
}

func newTestServerWithAccounts(t *testing.T, w wallet.CosmosWallet, accounts AccountSelector) *httptest.Server {
	injector := wallet.NewInjector()
	if w != nil {
		injector.Inject(w)
	}

	contract := &memContract{}
	notifications := todoapp.NewRecordingNotifier(0, nil)

	ctrl, err := todoapp.NewController(
		logging.NewNopLogger(),
		todoapp.Config{ChainID: chains.PulsarDevnet},
		wallet.NewProvider(injector),
		storage.NewMemStore(),
		notifications,
		nil,
		func(context.Context, chains.Network, wallet.OfflineDirectSigner) (cwclient.ISigningCosmWasmClient, error) {
			return contract, nil
		},
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctrl.Close() })

	s := NewServer(logging.NewNopLogger(), "127.0.0.1:0", nil, ctrl, notifications, accounts)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	return ts
}

func call(t *testing.T, ts *httptest.Server, method, path string, body any, out any) int {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)

	var out map[string]string
	require.Equal(t, http.StatusOK, call(t, ts, http.MethodGet, "/health", nil, &out))
	require.Equal(t, "ok", out["status"])
}

func TestConnectWithoutWallet(t *testing.T) {
	ts := newTestServer(t, nil)

	var errResp errorResponse
	require.Equal(t, http.StatusServiceUnavailable, call(t, ts, http.MethodPost, "/v1/connect", nil, &errResp))
	require.Contains(t, errResp.Error, "vectis is not installed")

	var state todoapp.Snapshot
	require.Equal(t, http.StatusOK, call(t, ts, http.MethodGet, "/v1/state", nil, &state))
	require.Equal(t, todoapp.StateDisconnected, state.State)

	var notifications []todoapp.Notification
	require.Equal(t, http.StatusOK, call(t, ts, http.MethodGet, "/v1/notifications", nil, &notifications))
	require.Len(t, notifications, 1)
	require.Equal(t, todoapp.LevelError, notifications[0].Level)
}

func TestTodoFlow(t *testing.T) {
	ts := newTestServer(t, wallettest.NewFakeWallet("pulsar1abc"))

	var errResp errorResponse
	require.Equal(t, http.StatusConflict, call(t, ts, http.MethodPost, "/v1/todos", addTodoRequest{Description: "buy milk"}, &errResp))

	var state todoapp.Snapshot
	require.Equal(t, http.StatusOK, call(t, ts, http.MethodPost, "/v1/connect", nil, &state))
	require.Equal(t, todoapp.StateConnected, state.State)
	require.Equal(t, "pulsar1abc", state.Address)

	var contract contractResponse
	require.Equal(t, http.StatusCreated, call(t, ts, http.MethodPost, "/v1/contract", nil, &contract))
	require.Equal(t, "pulsar1xyz", contract.ContractAddress)

	var todos todosResponse
	require.Equal(t, http.StatusCreated, call(t, ts, http.MethodPost, "/v1/todos", addTodoRequest{Description: "buy milk"}, &todos))
	require.Equal(t, []todoapp.Todo{{ID: 1, Description: "buy milk", Status: todoapp.StatusToDo}}, todos.Todos)

	done := "done"
	require.Equal(t, http.StatusOK, call(t, ts, http.MethodPatch, "/v1/todos/1", updateTodoRequest{Status: &done}, &todos))
	require.Equal(t, todoapp.StatusDone, todos.Todos[0].Status)

	archived := "archived"
	require.Equal(t, http.StatusBadRequest, call(t, ts, http.MethodPatch, "/v1/todos/1", updateTodoRequest{Status: &archived}, &errResp))
	require.Equal(t, http.StatusBadRequest, call(t, ts, http.MethodPatch, "/v1/todos/one", updateTodoRequest{Status: &done}, &errResp))
	require.Equal(t, http.StatusBadRequest, call(t, ts, http.MethodPatch, "/v1/todos/1", updateTodoRequest{}, &errResp))

	require.Equal(t, http.StatusOK, call(t, ts, http.MethodDelete, "/v1/todos/1", nil, &todos))
	require.Empty(t, todos.Todos)

	require.Equal(t, http.StatusOK, call(t, ts, http.MethodGet, "/v1/todos", nil, &todos))
	require.NotNil(t, todos.Todos)
	require.Empty(t, todos.Todos)

	require.Equal(t, http.StatusOK, call(t, ts, http.MethodGet, "/v1/state", nil, &state))
	require.Equal(t, todoapp.StateConnectedWithContract, state.State)
	require.Equal(t, "pulsar1xyz", state.ContractAddress)
}

func TestSetChain(t *testing.T) {
	ts := newTestServer(t, wallettest.NewFakeWallet("pulsar1abc"))

	var errResp errorResponse
	require.Equal(t, http.StatusBadRequest, call(t, ts, http.MethodPut, "/v1/chain", chainRequest{ChainID: "cosmoshub-4"}, &errResp))
	require.Contains(t, errResp.Error, "unknown chain")

	var state todoapp.Snapshot
	require.Equal(t, http.StatusOK, call(t, ts, http.MethodPut, "/v1/chain", chainRequest{ChainID: chains.UniTestnet}, &state))
	require.Equal(t, chains.UniTestnet, state.ChainID)
}

const (
	aliceMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	bobMnemonic   = "zoo zoo zoo zoo zoo zoo zoo zoo zoo zoo zoo wrong"
)

func pulsarAddress(t *testing.T, kr sdkkeyring.Keyring, name string) string {
	record, err := kr.Key(name)
	require.NoError(t, err)
	addr, err := record.GetAddress()
	require.NoError(t, err)
	bech, err := bech32.ConvertAndEncode("pulsar", addr)
	require.NoError(t, err)
	return bech
}

func TestSwitchAccountReconnects(t *testing.T) {
	kr, err := keyring.Open(keyring.Config{Backend: keyring.BackendMemory}, nil)
	require.NoError(t, err)
	_, err = keyring.RestoreKey(kr, "alice", aliceMnemonic, keyring.DefaultCoinType)
	require.NoError(t, err)
	_, err = keyring.RestoreKey(kr, "bob", bobMnemonic, keyring.DefaultCoinType)
	require.NoError(t, err)

	w := keyring.New(logging.NewNopLogger(), kr, "alice", keyring.AutoApprove)
	ts := newTestServerWithAccounts(t, w, w)

	var state todoapp.Snapshot
	require.Equal(t, http.StatusOK, call(t, ts, http.MethodPost, "/v1/connect", nil, &state))
	require.Equal(t, pulsarAddress(t, kr, "alice"), state.Address)

	var errResp errorResponse
	require.Equal(t, http.StatusNotFound, call(t, ts, http.MethodPut, "/v1/account", accountRequest{Name: "carol"}, &errResp))
	require.Equal(t, http.StatusBadRequest, call(t, ts, http.MethodPut, "/v1/account", accountRequest{}, &errResp))

	require.Equal(t, http.StatusAccepted, call(t, ts, http.MethodPut, "/v1/account", accountRequest{Name: "bob"}, &state))

	bob := pulsarAddress(t, kr, "bob")
	require.Eventually(t, func() bool {
		var current todoapp.Snapshot
		return call(t, ts, http.MethodGet, "/v1/state", nil, &current) == http.StatusOK &&
			current.State == todoapp.StateConnected && current.Address == bob
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSwitchAccountNotSupported(t *testing.T) {
	ts := newTestServer(t, wallettest.NewFakeWallet("pulsar1abc"))

	var errResp errorResponse
	require.Equal(t, http.StatusNotImplemented, call(t, ts, http.MethodPut, "/v1/account", accountRequest{Name: "bob"}, &errResp))
}

func TestCors(t *testing.T) {
	ts := newTestServer(t, nil)

	tests := []struct {
		origin  string
		allowed bool
	}{
		{"http://localhost:3000", true},
		{"http://127.0.0.1:5173", true},
		{"https://evil.example", false},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, ts.URL+"/health", nil)
			require.NoError(t, err)
			req.Header.Set("Origin", tt.origin)

			resp, err := ts.Client().Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			if tt.allowed {
				require.Equal(t, tt.origin, resp.Header.Get("Access-Control-Allow-Origin"))
			} else {
				require.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

func TestStatusOf(t *testing.T) {
	require.Equal(t, http.StatusForbidden, statusOf(wallet.ErrPermissionDenied))
	require.Equal(t, http.StatusGatewayTimeout, statusOf(cwclient.ErrBroadcastTimeout))
	require.Equal(t, http.StatusConflict, statusOf(todoapp.ErrNoContract))
	require.Equal(t, http.StatusNotFound, statusOf(wallet.ErrKeyNotFound))
	require.Equal(t, http.StatusBadGateway, statusOf(cwclient.ErrTxFailed))
}
