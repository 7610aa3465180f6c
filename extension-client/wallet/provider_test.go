package wallet_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vectis-labs/vectis/extension-client/chains"
	"github.com/vectis-labs/vectis/extension-client/wallet"
	"github.com/vectis-labs/vectis/extension-client/wallet/wallettest"
)

func TestProviderNotInstalled(t *testing.T) {
	ctx := context.Background()
	env := wallet.NewInjector()
	p := wallet.NewProvider(env)

	calls := map[string]func() error{
		"Enable": func() error { return p.Enable(ctx, chains.PulsarDevnet) },
		"GetKey": func() error { _, err := p.GetKey(ctx, chains.PulsarDevnet); return err },
		"GetAccounts": func() error {
			_, err := p.GetAccounts(ctx, chains.PulsarDevnet)
			return err
		},
		"GetSupportedChains": func() error { _, err := p.GetSupportedChains(ctx); return err },
		"SuggestChains":      func() error { return p.SuggestChains(ctx, chains.All()...) },
		"IsChainSupported": func() error {
			_, err := p.IsChainSupported(ctx, chains.PulsarDevnet)
			return err
		},
		"SignAmino": func() error {
			_, err := p.SignAmino(ctx, "pulsar1abc", wallet.StdSignDoc{})
			return err
		},
		"SignDirect": func() error {
			_, err := p.SignDirect(ctx, "pulsar1abc", &wallet.SignDoc{})
			return err
		},
		"SignArbitrary": func() error {
			_, err := p.SignArbitrary(ctx, chains.PulsarDevnet, "pulsar1abc", []byte("hi"))
			return err
		},
		"VerifyArbitrary": func() error {
			_, err := p.VerifyArbitrary(ctx, chains.PulsarDevnet, "pulsar1abc", []byte("hi"), wallet.StdSignature{})
			return err
		},
		"GetOfflineSignerAuto": func() error {
			_, err := p.GetOfflineSignerAuto(ctx, chains.PulsarDevnet)
			return err
		},
		"GetOfflineSignerAmino": func() error {
			_, err := p.GetOfflineSignerAmino(chains.PulsarDevnet)
			return err
		},
		"GetOfflineSignerDirect": func() error {
			_, err := p.GetOfflineSignerDirect(chains.PulsarDevnet)
			return err
		},
		"GetOfflineSigner": func() error {
			_, err := p.GetOfflineSigner(chains.PulsarDevnet)
			return err
		},
		"OnAccountChange": func() error {
			return p.OnAccountChange(wallet.NewListenerFunc(func(wallet.KeyInfo) {}))
		},
		"OffAccountChange": func() error {
			return p.OffAccountChange(wallet.NewListenerFunc(func(wallet.KeyInfo) {}))
		},
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			err := call()
			require.Error(t, err)
			assert.True(t, errors.Is(err, wallet.ErrNotInstalled))
			assert.Equal(t, "vectis is not installed", err.Error())
		})
	}

	assert.False(t, p.Installed())
	assert.False(t, wallet.NewProvider(nil).Installed())
}

func TestProviderForwards(t *testing.T) {
	ctx := context.Background()
	fake := wallettest.NewFakeWallet("pulsar1abc")
	p := wallet.NewProvider(wallet.Static(fake))
	require.True(t, p.Installed())

	require.NoError(t, p.SuggestChains(ctx, chains.All()...))
	require.NoError(t, p.Enable(ctx, chains.PulsarDevnet, chains.UniTestnet))
	assert.True(t, fake.Enabled[chains.PulsarDevnet])
	assert.True(t, fake.Enabled[chains.UniTestnet])

	key, err := p.GetKey(ctx, chains.PulsarDevnet)
	require.NoError(t, err)
	assert.Equal(t, "pulsar1abc", key.Bech32Address)

	accounts, err := p.GetAccounts(ctx, chains.PulsarDevnet)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "pulsar1abc", accounts[0].Address)

	supported, err := p.IsChainSupported(ctx, chains.ElgafarTestnet)
	require.NoError(t, err)
	assert.True(t, supported)

	supported, err = p.IsChainSupported(ctx, "cosmoshub-4")
	require.NoError(t, err)
	assert.False(t, supported)

	doc := &wallet.SignDoc{ChainId: chains.PulsarDevnet, AccountNumber: 7}
	resp, err := p.SignDirect(ctx, "pulsar1abc", doc)
	require.NoError(t, err)
	assert.Same(t, doc, resp.Signed)

	signer, err := p.GetOfflineSignerDirect(chains.PulsarDevnet)
	require.NoError(t, err)
	direct, err := wallet.AsDirectSigner(signer)
	require.NoError(t, err)
	assert.NotNil(t, direct)

	ok, err := p.VerifyArbitrary(ctx, chains.PulsarDevnet, "pulsar1abc", []byte("hi"), wallet.StdSignature{})
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, []string{
		"SuggestChains", "Enable", "GetKey", "GetAccounts",
		"GetSupportedChains", "GetSupportedChains", "SignDirect",
		"GetOfflineSignerDirect", "VerifyArbitrary",
	}, fake.Calls())
}

func TestProviderForwardsErrorsUnchanged(t *testing.T) {
	fake := wallettest.NewFakeWallet("pulsar1abc")
	fake.EnableErr = wallet.ErrPermissionDenied
	p := wallet.NewProvider(wallet.Static(fake))

	err := p.Enable(context.Background(), chains.PulsarDevnet)
	assert.Equal(t, wallet.ErrPermissionDenied, err)
}

func TestInjectorLifecycle(t *testing.T) {
	env := wallet.NewInjector()
	p := wallet.NewProvider(env)
	assert.False(t, p.Installed())

	env.Inject(wallettest.NewFakeWallet("pulsar1abc"))
	assert.True(t, p.Installed())

	env.Eject()
	assert.False(t, p.Installed())
}

func TestAccountChangeSubscription(t *testing.T) {
	fake := wallettest.NewFakeWallet("pulsar1abc")
	p := wallet.NewProvider(wallet.Static(fake))

	var seen []string
	listener := wallet.NewListenerFunc(func(key wallet.KeyInfo) {
		seen = append(seen, key.Bech32Address)
	})

	require.NoError(t, p.OnAccountChange(listener))
	require.NoError(t, p.OnAccountChange(listener))
	assert.Equal(t, 1, fake.Len())

	fake.SwitchAccount("pulsar1def")
	assert.Equal(t, []string{"pulsar1def"}, seen)

	require.NoError(t, p.OffAccountChange(listener))
	assert.Equal(t, 0, fake.Len())

	fake.SwitchAccount("pulsar1ghi")
	assert.Equal(t, []string{"pulsar1def"}, seen)
}

func TestOffAccountChangeOnlyRemovesSameListener(t *testing.T) {
	fake := wallettest.NewFakeWallet("pulsar1abc")
	p := wallet.NewProvider(wallet.Static(fake))

	var first, second int
	l1 := wallet.NewListenerFunc(func(wallet.KeyInfo) { first++ })
	l2 := wallet.NewListenerFunc(func(wallet.KeyInfo) { second++ })

	require.NoError(t, p.OnAccountChange(l1))
	require.NoError(t, p.OnAccountChange(l2))
	require.NoError(t, p.OffAccountChange(wallet.NewListenerFunc(func(wallet.KeyInfo) {})))
	require.NoError(t, p.OffAccountChange(l1))

	fake.SwitchAccount("pulsar1def")
	assert.Equal(t, 0, first)
	assert.Equal(t, 1, second)
}

// funcListener is a value type holding a func, so it cannot be compared with ==.
type funcListener struct {
	fn func(wallet.KeyInfo)
}

func (l funcListener) OnAccountChange(key wallet.KeyInfo) {
	l.fn(key)
}

func TestAccountChangeRejectsUncomparableListener(t *testing.T) {
	fake := wallettest.NewFakeWallet("pulsar1abc")
	p := wallet.NewProvider(wallet.Static(fake))

	fired := 0
	listener := funcListener{fn: func(wallet.KeyInfo) { fired++ }}

	require.NotPanics(t, func() {
		err := p.OnAccountChange(listener)
		assert.True(t, errors.Is(err, wallet.ErrInvalidListener))
	})
	require.NotPanics(t, func() {
		assert.NoError(t, p.OffAccountChange(listener))
	})
	assert.Equal(t, 0, fake.Len())

	// the pointer form is comparable and goes through the registry
	ptr := &funcListener{fn: func(wallet.KeyInfo) { fired++ }}
	require.NoError(t, p.OnAccountChange(ptr))
	fake.SwitchAccount("pulsar1def")
	assert.Equal(t, 1, fired)
	require.NoError(t, p.OffAccountChange(ptr))
	assert.Equal(t, 0, fake.Len())

	assert.True(t, errors.Is(p.OnAccountChange(nil), wallet.ErrInvalidListener))
}
