package wallet

import "sync"

// Environment resolves the injected wallet capability at call time. A nil result means no
// wallet is installed.
type Environment interface {
	CosmosWallet() CosmosWallet
}

type staticEnvironment struct {
	wallet CosmosWallet
}

// Static is an environment whose capability never changes, nil meaning not installed.
func Static(wallet CosmosWallet) Environment {
	return staticEnvironment{wallet: wallet}
}

func (e staticEnvironment) CosmosWallet() CosmosWallet {
	return e.wallet
}

// Injector is an environment a wallet can be installed into and removed from at runtime.
type Injector struct {
	mu     sync.RWMutex
	wallet CosmosWallet
}

var _ Environment = (*Injector)(nil)

func NewInjector() *Injector {
	return &Injector{}
}

func (i *Injector) Inject(wallet CosmosWallet) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.wallet = wallet
}

func (i *Injector) Eject() {
	i.Inject(nil)
}

func (i *Injector) CosmosWallet() CosmosWallet {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.wallet
}
