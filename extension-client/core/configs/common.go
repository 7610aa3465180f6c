package configs

import "github.com/vectis-labs/vectis/extension-client/core/utils"

type CommonConfig struct {
	// The service name
	Name string `yaml:"name"`
	// used to set the logger level (true = info, false = debug)
	Production bool `yaml:"production"`
	// http api listen address for the demo application
	RpcServerIpPortAddress string   `yaml:"rpc_server_ip_port_address"`
	RpcCors                []string `yaml:"rpc_cors"`
}

// use the env config first for some keys
func (c *CommonConfig) WithEnv() {
	c.Production = utils.LookupEnvBool("VECTIS_PRODUCTION", c.Production)
	c.Name = utils.LookupEnvStr("VECTIS_NAME", c.Name)
	c.RpcServerIpPortAddress = utils.LookupEnvStr("VECTIS_RPC_SERVER_ADDRESS", c.RpcServerIpPortAddress)
}
