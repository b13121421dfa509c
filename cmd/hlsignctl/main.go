package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/danmuck/hlsignd/internal/client"
	"github.com/danmuck/hlsignd/internal/config"
	"github.com/danmuck/hlsignd/internal/logging"
	"github.com/danmuck/hlsignd/internal/protocol"
)

// keyEnv supplies the signing key when the -key flag is absent, which
// keeps the key out of shell history and process listings.
const keyEnv = "HLSIGNCTL_KEY"

type options struct {
	socketPath   string
	keyHex       string
	actionJSON   string
	nonce        uint64
	activePool   string
	expiresAfter uint64
	testnet      bool
	timeout      time.Duration
}

func main() {
	var opts options
	var configPath string
	flag.StringVar(&configPath, "config", "", "client config file (TOML)")
	flag.StringVar(&opts.socketPath, "socket", protocol.DefaultSocketPath, "daemon socket path")
	flag.StringVar(&opts.keyHex, "key", "", "signing key hex ("+keyEnv+" when empty)")
	flag.StringVar(&opts.actionJSON, "action", "", "action as JSON text")
	flag.Uint64Var(&opts.nonce, "nonce", 0, "nonce in milliseconds (current time when 0)")
	flag.StringVar(&opts.activePool, "active-pool", "", "vault or subaccount address")
	flag.Uint64Var(&opts.expiresAfter, "expires-after", 0, "expiry in milliseconds since epoch")
	flag.BoolVar(&opts.testnet, "testnet", false, "sign for testnet instead of mainnet")
	flag.DurationVar(&opts.timeout, "timeout", 5*time.Second, "dial and exchange timeout (0 disables)")
	flag.Parse()

	logging.ConfigureRuntime()

	if err := run(opts, configPath, setFlags()); err != nil {
		fmt.Fprintf(os.Stderr, "hlsignctl: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options, configPath string, set map[string]bool) error {
	var fileCfg *config.ClientConfig
	if configPath != "" {
		loaded, err := config.LoadClientConfig(configPath)
		if err != nil {
			return err
		}
		fileCfg = &loaded
	}

	dial, testnet, err := resolveDial(opts, set, fileCfg)
	if err != nil {
		return err
	}
	opts.testnet = testnet

	req, err := buildRequest(opts, os.Getenv(keyEnv), time.Now().UnixMilli())
	if err != nil {
		return err
	}

	resp, err := client.NewWithConfig(dial).Sign(context.Background(), req)
	if err != nil {
		return err
	}

	out, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// resolveDial folds the optional config file and the explicit flags
// into the dialer settings. Flags given on the command line win over
// file keys; built-in defaults fill the rest. The returned bool is
// the effective testnet choice.
func resolveDial(opts options, set map[string]bool, fileCfg *config.ClientConfig) (client.Config, bool, error) {
	cfg := client.DefaultConfig()
	testnet := opts.testnet

	if fileCfg != nil {
		var err error
		cfg, err = config.DialSettings(*fileCfg)
		if err != nil {
			return client.Config{}, false, err
		}
		if !set["testnet"] {
			testnet = fileCfg.Testnet
		}
	}
	if fileCfg == nil || set["socket"] {
		cfg.SocketPath = opts.socketPath
	}
	if fileCfg == nil || set["timeout"] {
		cfg.DialTimeout = opts.timeout
		cfg.IOTimeout = opts.timeout
	}
	return cfg, testnet, nil
}

// setFlags reports which flags appeared on the command line.
func setFlags() map[string]bool {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// buildRequest resolves flag, environment and clock inputs into one
// wire request.
func buildRequest(opts options, envKey string, nowMillis int64) (protocol.SignRequest, error) {
	key := strings.TrimSpace(opts.keyHex)
	if key == "" {
		key = strings.TrimSpace(envKey)
	}
	if key == "" {
		return protocol.SignRequest{}, errors.New("no signing key: pass -key or set " + keyEnv)
	}

	action := strings.TrimSpace(opts.actionJSON)
	if action == "" {
		return protocol.SignRequest{}, errors.New("-action is required")
	}

	req := protocol.SignRequest{
		PrivateKey: key,
		ActionJSON: action,
		Nonce:      opts.nonce,
		IsMainnet:  !opts.testnet,
	}
	if req.Nonce == 0 {
		req.Nonce = uint64(nowMillis)
	}
	if pool := strings.TrimSpace(opts.activePool); pool != "" {
		req.ActivePool = &pool
	}
	if opts.expiresAfter > 0 {
		expiry := opts.expiresAfter
		req.ExpiresAfter = &expiry
	}
	return req, nil
}
