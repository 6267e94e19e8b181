// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2021 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/zecnode/blocktemplate/chainparams"
	"github.com/zecnode/blocktemplate/equihash"
	"github.com/zecnode/blocktemplate/mining"
	"github.com/zecnode/blocktemplate/txmodel"
)

const (
	defaultConfigFilename = "zecnode.yaml"
	defaultLogDirname     = "logs"
	defaultLogLevel       = "info"

	defaultEquihashSolver    = equihash.StrategyDefault
	defaultBlockMaxSize      = 2_000_000
	defaultBlockPrioritySize = 50_000
	defaultBlockMinSize      = 0
	defaultGenProcLimit      = 1
)

var defaultHomeDir = appDataDir("zecnode")

// minerConfig is the subset of flags that shape the Template Assembler's
// capacity ceilings and the Coinbase Builder's recipient, per §6.
type minerConfig struct {
	BlockMaxSize      uint32 `yaml:"block_max_size" long:"blockmaxsize" description:"Maximum block size in bytes to use when assembling a template"`
	BlockPrioritySize uint32 `yaml:"block_priority_size" long:"blockprioritysize" description:"Bytes reserved for priority-ordered transaction selection"`
	BlockMinSize      uint32 `yaml:"block_min_size" long:"blockminsize" description:"Bytes below which the free-transaction gate is relaxed"`
	BlockVersion      int32  `yaml:"block_version" long:"blockversion" description:"Block version override; parsed but not read by the miner"`
	PrintPriority     bool   `yaml:"print_priority" long:"printpriority" description:"Per-transaction priority logging switch; parsed but not read by the miner"`

	MinerAddress   string `yaml:"miner_address" long:"mineraddress" description:"Encoded miner recipient: transparent:<hex-script>, sapling:<hex>, or orchard:<hex>"`
	EquihashSolver string `yaml:"equihash_solver" long:"equihashsolver" description:"Equihash solver strategy: default or tromp"`

	Generate     bool `yaml:"generate" long:"gen" description:"Enable the internal CPU miner"`
	GenProcLimit int  `yaml:"gen_proc_limit" long:"genproclimit" description:"Number of mining worker goroutines; -1 uses the host core count"`
}

// config defines the full configuration surface for the zecnode daemon.
// See loadConfig for the parse/merge order.
type config struct {
	ConfigFile string `short:"C" long:"configfile" description:"Path to configuration file"`
	DataDir    string `short:"b" long:"datadir" description:"Directory to store data"`
	LogDir     string `long:"logdir" description:"Directory to log output"`
	DebugLevel string `short:"d" long:"debuglevel" description:"Logging level {trace, debug, info, warn, error, critical}"`

	TestNet3       bool `long:"testnet" description:"Use the test network"`
	RegressionTest bool `long:"regtest" description:"Use the regression test network"`

	Miner minerConfig `yaml:"miner" group:"Miner Options"`

	minerAddr      txmodel.MinerAddress
	chainParams    *chainparams.Params
	solverStrategy equihash.Strategy
}

// appDataDir mirrors the teacher's btcutil.AppDataDir shape without the
// btcutil dependency: $HOME/.<name> on unix-likes.
func appDataDir(name string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".", "."+name)
	}
	return filepath.Join(home, "."+name)
}

// cleanAndExpandPath expands a leading ~ and environment variables, then
// cleans the result.
func cleanAndExpandPath(path string) string {
	if path == "" {
		return path
	}
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = strings.Replace(path, "~", home, 1)
		}
	}
	return filepath.Clean(os.ExpandEnv(path))
}

// validLogLevel reports whether level is one of the recognized debug
// levels, matching the teacher's config.go validLogLevel.
func validLogLevel(level string) bool {
	switch level {
	case "trace", "debug", "info", "warn", "error", "critical":
		return true
	}
	return false
}

// decodeMinerAddress parses the simplified --mineraddress encoding this
// repo accepts: "<kind>:<hex>". Real base58check/bech32/Unified-Address
// decoding is an external wallet collaborator's responsibility (§1), out
// of scope for the template-assembly engine itself.
func decodeMinerAddress(s string) (txmodel.MinerAddress, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return txmodel.MinerAddress{}, errors.Errorf("mineraddress: expected <kind>:<hex>, got %q", s)
	}
	kind, hexPart := parts[0], parts[1]
	raw, err := hex.DecodeString(hexPart)
	if err != nil {
		return txmodel.MinerAddress{}, errors.Wrap(err, "mineraddress: invalid hex")
	}

	switch kind {
	case "transparent":
		return txmodel.NewTransparentAddress(raw), nil
	case "sapling":
		if len(raw) != 43 {
			return txmodel.MinerAddress{}, errors.Errorf("mineraddress: sapling address must be 43 bytes, got %d", len(raw))
		}
		var addr txmodel.SaplingPaymentAddress
		copy(addr.Diversifier[:], raw[:11])
		copy(addr.Pkd[:], raw[11:])
		return txmodel.NewSaplingAddress(addr), nil
	case "orchard":
		if len(raw) != 43 {
			return txmodel.MinerAddress{}, errors.Errorf("mineraddress: orchard address must be 43 bytes, got %d", len(raw))
		}
		var addr txmodel.OrchardRawAddress
		copy(addr.Diversifier[:], raw[:11])
		copy(addr.Pkd[:], raw[11:])
		return txmodel.NewOrchardAddress(addr), nil
	default:
		return txmodel.MinerAddress{}, errors.Errorf("mineraddress: unrecognized kind %q", kind)
	}
}

// chainParamsForNet resolves the --testnet/--regtest flags to a concrete
// Params set, mainnet being the default.
func chainParamsForNet(cfg *config) *chainparams.Params {
	switch {
	case cfg.RegressionTest:
		return &chainparams.RegressionNetParams
	case cfg.TestNet3:
		return &chainparams.TestNetParams
	default:
		return &chainparams.MainNetParams
	}
}

// loadConfig parses command-line and config-file options, merges them (CLI
// wins), applies defaults, validates, and resolves the derived miner
// address/chain params/solver strategy. Grounded on the teacher's
// loadConfig: a pre-parse pass to locate -C/--configfile, a YAML decode of
// that file into preCfg, then an authoritative flags.Parse pass.
func loadConfig() (*config, []string, error) {
	preCfg := config{
		DataDir:    defaultHomeDir,
		LogDir:     filepath.Join(defaultHomeDir, defaultLogDirname),
		DebugLevel: defaultLogLevel,
		ConfigFile: filepath.Join(defaultHomeDir, defaultConfigFilename),
		Miner: minerConfig{
			BlockMaxSize:      defaultBlockMaxSize,
			BlockPrioritySize: defaultBlockPrioritySize,
			BlockMinSize:      defaultBlockMinSize,
			EquihashSolver:    string(defaultEquihashSolver),
			GenProcLimit:      defaultGenProcLimit,
		},
	}

	preParser := flags.NewParser(&preCfg, flags.Default|flags.IgnoreUnknown)
	if _, err := preParser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		return nil, nil, err
	}

	if preCfg.ConfigFile != "" {
		if f, err := os.Open(cleanAndExpandPath(preCfg.ConfigFile)); err == nil {
			dec := yaml.NewDecoder(f)
			err = dec.Decode(&preCfg)
			f.Close()
			if err != nil {
				return nil, nil, errors.Wrap(err, "loadConfig: decode config file")
			}
		}
	}

	cfg := preCfg
	parser := flags.NewParser(&cfg, flags.Default)
	remainingArgs, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		return nil, nil, err
	}

	cfg.DataDir = cleanAndExpandPath(cfg.DataDir)
	cfg.LogDir = cleanAndExpandPath(cfg.LogDir)

	if !validLogLevel(cfg.DebugLevel) {
		return nil, nil, errors.Errorf("loadConfig: invalid debuglevel %q", cfg.DebugLevel)
	}

	if cfg.TestNet3 && cfg.RegressionTest {
		return nil, nil, errors.New("loadConfig: testnet and regtest cannot both be selected")
	}
	cfg.chainParams = chainParamsForNet(&cfg)

	strategy := equihash.Strategy(cfg.Miner.EquihashSolver)
	if strategy != equihash.StrategyDefault && strategy != equihash.StrategyTromp {
		return nil, nil, errors.Errorf("loadConfig: unrecognized equihashsolver %q", cfg.Miner.EquihashSolver)
	}
	cfg.solverStrategy = strategy

	policy := mining.DefaultPolicy()
	if cfg.Miner.BlockMaxSize != 0 {
		policy.BlockMaxSize = int(cfg.Miner.BlockMaxSize)
	}
	if cfg.Miner.BlockPrioritySize != 0 {
		policy.BlockPrioritySize = int(cfg.Miner.BlockPrioritySize)
	}
	policy.BlockMinSize = int(cfg.Miner.BlockMinSize)
	policy.Clamp()
	cfg.Miner.BlockMaxSize = uint32(policy.BlockMaxSize)
	cfg.Miner.BlockPrioritySize = uint32(policy.BlockPrioritySize)
	cfg.Miner.BlockMinSize = uint32(policy.BlockMinSize)

	if cfg.Miner.Generate {
		if cfg.Miner.MinerAddress == "" {
			return nil, nil, mining.ErrNoMinerAddress
		}
		addr, err := decodeMinerAddress(cfg.Miner.MinerAddress)
		if err != nil {
			return nil, nil, err
		}
		cfg.minerAddr = addr
	}

	return &cfg, remainingArgs, nil
}

// policy builds the mining.Policy this config resolved to.
func (cfg *config) policy() mining.Policy {
	p := mining.Policy{
		BlockMaxSize:      int(cfg.Miner.BlockMaxSize),
		BlockPrioritySize: int(cfg.Miner.BlockPrioritySize),
		BlockMinSize:      int(cfg.Miner.BlockMinSize),
	}
	p.Clamp()
	return p
}

// numWorkers resolves genproclimit, with -1 meaning "use every host core".
func (cfg *config) numWorkers(numCPU int) int {
	if cfg.Miner.GenProcLimit == -1 {
		return numCPU
	}
	if cfg.Miner.GenProcLimit <= 0 {
		return 1
	}
	return cfg.Miner.GenProcLimit
}
