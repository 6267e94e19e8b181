// Copyright (c) 2021 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Command zecnode-template is an operator tool that assembles a single
// block template against an empty mempool and either prints or validates
// it, independent of the daemon's go-flags configuration surface.
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/zecnode/blocktemplate/chainparams"
	"github.com/zecnode/blocktemplate/coinview"
	"github.com/zecnode/blocktemplate/mining"
	"github.com/zecnode/blocktemplate/txmodel"
	"github.com/zecnode/blocktemplate/types/chainhash"
)

type emptyBase struct{}

func (emptyBase) GetCoin(txmodel.OutPoint) (*txmodel.Coin, bool) { return nil, false }
func (emptyBase) SaplingAnchor() chainhash.Hash                 { return chainhash.Hash{} }
func (emptyBase) OrchardAnchor() chainhash.Hash                 { return chainhash.Hash{} }
func (emptyBase) HistoryRoot(uint32) chainhash.Hash             { return chainhash.Hash{} }

func paramsByNetwork(net string) (*chainparams.Params, error) {
	switch net {
	case "mainnet":
		return &chainparams.MainNetParams, nil
	case "testnet":
		return &chainparams.TestNetParams, nil
	case "regtest":
		return &chainparams.RegressionNetParams, nil
	default:
		return nil, fmt.Errorf("unrecognized network %q", net)
	}
}

func assemble(net string, height int32, minerScript string) (*txmodel.BlockTemplate, error) {
	cp, err := paramsByNetwork(net)
	if err != nil {
		return nil, err
	}

	script, err := hex.DecodeString(minerScript)
	if err != nil {
		return nil, fmt.Errorf("invalid miner script: %w", err)
	}
	minerAddr := txmodel.NewTransparentAddress(script)

	policy := mining.DefaultPolicy()
	assembler := mining.NewAssembler(policy, cp, nil)
	template, err := assembler.AssembleTemplate(
		coinview.New(emptyBase{}), nil, height,
		func(fees int64) (*txmodel.Transaction, error) {
			return mining.BuildCoinbase(cp, height, fees, minerAddr, nil)
		})
	if err != nil {
		return nil, err
	}

	finalizer := mining.NewFinalizer(cp, policy)
	tip := mining.ChainTip{Height: height - 1, MedianTimePast: 1_600_000_000}
	if err := finalizer.Finalize(template, tip, 1_600_000_100); err != nil {
		return nil, err
	}
	return template, nil
}

func printTemplate(c *cli.Context) error {
	template, err := assemble(c.String("net"), int32(c.Int("height")), c.String("mineraddress"))
	if err != nil {
		return err
	}

	fmt.Printf("height: %d\n", template.Height)
	fmt.Printf("transactions: %d\n", len(template.Transactions))
	fmt.Printf("total fees: %d\n", template.TotalFees())
	fmt.Printf("merkle root: %s\n", template.Header.MerkleRoot)
	fmt.Printf("bits: %08x\n", template.Header.Bits)
	return nil
}

func validateTemplate(c *cli.Context) error {
	template, err := assemble(c.String("net"), int32(c.Int("height")), c.String("mineraddress"))
	if err != nil {
		return err
	}

	if len(template.Transactions) == 0 || template.Fees[0] != -template.TotalFees() {
		return fmt.Errorf("template invalid: coinbase fee entry must equal minus the total fees")
	}
	fmt.Println("template valid")
	return nil
}

func main() {
	netFlag := &cli.StringFlag{Name: "net", Value: "regtest", Usage: "mainnet, testnet, or regtest"}
	heightFlag := &cli.IntFlag{Name: "height", Value: 1, Usage: "template height"}
	minerFlag := &cli.StringFlag{Name: "mineraddress", Value: "51", Usage: "hex-encoded transparent scriptPubKey"}

	app := &cli.App{
		Name:  "zecnode-template",
		Usage: "assemble and inspect block templates without running the daemon",
		Commands: []*cli.Command{
			{
				Name:   "print",
				Usage:  "assemble a template and print a summary",
				Flags:  []cli.Flag{netFlag, heightFlag, minerFlag},
				Action: printTemplate,
			},
			{
				Name:   "validate",
				Usage:  "assemble a template and check its coinbase invariant",
				Flags:  []cli.Flag{netFlag, heightFlag, minerFlag},
				Action: validateTemplate,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
