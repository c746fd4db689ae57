package dex

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/lattice-hq/sentinel/internal/config"
)

// ErrNoPair is returned when the factory knows no pool for a token pair.
var ErrNoPair = errors.New("no liquidity pair for token")

const (
	erc20ABIJSON = `[
		{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"stateMutability":"view","type":"function"},
		{"constant":true,"inputs":[],"name":"symbol","outputs":[{"name":"","type":"string"}],"stateMutability":"view","type":"function"}
	]`

	factoryABIJSON = `[
		{"constant":true,"inputs":[{"name":"tokenA","type":"address"},{"name":"tokenB","type":"address"}],"name":"getPair","outputs":[{"name":"pair","type":"address"}],"stateMutability":"view","type":"function"}
	]`

	pairABIJSON = `[
		{"constant":true,"inputs":[],"name":"getReserves","outputs":[{"name":"reserve0","type":"uint112"},{"name":"reserve1","type":"uint112"},{"name":"blockTimestampLast","type":"uint32"}],"stateMutability":"view","type":"function"},
		{"constant":true,"inputs":[],"name":"token0","outputs":[{"name":"","type":"address"}],"stateMutability":"view","type":"function"}
	]`
)

// Client reads token metadata and pool reserves from a BSC node.
type Client struct {
	eth *ethclient.Client

	erc20   abi.ABI
	factory abi.ABI
	pair    abi.ABI

	factoryAddr common.Address
}

// NewClient dials the configured RPC endpoint.
func NewClient(cfg config.BlockchainConfig) (*Client, error) {
	eth, err := ethclient.Dial(cfg.BSCRPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial BSC node: %w", err)
	}

	erc20, err := abi.JSON(strings.NewReader(erc20ABIJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ERC20 ABI: %w", err)
	}
	factory, err := abi.JSON(strings.NewReader(factoryABIJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse factory ABI: %w", err)
	}
	pair, err := abi.JSON(strings.NewReader(pairABIJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse pair ABI: %w", err)
	}

	return &Client{
		eth:         eth,
		erc20:       erc20,
		factory:     factory,
		pair:        pair,
		factoryAddr: common.HexToAddress(cfg.PancakeFactory),
	}, nil
}

// Close releases the underlying RPC connection.
func (c *Client) Close() {
	c.eth.Close()
}

func (c *Client) call(ctx context.Context, contract common.Address, parsed abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s call: %w", method, err)
	}

	raw, err := c.eth.CallContract(ctx, ethereum.CallMsg{To: &contract, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("%s call failed: %w", method, err)
	}

	out, err := parsed.Unpack(method, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s result: %w", method, err)
	}
	return out, nil
}

// TokenMetadata reads the symbol and decimals of an ERC20 token.
func (c *Client) TokenMetadata(ctx context.Context, token common.Address) (string, uint8, error) {
	symOut, err := c.call(ctx, token, c.erc20, "symbol")
	if err != nil {
		return "", 0, err
	}
	symbol, ok := symOut[0].(string)
	if !ok {
		return "", 0, fmt.Errorf("unexpected symbol type %T", symOut[0])
	}

	decOut, err := c.call(ctx, token, c.erc20, "decimals")
	if err != nil {
		return "", 0, err
	}
	decimals, ok := decOut[0].(uint8)
	if !ok {
		return "", 0, fmt.Errorf("unexpected decimals type %T", decOut[0])
	}

	return symbol, decimals, nil
}

// PairReserves resolves the pool for base/quote and returns its reserves
// ordered as (base, quote) regardless of the pool's internal token order.
func (c *Client) PairReserves(ctx context.Context, base, quote common.Address) (*big.Int, *big.Int, error) {
	pairOut, err := c.call(ctx, c.factoryAddr, c.factory, "getPair", base, quote)
	if err != nil {
		return nil, nil, err
	}
	pairAddr, ok := pairOut[0].(common.Address)
	if !ok {
		return nil, nil, fmt.Errorf("unexpected pair type %T", pairOut[0])
	}
	if pairAddr == (common.Address{}) {
		return nil, nil, ErrNoPair
	}

	resOut, err := c.call(ctx, pairAddr, c.pair, "getReserves")
	if err != nil {
		return nil, nil, err
	}
	reserve0, ok0 := resOut[0].(*big.Int)
	reserve1, ok1 := resOut[1].(*big.Int)
	if !ok0 || !ok1 {
		return nil, nil, fmt.Errorf("unexpected reserve types %T, %T", resOut[0], resOut[1])
	}

	tok0Out, err := c.call(ctx, pairAddr, c.pair, "token0")
	if err != nil {
		return nil, nil, err
	}
	token0, ok := tok0Out[0].(common.Address)
	if !ok {
		return nil, nil, fmt.Errorf("unexpected token0 type %T", tok0Out[0])
	}

	if token0 == base {
		return reserve0, reserve1, nil
	}
	return reserve1, reserve0, nil
}
