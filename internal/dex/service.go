package dex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/lattice-hq/sentinel/internal/config"
	apperrors "github.com/lattice-hq/sentinel/pkg/errors"
)

// ErrNoLiquidity is returned when a pool exists but one side is empty.
var ErrNoLiquidity = errors.New("pair has no liquidity")

// ChainReader is the slice of the node client the service needs.
type ChainReader interface {
	TokenMetadata(ctx context.Context, token common.Address) (string, uint8, error)
	PairReserves(ctx context.Context, base, quote common.Address) (*big.Int, *big.Int, error)
}

// Quote is a spot price for a BSC token denominated in BUSD.
type Quote struct {
	Token     string          `json:"token"`
	Symbol    string          `json:"symbol"`
	Decimals  uint8           `json:"decimals"`
	PriceBUSD decimal.Decimal `json:"price_busd"`
	Route     string          `json:"route"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// Service computes token quotes from PancakeSwap pools, with a short-lived
// Redis cache in front of the node.
type Service struct {
	chain  ChainReader
	cache  redis.UniversalClient
	cfg    config.BlockchainConfig
	logger *zap.Logger

	wbnb common.Address
	busd common.Address
}

// NewService creates a new dex quote service. cache may be nil, in which
// case every quote hits the node.
func NewService(chain ChainReader, cache redis.UniversalClient, cfg config.BlockchainConfig, logger *zap.Logger) *Service {
	return &Service{
		chain:  chain,
		cache:  cache,
		cfg:    cfg,
		logger: logger,
		wbnb:   common.HexToAddress(cfg.WBNBAddress),
		busd:   common.HexToAddress(cfg.BUSDAddress),
	}
}

// Quote returns the BUSD price of the given token. A direct token/BUSD
// pool is preferred; otherwise the price is routed through WBNB.
func (s *Service) Quote(ctx context.Context, tokenAddr string) (*Quote, error) {
	if !common.IsHexAddress(tokenAddr) {
		return nil, apperrors.NewAppError(apperrors.ErrCodeValidationFailed, "token must be a hex address", 400)
	}
	token := common.HexToAddress(tokenAddr)

	cacheKey := "dex:quote:bsc:" + token.Hex()
	if cached := s.fromCache(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	symbol, decimals, err := s.chain.TokenMetadata(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to read token metadata: %w", err)
	}

	price, route, err := s.priceInBUSD(ctx, token, decimals)
	if err != nil {
		if errors.Is(err, ErrNoPair) {
			return nil, apperrors.NewAppError(apperrors.ErrCodeNotFound, "no liquidity pool for token", 404)
		}
		return nil, err
	}

	quote := &Quote{
		Token:     token.Hex(),
		Symbol:    symbol,
		Decimals:  decimals,
		PriceBUSD: price,
		Route:     route,
		FetchedAt: time.Now().UTC(),
	}
	s.toCache(ctx, cacheKey, quote)

	return quote, nil
}

const (
	busdDecimals = 18
	wbnbDecimals = 18
)

func (s *Service) priceInBUSD(ctx context.Context, token common.Address, decimals uint8) (decimal.Decimal, string, error) {
	// Direct pool first.
	baseReserve, quoteReserve, err := s.chain.PairReserves(ctx, token, s.busd)
	if err == nil {
		price, perr := priceFromReserves(baseReserve, quoteReserve, decimals, busdDecimals)
		return price, "direct", perr
	}
	if !errors.Is(err, ErrNoPair) {
		return decimal.Decimal{}, "", err
	}

	// Route through WBNB.
	baseReserve, quoteReserve, err = s.chain.PairReserves(ctx, token, s.wbnb)
	if err != nil {
		return decimal.Decimal{}, "", err
	}
	tokenInWBNB, err := priceFromReserves(baseReserve, quoteReserve, decimals, wbnbDecimals)
	if err != nil {
		return decimal.Decimal{}, "", err
	}

	baseReserve, quoteReserve, err = s.chain.PairReserves(ctx, s.wbnb, s.busd)
	if err != nil {
		return decimal.Decimal{}, "", err
	}
	wbnbInBUSD, err := priceFromReserves(baseReserve, quoteReserve, wbnbDecimals, busdDecimals)
	if err != nil {
		return decimal.Decimal{}, "", err
	}

	return tokenInWBNB.Mul(wbnbInBUSD), "wbnb", nil
}

// priceFromReserves derives the quote-per-base spot price implied by a
// constant-product pool, normalizing both reserves by their token decimals.
func priceFromReserves(baseReserve, quoteReserve *big.Int, baseDecimals, quoteDecimals uint8) (decimal.Decimal, error) {
	if baseReserve.Sign() == 0 || quoteReserve.Sign() == 0 {
		return decimal.Decimal{}, ErrNoLiquidity
	}

	base := decimal.NewFromBigInt(baseReserve, -int32(baseDecimals))
	quote := decimal.NewFromBigInt(quoteReserve, -int32(quoteDecimals))
	return quote.DivRound(base, 18), nil
}

func (s *Service) fromCache(ctx context.Context, key string) *Quote {
	if s.cache == nil {
		return nil
	}

	raw, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("quote cache read failed", zap.Error(err))
		}
		return nil
	}

	var quote Quote
	if err := json.Unmarshal(raw, &quote); err != nil {
		s.logger.Warn("quote cache entry unreadable", zap.Error(err))
		return nil
	}
	return &quote
}

func (s *Service) toCache(ctx context.Context, key string, quote *Quote) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(quote)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cfg.QuoteCacheTTL).Err(); err != nil {
		s.logger.Warn("quote cache write failed", zap.Error(err))
	}
}
