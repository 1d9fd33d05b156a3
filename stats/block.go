package stats

import (
	"errors"
	"fmt"

	"github.com/NethermindEth/blockstats/utils"
)

var ErrMissingField = errors.New("missing field")

// RawBlock is the result object of an eth_getBlockByNumber call made with
// full transaction objects, as decoded from JSON.
type RawBlock map[string]any

// RawTransaction is a single entry of a RawBlock's transaction list.
type RawTransaction map[string]any

func (b RawBlock) has(key string) bool {
	_, ok := b[key]
	return ok
}

func (b RawBlock) quantity(key string) (uint64, error) {
	return quantity(b, key)
}

// text returns a non-empty string field.
func (b RawBlock) text(key string) (string, error) {
	v, ok := b[key]
	if !ok || v == nil {
		return "", fmt.Errorf("%w: %s", ErrMissingField, key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s: %w: expected string, got %T", key, utils.ErrTypeMismatch, v)
	}
	if s == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingField, key)
	}
	return s, nil
}

func (b RawBlock) transactions() ([]RawTransaction, error) {
	v, ok := b["transactions"]
	if !ok || v == nil {
		return nil, fmt.Errorf("%w: transactions", ErrMissingField)
	}

	switch list := v.(type) {
	case []RawTransaction:
		return list, nil
	case []any:
		txs := make([]RawTransaction, len(list))
		for i, item := range list {
			switch tx := item.(type) {
			case map[string]any:
				txs[i] = tx
			case RawTransaction:
				txs[i] = tx
			default:
				return nil, fmt.Errorf("transactions[%d]: %w: expected object, got %T", i, utils.ErrTypeMismatch, item)
			}
		}
		return txs, nil
	default:
		return nil, fmt.Errorf("transactions: %w: expected list, got %T", utils.ErrTypeMismatch, v)
	}
}

func (tx RawTransaction) quantity(key string) (uint64, error) {
	return quantity(tx, key)
}

func quantity(doc map[string]any, key string) (uint64, error) {
	n, err := utils.HexToUint64(doc[key])
	if err != nil {
		return 0, fmt.Errorf("decode %s: %w", key, err)
	}
	return n, nil
}
