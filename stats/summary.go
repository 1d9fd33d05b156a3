package stats

import (
	"fmt"
	"math/big"

	"github.com/NethermindEth/blockstats/utils"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/consensus/misc/eip1559"
	"github.com/ethereum/go-ethereum/consensus/misc/eip4844"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/params"
)

// londonConfig activates EIP-1559 from genesis so that base fee prediction
// does not depend on the chain the block came from.
var londonConfig = &params.ChainConfig{
	ChainID:     big.NewInt(1),
	LondonBlock: big.NewInt(0),
}

// maxBlobFeeExcess bounds the excess blob gas fed to the fee approximation,
// whose running time grows linearly with it. Past this point the fee is above
// 2^256 wei and is reported as saturated.
const maxBlobFeeExcess = 180 * params.BlobTxBlobGaspriceUpdateFraction

type Header struct {
	Number    uint64 `json:"number" yaml:"number"`
	Hash      string `json:"hash" yaml:"hash"`
	Miner     string `json:"miner" yaml:"miner"`
	SizeKB    uint64 `json:"size_kb" yaml:"size_kb"`
	Timestamp uint64 `json:"timestamp" yaml:"timestamp"`
}

// TypeHistogram counts transactions by EIP-2718 type code.
type TypeHistogram struct {
	Transfer   uint64 `json:"transfer" yaml:"transfer"`
	AccessList uint64 `json:"access_list" yaml:"access_list"`
	Execution  uint64 `json:"execution" yaml:"execution"`
	Blob       uint64 `json:"blob" yaml:"blob"`
}

// add counts a transaction type; unknown codes are ignored.
func (h *TypeHistogram) add(txType uint64) {
	switch txType {
	case types.LegacyTxType:
		h.Transfer++
	case types.AccessListTxType:
		h.AccessList++
	case types.DynamicFeeTxType:
		h.Execution++
	case types.BlobTxType:
		h.Blob++
	}
}

func (h TypeHistogram) Total() uint64 {
	return h.Transfer + h.AccessList + h.Execution + h.Blob
}

type GasStats struct {
	Min uint64 `json:"min" yaml:"min"`
	Max uint64 `json:"max" yaml:"max"`
	Avg uint64 `json:"avg" yaml:"avg"`
	Sum uint64 `json:"sum" yaml:"sum"`
}

type accumulator struct {
	count    uint64
	min, max uint64
	sum      uint64
}

func (a *accumulator) observe(v uint64) {
	if a.count == 0 || v < a.min {
		a.min = v
	}
	if v > a.max {
		a.max = v
	}
	a.sum += v
	a.count++
}

func (a *accumulator) stats() GasStats {
	s := GasStats{Min: a.min, Max: a.max, Sum: a.sum}
	if a.count > 0 {
		s.Avg = a.sum / a.count
	}
	return s
}

// GasTarget is the EIP-1559 view of a block's gas consumption.
type GasTarget struct {
	Used               uint64  `json:"used" yaml:"used"`
	Limit              uint64  `json:"limit" yaml:"limit"`
	Target             uint64  `json:"target" yaml:"target"`
	TargetDeviationPct float64 `json:"target_deviation_pct" yaml:"target_deviation_pct"`
	MaxUtilizationPct  float64 `json:"max_utilization_pct" yaml:"max_utilization_pct"`
}

// BaseFeeIncreasing reports the direction of the next base fee adjustment.
// A block exactly on target counts as increasing.
func (g GasTarget) BaseFeeIncreasing() bool {
	return !(g.TargetDeviationPct < 0)
}

// Fees are expressed in Gwei. Priority fees are derived from gas price
// statistics minus the base fee and may be negative.
type Fees struct {
	BaseFee        float64 `json:"base_fee_gwei" yaml:"base_fee_gwei"`
	NextBaseFee    float64 `json:"next_base_fee_gwei" yaml:"next_base_fee_gwei"`
	PriorityFeeMin float64 `json:"priority_fee_min_gwei" yaml:"priority_fee_min_gwei"`
	PriorityFeeMax float64 `json:"priority_fee_max_gwei" yaml:"priority_fee_max_gwei"`
	PriorityFeeAvg float64 `json:"priority_fee_avg_gwei" yaml:"priority_fee_avg_gwei"`
}

// BlobStats is the EIP-4844 view of a block's blob gas consumption.
type BlobStats struct {
	Used               uint64  `json:"used" yaml:"used"`
	Excess             uint64  `json:"excess" yaml:"excess"`
	Target             uint64  `json:"target" yaml:"target"`
	Max                uint64  `json:"max" yaml:"max"`
	Count              uint64  `json:"count" yaml:"count"`
	TargetDeviationPct float64 `json:"target_deviation_pct" yaml:"target_deviation_pct"`
	MaxUtilizationPct  float64 `json:"max_utilization_pct" yaml:"max_utilization_pct"`
	// BaseFee is the blob base fee in wei, in decimal.
	BaseFee string `json:"base_fee_wei" yaml:"base_fee_wei"`
}

func (b BlobStats) BaseFeeIncreasing() bool {
	return !(b.TargetDeviationPct < 0)
}

// Summary holds every statistic derived from one block.
type Summary struct {
	PollTimestamp uint64        `json:"poll_timestamp" yaml:"poll_timestamp"`
	Header        Header        `json:"header" yaml:"header"`
	TxCount       int           `json:"tx_count" yaml:"tx_count"`
	Types         TypeHistogram `json:"types" yaml:"types"`
	Gas           GasStats      `json:"gas" yaml:"gas"`
	GasPrice      GasStats      `json:"gas_price" yaml:"gas_price"`
	Target        GasTarget     `json:"gas_target" yaml:"gas_target"`
	Fees          Fees          `json:"fees" yaml:"fees"`
	Blob          *BlobStats    `json:"blob,omitempty" yaml:"blob,omitempty"`
}

// Summarize derives the statistics of a block in a single pass over its
// transactions. number is the block number tracked by the caller and
// pollTimestamp the unix time of the poll. Any decode failure aborts the
// whole summary.
func Summarize(block RawBlock, number, pollTimestamp uint64, schedule BlobSchedule) (*Summary, error) {
	header, err := summarizeHeader(block, number)
	if err != nil {
		return nil, err
	}

	txs, err := block.transactions()
	if err != nil {
		return nil, err
	}

	var (
		gas, gasPrice accumulator
		histogram     TypeHistogram
	)
	for i, tx := range txs {
		txGas, err := tx.quantity("gas")
		if err != nil {
			return nil, wrapTx(i, err)
		}
		txGasPrice, err := tx.quantity("gasPrice")
		if err != nil {
			return nil, wrapTx(i, err)
		}
		txType, err := tx.quantity("type")
		if err != nil {
			return nil, wrapTx(i, err)
		}

		gas.observe(txGas)
		gasPrice.observe(txGasPrice)
		histogram.add(txType)
	}

	target, err := summarizeGasTarget(block)
	if err != nil {
		return nil, err
	}

	priceStats := gasPrice.stats()
	fees, err := summarizeFees(block, header.Number, target, priceStats)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		PollTimestamp: pollTimestamp,
		Header:        header,
		TxCount:       len(txs),
		Types:         histogram,
		Gas:           gas.stats(),
		GasPrice:      priceStats,
		Target:        target,
		Fees:          fees,
	}

	if block.has("blobGasUsed") {
		blob, err := summarizeBlobs(block, schedule)
		if err != nil {
			return nil, err
		}
		summary.Blob = blob
	}

	return summary, nil
}

func summarizeHeader(block RawBlock, number uint64) (Header, error) {
	size, err := block.quantity("size")
	if err != nil {
		return Header{}, err
	}
	timestamp, err := block.quantity("timestamp")
	if err != nil {
		return Header{}, err
	}
	hash, err := block.text("hash")
	if err != nil {
		return Header{}, err
	}
	miner, err := block.text("miner")
	if err != nil {
		return Header{}, err
	}

	return Header{
		Number:    number,
		Hash:      hash,
		Miner:     miner,
		SizeKB:    size / 1000,
		Timestamp: timestamp,
	}, nil
}

func summarizeGasTarget(block RawBlock) (GasTarget, error) {
	used, err := block.quantity("gasUsed")
	if err != nil {
		return GasTarget{}, err
	}
	limit, err := block.quantity("gasLimit")
	if err != nil {
		return GasTarget{}, err
	}
	target := limit / params.DefaultElasticityMultiplier

	return GasTarget{
		Used:               used,
		Limit:              limit,
		Target:             target,
		TargetDeviationPct: deviationPct(used, target),
		MaxUtilizationPct:  percent(used, limit),
	}, nil
}

func summarizeFees(block RawBlock, number uint64, target GasTarget, price GasStats) (Fees, error) {
	baseFee, err := block.quantity("baseFeePerGas")
	if err != nil {
		return Fees{}, err
	}

	baseFeeGwei := utils.WeiToGwei(baseFee)
	return Fees{
		BaseFee:        baseFeeGwei,
		NextBaseFee:    nextBaseFeeGwei(number, target, baseFee),
		PriorityFeeMin: utils.WeiToGwei(price.Min) - baseFeeGwei,
		PriorityFeeMax: utils.WeiToGwei(price.Max) - baseFeeGwei,
		PriorityFeeAvg: utils.WeiToGwei(price.Avg) - baseFeeGwei,
	}, nil
}

// nextBaseFeeGwei predicts the base fee of the child block.
func nextBaseFeeGwei(number uint64, target GasTarget, baseFee uint64) float64 {
	if target.Target == 0 {
		return utils.WeiToGwei(baseFee)
	}
	next := eip1559.CalcBaseFee(londonConfig, &types.Header{
		Number:   new(big.Int).SetUint64(number),
		GasLimit: target.Limit,
		GasUsed:  target.Used,
		BaseFee:  new(big.Int).SetUint64(baseFee),
	})
	gwei, _ := new(big.Float).Quo(new(big.Float).SetInt(next), big.NewFloat(params.GWei)).Float64()
	return gwei
}

func summarizeBlobs(block RawBlock, schedule BlobSchedule) (*BlobStats, error) {
	used, err := block.quantity("blobGasUsed")
	if err != nil {
		return nil, err
	}
	excess, err := block.quantity("excessBlobGas")
	if err != nil {
		return nil, err
	}

	return &BlobStats{
		Used:               used,
		Excess:             excess,
		Target:             schedule.Target,
		Max:                schedule.Max,
		Count:              used / params.BlobTxBlobGasPerBlob,
		TargetDeviationPct: deviationPct(used, schedule.Target),
		MaxUtilizationPct:  percent(used, schedule.Max),
		BaseFee:            blobBaseFee(excess).String(),
	}, nil
}

func blobBaseFee(excess uint64) *big.Int {
	if excess > maxBlobFeeExcess {
		return math.MaxBig256
	}
	return eip4844.CalcBlobFee(excess)
}

// deviationPct is the signed distance of used from target, in percent of target.
func deviationPct(used, target uint64) float64 {
	if target == 0 {
		return 0
	}
	return 100 * (float64(used) - float64(target)) / float64(target)
}

func percent(part, whole uint64) float64 {
	if whole == 0 {
		return 0
	}
	return 100 * float64(part) / float64(whole)
}

func wrapTx(i int, err error) error {
	return fmt.Errorf("transactions[%d]: %w", i, err)
}
