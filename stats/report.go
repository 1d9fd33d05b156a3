package stats

import (
	"fmt"

	"github.com/NethermindEth/blockstats/utils"
)

const linePrefix = "---"

type Section struct {
	Title string
	Lines []string
}

// Report is the ordered list of sections describing a block: System, Block,
// Transactions, Gas and, for blocks carrying blob gas fields, Blob.
type Report []Section

// Lines flattens the report, separating sections with one blank line.
func (r Report) Lines() []string {
	var lines []string
	for i, section := range r {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, section.Title)
		lines = append(lines, section.Lines...)
	}
	return lines
}

func (s *Summary) Report() Report {
	report := Report{
		s.systemSection(),
		s.blockSection(),
		s.txsSection(),
		s.gasSection(),
	}
	if s.Blob != nil {
		report = append(report, s.Blob.section())
	}
	return report
}

func (s *Summary) systemSection() Section {
	return Section{
		Title: "System info:",
		Lines: []string{
			line("Timestamp: %d", s.PollTimestamp),
		},
	}
}

func (s *Summary) blockSection() Section {
	h := s.Header
	return Section{
		Title: "Block info:",
		Lines: []string{
			line("Block timestamp: %d", h.Timestamp),
			line("Block number: %d", h.Number),
			line("Block hash: %s", h.Hash),
			line("Block validator: %s", h.Miner),
			line("Block size: %d kb", h.SizeKB),
		},
	}
}

func (s *Summary) txsSection() Section {
	t := s.Types
	return Section{
		Title: "Txs info:",
		Lines: []string{
			line("Tx nb: %d", s.TxCount),
			line("transfer: %d, access list: %d, execution: %d, blob: %d", t.Transfer, t.AccessList, t.Execution, t.Blob),
		},
	}
}

func (s *Summary) gasSection() Section {
	target, fees := s.Target, s.Fees

	direction := "Base fee will increase"
	if !target.BaseFeeIncreasing() {
		direction = "Base fee will decrease"
	}

	return Section{
		Title: "Gas info:",
		Lines: []string{
			line("Gas target: %s, Gas total usage %s",
				utils.FormatMagnitude(target.Target), utils.FormatMagnitude(target.Used)),
			line("Gas objective %+.2f%% from target, %.2f%% of maximum",
				target.TargetDeviationPct, target.MaxUtilizationPct),
			line("%s", direction),
			line("Gas usage: min=%s, max=%s, avg=%s",
				utils.FormatMagnitude(s.Gas.Min), utils.FormatMagnitude(s.Gas.Max), utils.FormatMagnitude(s.Gas.Avg)),
			line("Gas price: min=%.2f Gwei, max=%.2f Gwei, avg=%.2f Gwei",
				utils.WeiToGwei(s.GasPrice.Min), utils.WeiToGwei(s.GasPrice.Max), utils.WeiToGwei(s.GasPrice.Avg)),
			line("Base fee: %.2f Gwei", fees.BaseFee),
			line("Next base fee: %.2f Gwei", fees.NextBaseFee),
			line("Priority fee: min=%.2f Gwei, max=%.2f Gwei, avg=%.2f Gwei",
				fees.PriorityFeeMin, fees.PriorityFeeMax, fees.PriorityFeeAvg),
		},
	}
}

func (b *BlobStats) section() Section {
	direction := "Blob base fee will increase"
	if !b.BaseFeeIncreasing() {
		direction = "Blob base fee will decrease"
	}

	return Section{
		Title: "Blob info:",
		Lines: []string{
			line("Blob count: %d", b.Count),
			line("Blob gas target: %s, Blob gas total usage %s, Blob excess gas %s",
				utils.FormatMagnitude(b.Target), utils.FormatMagnitude(b.Used), utils.FormatMagnitude(b.Excess)),
			line("Blob gas objective %+.2f%% from target, %.2f%% of maximum",
				b.TargetDeviationPct, b.MaxUtilizationPct),
			line("%s", direction),
			line("Blob base fee: %s wei", b.BaseFee),
		},
	}
}

func line(format string, args ...any) string {
	return linePrefix + fmt.Sprintf(format, args...)
}
