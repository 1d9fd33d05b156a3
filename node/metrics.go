package node

import (
	"time"

	"github.com/NethermindEth/blockstats/eth"
	"github.com/NethermindEth/blockstats/monitor"
	"github.com/NethermindEth/blockstats/stats"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "blockstats"

func makeMonitorMetrics() monitor.EventListener {
	gauge := func(name string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
		})
	}
	blockNumber := gauge("block_number")
	transactions := gauge("transactions")
	gasUtilization := gauge("gas_utilization_percent")
	gasDeviation := gauge("gas_target_deviation_percent")
	baseFee := gauge("base_fee_gwei")
	nextBaseFee := gauge("next_base_fee_gwei")
	blobUtilization := gauge("blob_gas_utilization_percent")
	txTypes := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "transactions_by_type",
	}, []string{"type"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "failures",
	}, []string{"stage"})
	prometheus.MustRegister(blockNumber, transactions, gasUtilization, gasDeviation, baseFee,
		nextBaseFee, blobUtilization, txTypes, failures)

	return &monitor.SelectiveListener{
		OnSummaryCb: func(s *stats.Summary) {
			blockNumber.Set(float64(s.Header.Number))
			transactions.Set(float64(s.TxCount))
			gasUtilization.Set(s.Target.MaxUtilizationPct)
			gasDeviation.Set(s.Target.TargetDeviationPct)
			baseFee.Set(s.Fees.BaseFee)
			nextBaseFee.Set(s.Fees.NextBaseFee)

			txTypes.WithLabelValues("transfer").Set(float64(s.Types.Transfer))
			txTypes.WithLabelValues("access_list").Set(float64(s.Types.AccessList))
			txTypes.WithLabelValues("execution").Set(float64(s.Types.Execution))
			txTypes.WithLabelValues("blob").Set(float64(s.Types.Blob))

			if s.Blob != nil {
				blobUtilization.Set(s.Blob.MaxUtilizationPct)
			} else {
				blobUtilization.Set(0)
			}
		},
		OnFailureCb: func(stage monitor.Stage, _ error) {
			failures.WithLabelValues(string(stage)).Inc()
		},
	}
}

func makeEthMetrics() eth.EventListener {
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "eth_request_latency",
	}, []string{"method", "status"})
	prometheus.MustRegister(latency)

	return &eth.SelectiveListener{
		OnCallCb: func(method string, took time.Duration, err error) {
			status := "ok"
			if err != nil {
				status = "error"
			}
			latency.WithLabelValues(method, status).Observe(took.Seconds())
		},
	}
}
