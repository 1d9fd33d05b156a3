package main

import (
	"fmt"
	"time"

	"github.com/NethermindEth/blockstats/monitor"
	"github.com/NethermindEth/blockstats/node"
	"github.com/NethermindEth/blockstats/render"
	"github.com/NethermindEth/blockstats/stats"
	"github.com/NethermindEth/blockstats/utils"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Version string

const greeting = `
 _     _            _        _        _       
| |__ | | ___   ___| | _____| |_ __ _| |_ ___ 
| '_ \| |/ _ \ / __| |/ / __| __/ _' | __/ __|
| |_) | | (_) | (__|   <\__ \ || (_| | |_\__ \
|_.__/|_|\___/ \___|_|\_\___/\__\__,_|\__|___/

blockstats %s follows Ethereum block by block and reports gas and blob usage.

`

const (
	configF         = "config"
	logLevelF       = "log-level"
	colourF         = "colour"
	ethNodeF        = "eth-node"
	requestTimeoutF = "request-timeout"
	pollIntervalF   = "poll-interval"
	resyncEveryF    = "resync-every"
	blobScheduleF   = "blob-schedule"
	outputF         = "output"
	clearF          = "clear"
	metricsF        = "metrics"
	metricsHostF    = "metrics-host"
	metricsPortF    = "metrics-port"

	defaultConfig         = ""
	defaultColour         = true
	defaultEthNode        = ""
	defaultRequestTimeout = 10 * time.Second
	defaultPollInterval   = monitor.DefaultPollInterval
	defaultResyncEvery    = uint64(monitor.DefaultResyncEvery)
	defaultClear          = false
	defaultMetrics        = false
	defaultMetricsHost    = "localhost"
	defaultMetricsPort    = uint16(9090)

	configFlagUsage   = "The yaml configuration file."
	logLevelFlagUsage = "Options: debug, info, warn, error."
	colourUsage       = "Uses --colour=false command to disable colourized outputs (ANSI Escape Codes)."
	ethNodeUsage      = "The Ethereum execution node JSON-RPC endpoint (http, https, ws or wss)."
	requestTimeout    = "Maximum duration of a single request to the Ethereum node."
	pollIntervalUsage = "Time between two polling cycles."
	resyncEveryUsage  = "Number of polling cycles between two lookups of the chain head."
	blobScheduleUsage = "Fork whose blob gas schedule is used. Options: cancun, prague."
	outputUsage       = "Report format. Options: box, json, yaml."
	clearUsage        = "Clears the terminal before each box report."
	metricsUsage      = "Enables the Prometheus metrics endpoint."
	metricsHostUsage  = "The interface on which the metrics server listens."
	metricsPortUsage  = "The port on which the metrics server listens."
)

var BlockstatsNode node.BlockstatsNode

func NewCmd(newNodeFn node.NewBlockstatsNodeFn) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "blockstats [flags]",
		Short:   "Ethereum block statistics monitor.",
		Version: Version,
	}

	var cfgFile string
	defaultLogLevel := utils.NewLogLevel(utils.INFO)
	defaultBlobSchedule := stats.Cancun
	defaultOutput := render.Box

	cmd.Flags().StringVar(&cfgFile, configF, defaultConfig, configFlagUsage)
	cmd.Flags().Var(defaultLogLevel, logLevelF, logLevelFlagUsage)
	cmd.Flags().Bool(colourF, defaultColour, colourUsage)
	cmd.Flags().String(ethNodeF, defaultEthNode, ethNodeUsage)
	cmd.Flags().Duration(requestTimeoutF, defaultRequestTimeout, requestTimeout)
	cmd.Flags().Duration(pollIntervalF, defaultPollInterval, pollIntervalUsage)
	cmd.Flags().Uint64(resyncEveryF, defaultResyncEvery, resyncEveryUsage)
	cmd.Flags().Var(&defaultBlobSchedule, blobScheduleF, blobScheduleUsage)
	cmd.Flags().Var(&defaultOutput, outputF, outputUsage)
	cmd.Flags().Bool(clearF, defaultClear, clearUsage)
	cmd.Flags().Bool(metricsF, defaultMetrics, metricsUsage)
	cmd.Flags().String(metricsHostF, defaultMetricsHost, metricsHostUsage)
	cmd.Flags().Uint16(metricsPortF, defaultMetricsPort, metricsPortUsage)

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		v := viper.New()
		if cfgFile != "" {
			v.SetConfigType("yaml")
			v.SetConfigFile(cfgFile)
			if err := v.ReadInConfig(); err != nil {
				return err
			}
		}

		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return err
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), greeting, Version); err != nil {
			return err
		}

		cfg := new(node.Config)
		if err := v.Unmarshal(cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
		))); err != nil {
			return err
		}

		var err error
		BlockstatsNode, err = newNodeFn(cfg, Version)
		if err != nil {
			return err
		}

		BlockstatsNode.Run(cmd.Context())
		return nil
	}

	return cmd
}
