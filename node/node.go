package node

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"reflect"
	"strconv"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/NethermindEth/blockstats/eth"
	"github.com/NethermindEth/blockstats/monitor"
	"github.com/NethermindEth/blockstats/render"
	"github.com/NethermindEth/blockstats/service"
	"github.com/NethermindEth/blockstats/stats"
	"github.com/NethermindEth/blockstats/utils"
	"github.com/NethermindEth/blockstats/validator"
	"github.com/sourcegraph/conc"
)

const dialTimeout = time.Minute

// Config is the top-level blockstats configuration.
type Config struct {
	LogLevel utils.LogLevel `mapstructure:"log-level"`
	Colour   bool           `mapstructure:"colour"`

	EthNode        string        `mapstructure:"eth-node" validate:"required,eth_url"`
	RequestTimeout time.Duration `mapstructure:"request-timeout" validate:"gt=0"`

	PollInterval time.Duration `mapstructure:"poll-interval" validate:"gt=0"`
	ResyncEvery  uint64        `mapstructure:"resync-every" validate:"min=1"`
	BlobSchedule stats.Fork    `mapstructure:"blob-schedule" validate:"oneof=cancun prague"`

	Output render.Format `mapstructure:"output" validate:"oneof=box json yaml"`
	Clear  bool          `mapstructure:"clear"`

	Metrics     bool   `mapstructure:"metrics"`
	MetricsHost string `mapstructure:"metrics-host" validate:"omitempty,hostname|ip"`
	MetricsPort uint16 `mapstructure:"metrics-port"`
}

type BlockstatsNode interface {
	Run(ctx context.Context)
	Config() Config
}

type NewBlockstatsNodeFn func(cfg *Config, version string) (BlockstatsNode, error)

type Node struct {
	cfg      *Config
	services []service.Service
	log      utils.SimpleLogger

	version string
}

var _ BlockstatsNode = (*Node)(nil)

// New validates the config and wires the monitor, and the metrics server when
// enabled. Reports are written to stdout.
func New(cfg *Config, version string) (*Node, error) {
	return newNode(cfg, version, os.Stdout)
}

func newNode(cfg *Config, version string, out io.Writer) (*Node, error) {
	if err := validator.Validator().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log, err := utils.NewZapLogger(cfg.LogLevel, cfg.Colour)
	if err != nil {
		return nil, err
	}

	schedule, err := stats.BlobScheduleFor(cfg.BlobSchedule)
	if err != nil {
		return nil, err
	}
	renderer, err := render.New(cfg.Output, cfg.Clear)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	client, err := eth.NewRPCClient(ctx, cfg.EthNode, cfg.RequestTimeout)
	if err != nil {
		return nil, fmt.Errorf("create Ethereum client: %w", err)
	}
	client.WithUserAgent(userAgent(version, log))

	mon := monitor.New(client, monitor.Config{
		PollInterval: cfg.PollInterval,
		ResyncEvery:  cfg.ResyncEvery,
		Schedule:     schedule,
	}, renderer, out, log)

	services := []service.Service{mon}
	if cfg.Metrics {
		mon.WithListener(makeMonitorMetrics())
		client.WithListener(makeEthMetrics())

		listener, err := net.Listen("tcp", net.JoinHostPort(cfg.MetricsHost, strconv.Itoa(int(cfg.MetricsPort))))
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("listen on metrics port: %w", err)
		}
		log.Infow("Metrics server listening", "addr", listener.Addr().String())
		services = append(services, makeMetrics(listener))
	}

	return &Node{
		cfg:      cfg,
		services: services,
		log:      log,
		version:  version,
	}, nil
}

func userAgent(version string, log utils.SimpleLogger) string {
	semversion, err := semver.NewVersion(version)
	if err != nil {
		log.Warnw("Failed to parse blockstats version, reporting as dev build", "version", version)
		return "blockstats/dev"
	}
	return "blockstats/" + semversion.String()
}

// Run starts all services and blocks until ctx is cancelled or one of them
// fails. Run waits for every service to return before exiting.
func (n *Node) Run(ctx context.Context) {
	n.log.Infow("Starting blockstats", "version", n.version, "eth-node", n.cfg.EthNode,
		"blob-schedule", n.cfg.BlobSchedule.String())

	ctx, cancel := context.WithCancel(ctx)
	wg := conc.NewWaitGroup()
	for _, s := range n.services {
		wg.Go(func() {
			if err := s.Run(ctx); err != nil {
				n.log.Errorw("Service error", "name", reflect.TypeOf(s), "err", err)
				cancel()
			}
		})
	}
	defer wg.Wait()

	<-ctx.Done()
	cancel()
	n.log.Infow("Shutting down blockstats...")
}

func (n *Node) Config() Config {
	return *n.cfg
}
