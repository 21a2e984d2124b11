package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/rvcosim/datarecording"
	"github.com/sarchlab/rvcosim/mem"
	"github.com/sarchlab/rvcosim/mem/acceptancetests/memaccessagent"
	"github.com/sarchlab/rvcosim/mem/cache/writeback"
	"github.com/sarchlab/rvcosim/mem/idealmem"
	"github.com/sarchlab/rvcosim/mem/trace"
	"github.com/sarchlab/rvcosim/monitoring"
	"github.com/sarchlab/rvcosim/sim"
	"github.com/sarchlab/rvcosim/tracing"
)

// ErrMismatch is returned when a read returned data other than what was
// written.
var ErrMismatch = errors.New("data mismatch")

type runConfig struct {
	Ways        int
	Lines       int
	LineSize    int
	AddrWidth   int
	AccessWidth int
	Coupled     bool
	MemLatency  int

	Workload workloadConfig

	Record         string
	DumpTrace      string
	Monitor        bool
	MonitorPort    int
	OpenBrowser    bool
	LogTransitions bool
	LogEvents      bool
}

var runCfg runConfig

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a workload through the cache.",
	Long: "Run a workload through a write-back cache backed by an ideal " +
		"memory, check every read, and print the statistics. Flag defaults " +
		"can be set with CACHESIM_* variables, also from a .env file.",
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runSimulation(runCfg)
	},
}

func init() {
	loadEnv()

	f := runCmd.Flags()
	f.IntVar(&runCfg.Ways, "ways", envInt("WAYS", 4),
		"Number of ways per set")
	f.IntVar(&runCfg.Lines, "lines", envInt("LINES", 64),
		"Number of lines per way")
	f.IntVar(&runCfg.LineSize, "line-size", envInt("LINE_SIZE", 64),
		"Line size in bytes")
	f.IntVar(&runCfg.AddrWidth, "addr-width", envInt("ADDR_WIDTH", 32),
		"Address width in bits")
	f.IntVar(&runCfg.AccessWidth, "access-width", envInt("ACCESS_WIDTH", 8),
		"Widest read in bytes")
	f.BoolVar(&runCfg.Coupled, "coupled", envBool("COUPLED", false),
		"Use the coupled dual-bank array that serves line-crossing reads")
	f.IntVar(&runCfg.MemLatency, "mem-latency", envInt("MEM_LATENCY", 100),
		"Memory latency in cycles")

	f.StringVar(&runCfg.Workload.Kind, "workload",
		envString("WORKLOAD", "random"),
		"Workload to run: random, sequential, scenario, or file")
	f.StringVar(&runCfg.Workload.TraceFile, "trace-file",
		envString("TRACE_FILE", ""),
		"Trace to replay with --workload=file")
	f.IntVar(&runCfg.Workload.NumAccess, "num-access",
		envInt("NUM_ACCESS", 10000),
		"Number of writes, and of reads, to generate")
	f.Uint64Var(&runCfg.Workload.MaxAddress, "max-address",
		envUint64("MAX_ADDRESS", 1<<20),
		"Address range of the generated accesses")
	f.Int64Var(&runCfg.Workload.Seed, "seed", int64(envInt("SEED", 0)),
		"Random seed, 0 for a time-based seed")
	f.BoolVar(&runCfg.Workload.FlushAtEnd, "flush-at-end",
		envBool("FLUSH_AT_END", false),
		"Flush the cache after the workload")

	f.StringVar(&runCfg.Record, "record", envString("RECORD", ""),
		"Record traces and statistics into <name>.sqlite3")
	f.StringVar(&runCfg.DumpTrace, "dump-trace", envString("DUMP_TRACE", ""),
		"Write the served requests to a trace file that --workload=file replays")
	f.BoolVar(&runCfg.Monitor, "monitor", envBool("MONITOR", false),
		"Serve the monitoring API while running")
	f.IntVar(&runCfg.MonitorPort, "monitor-port", envInt("MONITOR_PORT", 0),
		"Port of the monitoring server, 0 for a random port")
	f.BoolVar(&runCfg.OpenBrowser, "open-browser",
		envBool("OPEN_BROWSER", false),
		"Open the monitoring server in a browser")
	f.BoolVar(&runCfg.LogTransitions, "log-transitions",
		envBool("LOG_TRANSITIONS", false),
		"Print every phase transition of the cache")
	f.BoolVar(&runCfg.LogEvents, "log-events", envBool("LOG_EVENTS", false),
		"Print every event the engine handles")

	rootCmd.AddCommand(runCmd)
}

type simulation struct {
	engine  *sim.SerialEngine
	memory  *idealmem.Comp
	cache   *writeback.Comp
	agent   *memaccessagent.MemAccessAgent
	latency *tracing.LatencyTracer
	steps   *tracing.StepCountTracer
	record  datarecording.DataRecorder
	monitor *monitoring.Monitor
	bar     *monitoring.ProgressBar
}

func runSimulation(cfg runConfig) error {
	if cfg.Workload.Seed == 0 {
		cfg.Workload.Seed = time.Now().UnixNano()
	}

	fmt.Fprintf(os.Stderr, "Seed %d\n", cfg.Workload.Seed)

	s, err := buildSimulation(cfg)
	if err != nil {
		return err
	}

	s.agent.TickLater()

	err = s.engine.Run()
	if err != nil {
		return err
	}

	s.engine.Finished()

	if s.monitor != nil {
		s.monitor.CompleteProgressBar(s.bar)
		s.monitor.StopServer()
	}

	s.report(os.Stdout)

	return s.check()
}

func buildSimulation(cfg runConfig) (*simulation, error) {
	s := &simulation{engine: sim.NewSerialEngine()}

	if cfg.LogEvents {
		s.engine.AcceptHook(sim.NewEventLogger(log.New(os.Stdout, "", 0)))
	}

	spec := writeback.Spec{
		Freq:        1 * sim.GHz,
		AccessWidth: cfg.AccessWidth,
		Snoop:       true,
		Coupled:     cfg.Coupled,
	}
	spec.Layout.AddressWidth = cfg.AddrWidth
	spec.Layout.NumWays = cfg.Ways
	spec.Layout.LinesPerWay = cfg.Lines
	spec.Layout.LineSize = cfg.LineSize

	if err := spec.Validate(); err != nil {
		return nil, err
	}

	s.memory = idealmem.MakeBuilder().
		WithEngine(s.engine).
		WithLatency(cfg.MemLatency).
		WithLineSize(cfg.LineSize).
		WithNewStorage(memoryCapacity(cfg.AddrWidth)).
		Build("DRAM")

	s.cache = writeback.MakeBuilder().
		WithEngine(s.engine).
		WithSpec(spec).
		WithBackingStore(s.memory).
		Build("Cache")

	workload, total, err := buildWorkload(cfg.Workload, spec.Layout)
	if err != nil {
		return nil, err
	}

	if cfg.Monitor {
		s.startMonitor(cfg, total)
		workload = &progressWorkload{Workload: workload, bar: s.bar}
	}

	s.agent = memaccessagent.MakeBuilder().
		WithEngine(s.engine).
		WithCache(s.cache).
		WithWorkload(workload).
		Build("Agent")

	if err := s.attachTracers(cfg); err != nil {
		return nil, err
	}

	if s.monitor != nil {
		s.monitor.RegisterComponent(s.memory)
		s.monitor.RegisterComponent(s.cache)
		s.monitor.RegisterComponent(s.agent)
	}

	return s, nil
}

// memoryCapacity covers the address space, up to 4 GB.
func memoryCapacity(addrWidth int) uint64 {
	if addrWidth >= 32 {
		return 4 * mem.GB
	}

	return uint64(1) << addrWidth
}

func (s *simulation) attachTracers(cfg runConfig) error {
	s.latency = tracing.NewLatencyTracer(s.engine, tracing.KindFilter("req_in"))
	tracing.CollectTrace(s.cache, s.latency)

	s.steps = tracing.NewStepCountTracer(tracing.KindFilter("req_in"))
	tracing.CollectTrace(s.cache, s.steps)

	if cfg.LogTransitions {
		s.cache.AcceptHook(writeback.NewTransitionLogger(
			log.New(os.Stdout, "", 0)))
	}

	if cfg.Record != "" {
		s.record = datarecording.New(cfg.Record)
		tracing.CollectTrace(s.cache, tracing.NewDBTracer(s.engine, s.record))
		tracing.CollectTrace(s.cache, trace.NewDBTracer(s.record, s.engine))
	}

	if cfg.DumpTrace != "" {
		f, err := os.Create(cfg.DumpTrace)
		if err != nil {
			return err
		}

		atexit.Register(func() { f.Close() })

		tracing.CollectTrace(s.cache,
			trace.NewReplayTracer(log.New(f, "", 0), s.engine))
	}

	return nil
}

func (s *simulation) startMonitor(cfg runConfig, total uint64) {
	s.monitor = monitoring.NewMonitor()
	if cfg.MonitorPort != 0 {
		s.monitor.WithPortNumber(cfg.MonitorPort)
	}

	s.monitor.RegisterEngine(s.engine)
	s.bar = s.monitor.CreateProgressBar("Workload", total)

	url := s.monitor.StartServer()

	if cfg.OpenBrowser {
		if err := browser.OpenURL(url + "/api/progress"); err != nil {
			fmt.Fprintf(os.Stderr, "cannot open browser: %v\n", err)
		}
	}
}
