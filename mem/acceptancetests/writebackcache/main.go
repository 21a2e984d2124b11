package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sarchlab/rvcosim/mem"
	"github.com/sarchlab/rvcosim/mem/acceptancetests/memaccessagent"
	"github.com/sarchlab/rvcosim/mem/cache/writeback"
	"github.com/sarchlab/rvcosim/mem/idealmem"
	"github.com/sarchlab/rvcosim/sim"
)

var seedFlag = flag.Int64("seed", 0, "Random Seed")
var numAccessFlag = flag.Int("num-access", 100000,
	"Number of accesses to generate")
var maxAddressFlag = flag.Uint64("max-address", 1048576, "Address range to use")
var coupledFlag = flag.Bool("coupled", false, "Use the coupled dual-bank array")
var traceFlag = flag.Bool("trace-stdout", false, "Log phase transitions")

var engine *sim.SerialEngine
var agent *memaccessagent.MemAccessAgent
var cache *writeback.Comp

func main() {
	flag.Parse()

	seed := initSeed()
	buildEnvironment(seed)
	runSimulation()
	allOpsMustFinish()
}

func initSeed() int64 {
	seed := *seedFlag
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	fmt.Fprintf(os.Stderr, "Seed %d\n", seed)

	return seed
}

func buildEnvironment(seed int64) {
	engine = sim.NewSerialEngine()

	dram := idealmem.MakeBuilder().
		WithEngine(engine).
		WithLatency(100).
		WithLineSize(64).
		WithNewStorage(4 * mem.GB).
		Build("DRAM")

	cache = writeback.MakeBuilder().
		WithEngine(engine).
		WithFreq(1 * sim.GHz).
		WithNumWays(4).
		WithLinesPerWay(64).
		WithLineSize(64).
		WithCoupled(*coupledFlag).
		WithBackingStore(dram).
		Build("Cache")

	if *traceFlag {
		cache.AcceptHook(writeback.NewTransitionLogger(
			log.New(os.Stdout, "", 0)))
	}

	agent = memaccessagent.MakeBuilder().
		WithEngine(engine).
		WithCache(cache).
		WithWorkload(memaccessagent.NewRandomWorkload(
			seed, *maxAddressFlag, *numAccessFlag, *numAccessFlag)).
		Build("Agent")

	agent.TickLater()
}

func runSimulation() {
	err := engine.Run()
	if err != nil {
		panic(err)
	}
}

func allOpsMustFinish() {
	if !agent.Done() {
		panic("more requests to send")
	}

	if len(agent.Mismatches) > 0 {
		panic(fmt.Sprintf("%d reads returned wrong data",
			len(agent.Mismatches)))
	}

	fmt.Printf("%+v\n", cache.Stats())
}
