package cmd

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sarchlab/rvcosim/mem/acceptancetests/memaccessagent"
	"github.com/sarchlab/rvcosim/mem/cache"
	"github.com/sarchlab/rvcosim/monitoring"
)

// ErrBadTrace is returned when a trace file cannot be parsed.
var ErrBadTrace = errors.New("bad trace")

// ErrUnknownWorkload is returned for a workload name that cachesim does not
// know.
var ErrUnknownWorkload = errors.New("unknown workload")

type workloadConfig struct {
	Kind       string
	TraceFile  string
	NumAccess  int
	MaxAddress uint64
	Seed       int64
	FlushAtEnd bool
}

// buildWorkload creates the workload and tells how many ops it has.
func buildWorkload(
	cfg workloadConfig,
	layout cache.Layout,
) (memaccessagent.Workload, uint64, error) {
	var (
		w     memaccessagent.Workload
		total uint64
	)

	switch cfg.Kind {
	case "random":
		w = memaccessagent.NewRandomWorkload(
			cfg.Seed, cfg.MaxAddress, cfg.NumAccess, cfg.NumAccess)
		total = uint64(2 * cfg.NumAccess)
	case "sequential":
		ops := sequentialOps(cfg.NumAccess, cfg.MaxAddress)
		w = memaccessagent.NewSliceWorkload(ops)
		total = uint64(len(ops))
	case "scenario":
		ops := evictionScenarioOps(layout)
		w = memaccessagent.NewSliceWorkload(ops)
		total = uint64(len(ops))
	case "file":
		ops, err := readTraceFile(cfg.TraceFile, layout.LineSize)
		if err != nil {
			return nil, 0, err
		}

		w = memaccessagent.NewSliceWorkload(ops)
		total = uint64(len(ops))
	default:
		return nil, 0, fmt.Errorf("%w: %q", ErrUnknownWorkload, cfg.Kind)
	}

	if cfg.FlushAtEnd {
		w = &flushAtEnd{Workload: w}
		total++
	}

	return w, total, nil
}

// sequentialOps writes n words from address 0 and reads them back in the
// same order. Addresses wrap at maxAddress.
func sequentialOps(n int, maxAddress uint64) []memaccessagent.Op {
	ops := make([]memaccessagent.Op, 0, 2*n)
	words := max(maxAddress/4, 1)

	for i := 0; i < n; i++ {
		addr := uint64(i) % words * 4
		v := uint32(i)
		ops = append(ops, memaccessagent.Op{
			Kind: memaccessagent.OpWrite,
			Addr: addr,
			Data: []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)},
		})
	}

	for i := 0; i < n; i++ {
		ops = append(ops, memaccessagent.Op{
			Kind:  memaccessagent.OpRead,
			Addr:  uint64(i) % words * 4,
			Width: 4,
		})
	}

	return ops
}

// evictionScenarioOps fills one set with one more line than it has ways, then
// reads back a line that stays resident and the line that was evicted.
func evictionScenarioOps(layout cache.Layout) []memaccessagent.Op {
	stride := uint64(layout.LineSize) * uint64(layout.NumSets())
	ops := make([]memaccessagent.Op, 0, layout.NumWays+3)

	for i := 0; i <= layout.NumWays; i++ {
		ops = append(ops, memaccessagent.Op{
			Kind: memaccessagent.OpWrite,
			Addr: 0x1000 + uint64(i)*stride,
			Data: []byte{byte(0xA0 + i)},
		})
	}

	ops = append(ops,
		memaccessagent.Op{Kind: memaccessagent.OpRead, Addr: 0x1000 + stride},
		memaccessagent.Op{Kind: memaccessagent.OpRead, Addr: 0x1000},
		memaccessagent.Op{Kind: memaccessagent.OpFlush},
	)

	return ops
}

func readTraceFile(path string, lineSize int) ([]memaccessagent.Op, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return parseTrace(f, lineSize)
}

// parseTrace reads one op per line. "R <addr> [width]" reads, "W <addr>
// <hex>" writes, and "F" flushes. Text after "#" is ignored.
func parseTrace(r io.Reader, lineSize int) ([]memaccessagent.Op, error) {
	var ops []memaccessagent.Op

	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++

		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}

		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		op, err := parseTraceLine(fields, lineSize)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrBadTrace, lineNo, err)
		}

		ops = append(ops, op)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return ops, nil
}

func parseTraceLine(fields []string, lineSize int) (memaccessagent.Op, error) {
	switch strings.ToUpper(fields[0]) {
	case "F":
		if len(fields) != 1 {
			return memaccessagent.Op{}, errors.New("flush takes no operand")
		}

		return memaccessagent.Op{Kind: memaccessagent.OpFlush}, nil
	case "R":
		return parseRead(fields, lineSize)
	case "W":
		return parseWrite(fields, lineSize)
	default:
		return memaccessagent.Op{}, fmt.Errorf("unknown op %q", fields[0])
	}
}

func parseRead(fields []string, lineSize int) (memaccessagent.Op, error) {
	if len(fields) != 2 && len(fields) != 3 {
		return memaccessagent.Op{}, errors.New("read takes an address and an optional width")
	}

	addr, err := strconv.ParseUint(fields[1], 0, 64)
	if err != nil {
		return memaccessagent.Op{}, err
	}

	op := memaccessagent.Op{Kind: memaccessagent.OpRead, Addr: addr}

	if len(fields) == 3 {
		op.Width, err = strconv.Atoi(fields[2])
		if err != nil {
			return memaccessagent.Op{}, err
		}

		if op.Width <= 0 || op.Width > lineSize {
			return memaccessagent.Op{}, fmt.Errorf("width %d out of range", op.Width)
		}
	}

	return op, nil
}

func parseWrite(fields []string, lineSize int) (memaccessagent.Op, error) {
	if len(fields) != 3 {
		return memaccessagent.Op{}, errors.New("write takes an address and hex data")
	}

	addr, err := strconv.ParseUint(fields[1], 0, 64)
	if err != nil {
		return memaccessagent.Op{}, err
	}

	data, err := hex.DecodeString(strings.TrimPrefix(fields[2], "0x"))
	if err != nil {
		return memaccessagent.Op{}, err
	}

	if len(data) == 0 {
		return memaccessagent.Op{}, errors.New("write has no data")
	}

	offset := int(addr % uint64(lineSize))
	if offset+len(data) > lineSize {
		return memaccessagent.Op{}, fmt.Errorf(
			"write of %d bytes at %#x crosses a line", len(data), addr)
	}

	return memaccessagent.Op{
		Kind: memaccessagent.OpWrite,
		Addr: addr,
		Data: data,
	}, nil
}

// flushAtEnd flushes the cache once the wrapped workload is used up.
type flushAtEnd struct {
	memaccessagent.Workload

	flushed bool
}

func (w *flushAtEnd) Next() (memaccessagent.Op, bool) {
	op, ok := w.Workload.Next()
	if ok {
		return op, true
	}

	if w.flushed {
		return memaccessagent.Op{}, false
	}

	w.flushed = true

	return memaccessagent.Op{Kind: memaccessagent.OpFlush}, true
}

// progressWorkload moves a progress bar forward for every op handed out.
type progressWorkload struct {
	memaccessagent.Workload

	bar *monitoring.ProgressBar
}

func (w *progressWorkload) Next() (memaccessagent.Op, bool) {
	op, ok := w.Workload.Next()
	if ok {
		w.bar.IncrementFinished(1)
	}

	return op, ok
}
