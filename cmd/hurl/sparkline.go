package main

import (
	"fmt"
	"io"
	"math"

	"github.com/legzo/hurl/internal/runner"
)

// entryDurations is one file's entry request times, in microseconds,
// for the --verbose sparkline report.
type entryDurations struct {
	path   string
	micros []uint32
}

// collectEntryDurations reads fr.Entries[].Duration rather than a
// generic timing source: an entry with a zero duration (a parse-time
// short-circuit before any request was sent) is floored to 1us so the
// log-scale binning below never takes log(0).
func collectEntryDurations(path string, fr runner.FileResult) entryDurations {
	d := entryDurations{path: path, micros: make([]uint32, 0, len(fr.Entries))}
	for _, e := range fr.Entries {
		us := e.Duration.Microseconds()
		if us <= 0 {
			us = 1
		}
		d.micros = append(d.micros, uint32(us))
	}
	return d
}

func minMax(micros []uint32) (uint32, uint32) {
	if len(micros) == 0 {
		return 1, 1
	}
	lo, hi := micros[0], micros[0]
	for _, m := range micros {
		if m < lo {
			lo = m
		} else if m > hi {
			hi = m
		}
	}
	return lo, hi
}

func roundUpMicros(max uint32) uint32 {
	logmax := math.Log10(float64(max))
	lmi := math.Floor(logmax)
	lmr := logmax - lmi
	var f uint32
	switch {
	case lmr < 0.002:
		f = 1
	case lmr < 0.301:
		f = 2
	case lmr < 0.477:
		f = 3
	case lmr < 0.698:
		f = 5
	default:
		f = 10
	}
	return f * uint32(math.Pow10(int(lmi)))
}

func roundDownMicros(min uint32) uint32 {
	logmin := math.Log10(float64(min))
	lmi := math.Floor(logmin)
	lmr := logmin - lmi
	var f uint32
	switch {
	case lmr > 0.698:
		f = 5
	case lmr > 0.477:
		f = 3
	case lmr > 0.301:
		f = 2
	default:
		f = 1
	}
	return f * uint32(math.Pow10(int(lmi)))
}

func fmtMicros(us uint32) string {
	switch {
	case us < 1000:
		return fmt.Sprintf("%dus", us)
	case us < 1_000_000:
		return fmt.Sprintf("%.1fms", float64(us)/1000)
	default:
		return fmt.Sprintf("%.1fs", float64(us)/1_000_000)
	}
}

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

const sparkBins = 100

// printEntryDurationSparklines renders one log-scale sparkline line per
// file, plotting how its entries' request durations are distributed,
// followed by a shared time-axis legend line. Used by hurl --verbose
// to give a run an at-a-glance sense of which entries were slow.
func printEntryDurationSparklines(w io.Writer, files []entryDurations) {
	min, max := uint32(math.MaxUint32), uint32(0)
	labelWidth := 0
	for _, f := range files {
		lo, hi := minMax(f.micros)
		if lo < min {
			min = lo
		}
		if hi > max {
			max = hi
		}
		if n := len(f.path); n > labelWidth {
			labelWidth = n
		}
	}
	if max == 0 {
		return
	}
	min, max = roundDownMicros(min), roundUpMicros(max)
	legend := fmt.Sprintf("%s -- %s", fmtMicros(min), fmtMicros(max))
	if n := len(legend); n > labelWidth {
		labelWidth = n
	}
	if min < 1 {
		min = 1
	}
	logMin := math.Log(float64(min))
	delta := (math.Log(float64(max)) - logMin) / sparkBins

	bin := func(us uint32) int {
		b := int((math.Log(float64(us)) - logMin) / delta)
		if b < 0 {
			return 0
		}
		if b >= sparkBins {
			return sparkBins - 1
		}
		return b
	}

	for _, f := range files {
		counts := make([]int, sparkBins)
		maxCount := 1
		for _, us := range f.micros {
			b := bin(us)
			counts[b]++
			if counts[b] > maxCount {
				maxCount = counts[b]
			}
		}
		fmt.Fprintf(w, "%*s ", labelWidth, f.path)
		for _, c := range counts {
			fmt.Fprintf(w, "%c", sparkBlocks[c*7/maxCount])
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "%*s ", labelWidth, legend)
	ticks := make([]int, sparkBins)
	for _, step := range []struct {
		factor uint32
		level  int
	}{{2, 2}, {3, 3}, {5, 5}, {1, 7}} {
		for pt := step.factor; pt <= max; pt *= 10 {
			b := bin(pt)
			ticks[b] = step.level
		}
	}
	for _, v := range ticks {
		fmt.Fprintf(w, "%c", sparkBlocks[v])
	}
	fmt.Fprintln(w)
}
