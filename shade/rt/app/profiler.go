package app

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"
)

// ScopeTiming accumulates the wall time of one named scope across frames.
type ScopeTiming struct {
	Last  time.Duration
	Total time.Duration
	Calls int
}

// Average is the mean duration per call.
func (s ScopeTiming) Average() time.Duration {
	if s.Calls == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Calls)
}

type Profiler struct {
	mu         sync.Mutex
	Scopes     map[string]ScopeTiming
	StartTimes map[string]time.Time
	Counts     map[string]int
	Order      []string
}

func NewProfiler() *Profiler {
	return &Profiler{
		Scopes:     make(map[string]ScopeTiming),
		StartTimes: make(map[string]time.Time),
		Counts:     make(map[string]int),
	}
}

func (p *Profiler) BeginScope(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.StartTimes[name] = time.Now()
	if !slices.Contains(p.Order, name) {
		p.Order = append(p.Order, name)
	}
}

func (p *Profiler) EndScope(name string) time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	start, ok := p.StartTimes[name]
	if !ok {
		return 0
	}
	delete(p.StartTimes, name)
	d := time.Since(start)
	s := p.Scopes[name]
	s.Last = d
	s.Total += d
	s.Calls++
	p.Scopes[name] = s
	return d
}

func (p *Profiler) Scope(name string) ScopeTiming {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Scopes[name]
}

func (p *Profiler) SetCount(name string, count int) {
	p.mu.Lock()
	p.Counts[name] = count
	p.mu.Unlock()
}

func (p *Profiler) Count(name string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Counts[name]
}

// Reset clears timings and counters; scope order is kept for display.
func (p *Profiler) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	clear(p.Scopes)
	clear(p.StartTimes)
	clear(p.Counts)
}

func (p *Profiler) GetStatsString() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	var sb strings.Builder
	sb.WriteString("Timings (CPU):\n")
	for _, name := range p.Order {
		s := p.Scopes[name]
		fmt.Fprintf(&sb, "  %-15s: %.2f ms (avg %.2f ms over %d)\n",
			name, ms(s.Last), ms(s.Average()), s.Calls)
	}

	sb.WriteString("\nStats:\n")
	keys := make([]string, 0, len(p.Counts))
	for k := range p.Counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, "  %-15s: %d\n", k, p.Counts[k])
	}
	return sb.String()
}

func ms(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}
