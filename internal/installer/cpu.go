package installer

import (
	"context"
	"strconv"
	"strings"
)

// DefaultJobs is the build parallelism used when every CPU probe fails.
const DefaultJobs = 2

type cpuProbe func(ctx context.Context, sys System) int

var cpuProbes = []cpuProbe{
	func(_ context.Context, sys System) int { return sys.LogicalCores() },
	commandProbe("nproc"),
	commandProbe("getconf", "_NPROCESSORS_ONLN"),
	commandProbe("sysctl", "-n", "hw.ncpu"),
	cpuinfoProbe,
}

// CPUCount returns the first positive count reported by the probes in order.
func CPUCount(ctx context.Context, sys System) int {
	for _, probe := range cpuProbes {
		if n := probe(ctx, sys); n > 0 {
			return n
		}
	}
	return DefaultJobs
}

func commandProbe(name string, args ...string) cpuProbe {
	return func(ctx context.Context, sys System) int {
		if _, err := sys.LookPath(name); err != nil {
			return 0
		}
		out, err := sys.Run(ctx, "", nil, name, args...)
		if err != nil {
			return 0
		}
		n, err := strconv.Atoi(strings.TrimSpace(string(out)))
		if err != nil {
			return 0
		}
		return n
	}
}

func cpuinfoProbe(_ context.Context, sys System) int {
	data, err := sys.ReadFile("/proc/cpuinfo")
	if err != nil {
		return 0
	}
	count := 0
	for _, line := range strings.Split(string(data), "\n") {
		key, _, ok := strings.Cut(line, ":")
		if ok && strings.TrimSpace(key) == "processor" {
			count++
		}
	}
	return count
}
