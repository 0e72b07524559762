package parallel

import (
	"fmt"
	"hash/fnv"
	"testing"

	"golang.org/x/sync/errgroup"
)

func BenchmarkRun(b *testing.B) {
	for _, tasks := range []int{2, 8, 64, 256} {
		b.Run(fmt.Sprintf("tasks_%d", tasks), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				p := New[uint64]()
				for j := 0; j < tasks; j++ {
					p.Add(func() uint64 { return benchTask(j) })
				}
				if got := p.Run(); len(got) != tasks {
					b.Fatalf("expected %d results, got %d", tasks, len(got))
				}
			}
		})
	}
}

// BenchmarkErrgroupBaseline is the same workload written directly against
// errgroup with an indexed result slice, for comparison with BenchmarkRun.
func BenchmarkErrgroupBaseline(b *testing.B) {
	for _, tasks := range []int{2, 8, 64, 256} {
		b.Run(fmt.Sprintf("tasks_%d", tasks), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				results := make([]uint64, tasks)
				var eg errgroup.Group
				for j := 0; j < tasks; j++ {
					eg.Go(func() error {
						results[j] = benchTask(j)
						return nil
					})
				}
				if err := eg.Wait(); err != nil {
					b.Fatalf("wait failed: %v", err)
				}
			}
		})
	}
}

func benchTask(seed int) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	for i := 0; i < 64; i++ {
		buf[0] = byte(seed + i)
		h.Write(buf[:])
	}
	return h.Sum64()
}
