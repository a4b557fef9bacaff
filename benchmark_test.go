package keepalive_test

import (
	"context"
	"fmt"
	"testing"

	keepalive "github.com/krisalay/keepalive-tabs"
	"github.com/krisalay/keepalive-tabs/persist"
	"github.com/krisalay/keepalive-tabs/route"
	"github.com/krisalay/keepalive-tabs/types"
)

func benchmarkRoutes() []types.Route {
	routes := demoRoutes()
	for i := range 50 {
		routes = append(routes, types.Route{
			Pattern:    fmt.Sprintf("/section-%d/:id", i),
			Descriptor: types.RouteDescriptor{Name: fmt.Sprintf("Section %d", i)},
		})
	}
	return routes
}

func newBenchmarkManager(b *testing.B) *keepalive.Manager {
	r, err := route.NewResolver(benchmarkRoutes())
	if err != nil {
		b.Fatal(err)
	}
	return keepalive.NewManager(r)
}

//
// ================= SINGLE THREAD BENCH =================
//

func BenchmarkManagerNavigateHit(b *testing.B) {
	m := newBenchmarkManager(b)
	m.Restore(nil, loc("/section-10/1"), nil)
	m.Navigate(loc("/section-20/1"), nil)

	locs := []types.Location{loc("/section-10/1"), loc("/section-20/1")}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Navigate(locs[i%2], nil)
	}
}

func BenchmarkManagerNavigateCapacity(b *testing.B) {
	m := newBenchmarkManager(b)
	m.Restore(nil, loc("/fifo/0"), nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Navigate(loc(fmt.Sprintf("/fifo/%d", i)), nil)
	}
}

func BenchmarkManagerReorder(b *testing.B) {
	m := newBenchmarkManager(b)
	var saved []string
	for i := range 20 {
		saved = append(saved, fmt.Sprintf("/section-%d/1", i))
	}
	m.Restore(saved, loc("/"), nil)

	reversed := make([]string, len(saved))
	for i, k := range saved {
		reversed[len(saved)-1-i] = k
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if i%2 == 0 {
			m.ReorderTabs(reversed)
		} else {
			m.ReorderTabs(saved)
		}
	}
}

func BenchmarkResolverMemo(b *testing.B) {
	r, err := route.NewResolver(benchmarkRoutes())
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Resolve("/section-49/7")
	}
}

//
// ================= PARALLEL BENCH =================
//

func BenchmarkRegistryParallelNavigate(b *testing.B) {
	r, err := route.NewResolver(benchmarkRoutes())
	if err != nil {
		b.Fatal(err)
	}
	reg, err := keepalive.NewRegistry(r,
		keepalive.WithShellOptions(keepalive.WithStorage(persist.NewMemoryStorage())),
	)
	if err != nil {
		b.Fatal(err)
	}
	defer reg.Close()

	ctx := context.Background()
	for i := range 64 {
		if _, err := reg.Open(ctx, fmt.Sprintf("ns-%d", i), loc("/"), nil); err != nil {
			b.Fatal(err)
		}
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			s, _ := reg.Get(fmt.Sprintf("ns-%d", i%64))
			s.Navigate(ctx, loc(fmt.Sprintf("/section-%d/%d", i%50, i%7)), nil)
			i++
		}
	})
}
