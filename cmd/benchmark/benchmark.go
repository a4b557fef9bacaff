package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	keepalive "github.com/krisalay/keepalive-tabs"
	"github.com/krisalay/keepalive-tabs/persist"
	"github.com/krisalay/keepalive-tabs/route"
	"github.com/krisalay/keepalive-tabs/types"
)

// ================= BENCHMARK =================

func routes(sections int) []types.Route {
	out := []types.Route{
		{Pattern: "/", Descriptor: types.RouteDescriptor{Name: "Home"}},
	}
	for i := 0; i < sections; i++ {
		out = append(out, types.Route{
			Pattern: fmt.Sprintf("/section-%d/:id", i),
			Descriptor: types.RouteDescriptor{
				Name:      fmt.Sprintf("Section %d", i),
				KeepAlive: &types.KeepAlive{Max: 8, TTL: time.Minute, Strategy: types.LRU},
			},
		})
	}
	return out
}

func main() {
	var (
		shards     = flag.Int("shards", 16, "registry shards")
		sessions   = flag.Int("sessions", 2000, "namespaces opened")
		sections   = flag.Int("sections", 50, "route patterns in the table")
		goroutines = flag.Int("goroutines", 200, "concurrent clients")
		opsPerG    = flag.Int("ops", 5000, "navigations per client")
		writeBack  = flag.Bool("write-back", true, "persist through the write-back worker")
	)
	flag.Parse()
	if *sections < 1 {
		*sections = 1
	}

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	fmt.Println("\n================ TAB REGISTRY LOAD BENCHMARK =================")

	fmt.Println("CONFIG")
	fmt.Println("---------------------------------")
	fmt.Println("Shards       :", *shards)
	fmt.Println("Sessions     :", *sessions)
	fmt.Println("Routes       :", *sections+1)
	fmt.Println("Goroutines   :", *goroutines)
	fmt.Println("Ops/Goroutine:", *opsPerG)
	fmt.Println("Write-back   :", *writeBack)
	fmt.Println("---------------------------------")

	resolver, err := route.NewResolver(routes(*sections))
	if err != nil {
		logger.Error("invalid route table", "error", err)
		os.Exit(1)
	}

	shellOpts := []keepalive.Option{
		keepalive.WithStorage(persist.NewMemoryStorage()),
		keepalive.WithLogger(logger),
	}
	if *writeBack {
		shellOpts = append(shellOpts, keepalive.WithWriteBack())
	}

	reg, err := keepalive.NewRegistry(resolver,
		keepalive.WithShards(*shards),
		keepalive.WithShellOptions(shellOpts...),
	)
	if err != nil {
		logger.Error("failed to create registry", "error", err)
		os.Exit(1)
	}

	// ---------------- Open Sessions ----------------
	fmt.Println("Opening sessions...")
	namespaces := make([]string, *sessions)
	for i := range namespaces {
		namespaces[i] = keepalive.NewNamespace()
		if _, err := reg.Open(ctx, namespaces[i], route.ParseLocation("/"), nil); err != nil {
			logger.Error("failed to open session", "error", err)
			os.Exit(1)
		}
	}
	fmt.Println("Sessions open.")

	// ---------------- Load Test ----------------
	fmt.Println("Running concurrency benchmark...")

	start := time.Now()

	wg := sync.WaitGroup{}
	wg.Add(*goroutines)

	for g := 0; g < *goroutines; g++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < *opsPerG; j++ {
				ns := namespaces[(id+j)%len(namespaces)]
				s, err := reg.Open(ctx, ns, route.ParseLocation("/"), nil)
				if err != nil {
					continue
				}
				path := fmt.Sprintf("/section-%d/%d", j%*sections, (id+j)%16)
				s.NavigateTo(ctx, path, nil)
				if j%100 == 0 {
					s.CloseTab(ctx, path)
				}
			}
		}(g)
	}

	wg.Wait()

	duration := time.Since(start)
	totalOps := *goroutines * *opsPerG

	fmt.Println("\n================ RESULTS =================")
	fmt.Printf("Total Operations : %d\n", totalOps)
	fmt.Printf("Total Time       : %v\n", duration)
	fmt.Printf("Throughput       : %.2f ops/sec\n", float64(totalOps)/duration.Seconds())
	fmt.Printf("Open Sessions    : %d\n", reg.Len())
	fmt.Println("=========================================")

	reg.Close()
}
