package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-git/go-billy/v5/osfs"

	keepalive "github.com/krisalay/keepalive-tabs"
	"github.com/krisalay/keepalive-tabs/config"
	"github.com/krisalay/keepalive-tabs/persist"
	"github.com/krisalay/keepalive-tabs/refresh"
	"github.com/krisalay/keepalive-tabs/route"
	"github.com/krisalay/keepalive-tabs/types"
)

// ================= CLOCK =================

// Clock is a manual clock so the TTL step does not have to sleep.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// ================= METRICS =================

type Metrics struct {
	mu        sync.Mutex
	hits      int
	misses    int
	evictions int
	expired   int
	closed    int
	refreshes int
}

func (m *Metrics) Hit()      { m.mu.Lock(); m.hits++; m.mu.Unlock() }
func (m *Metrics) Miss()     { m.mu.Lock(); m.misses++; m.mu.Unlock() }
func (m *Metrics) Eviction() { m.mu.Lock(); m.evictions++; m.mu.Unlock() }
func (m *Metrics) Expire()   { m.mu.Lock(); m.expired++; m.mu.Unlock() }
func (m *Metrics) Close()    { m.mu.Lock(); m.closed++; m.mu.Unlock() }
func (m *Metrics) Refresh()  { m.mu.Lock(); m.refreshes++; m.mu.Unlock() }

func (m *Metrics) Print() {
	m.mu.Lock()
	defer m.mu.Unlock()
	fmt.Println("\n==================== METRICS ====================")
	fmt.Printf("HITS      : %d\n", m.hits)
	fmt.Printf("MISSES    : %d\n", m.misses)
	fmt.Printf("EVICTIONS : %d\n", m.evictions)
	fmt.Printf("EXPIRED   : %d\n", m.expired)
	fmt.Printf("CLOSED    : %d\n", m.closed)
	fmt.Printf("REFRESHES : %d\n", m.refreshes)
}

// ================= ROUTES =================

func defaultRoutes() []types.Route {
	return []types.Route{
		{Pattern: "/", Descriptor: types.RouteDescriptor{Name: "Home", Icon: "home"}},
		{Pattern: "/about", Descriptor: types.RouteDescriptor{Name: "About", Icon: "info"}},
		{Pattern: "/login", Descriptor: types.RouteDescriptor{Name: "Login", KeepAlive: types.KeepAliveOff()}},
		{Pattern: "/counter/:id", Descriptor: types.RouteDescriptor{
			Name:      "Counter",
			Icon:      "hash",
			KeepAlive: &types.KeepAlive{Max: 3, Strategy: types.FIFO},
		}},
		{Pattern: "/flash/:id", Descriptor: types.RouteDescriptor{
			Name:      "Flash",
			KeepAlive: &types.KeepAlive{TTL: 2 * time.Second},
		}},
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return &config.Config{Routes: defaultRoutes()}, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return config.LoadFile(osfs.New(filepath.Dir(abs)), filepath.Base(abs))
}

func printTabs(s *keepalive.Shell) {
	var parts []string
	for _, tab := range s.Tabs() {
		marker := " "
		if tab.Path == s.ActiveKey() {
			marker = "*"
		}
		parts = append(parts, fmt.Sprintf("%s%s(%s g%d)", marker, tab.Path, tab.Title, tab.Generation))
	}
	fmt.Println("TABS   →", strings.Join(parts, "  "))
}

// ================= MAIN =================

func main() {
	configPath := flag.String("config", "", "route table and shell settings (.yaml, .yml or .cue)")
	storageDir := flag.String("storage", "", "directory to persist tab order to (default: in memory)")
	verbose := flag.Bool("v", false, "log tab events")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *storageDir != "" {
		cfg.StorageDir = *storageDir
	}

	resolver, err := cfg.Resolver()
	if err != nil {
		logger.Error("invalid route table", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	clock := &Clock{now: time.Now()}
	metrics := &Metrics{}

	fmt.Println("\n==================== SYSTEM BOOT ====================")
	fmt.Println("ROUTES          :", len(cfg.Routes))
	if cfg.StorageDir != "" {
		fmt.Println("STORAGE         :", cfg.StorageDir)
	} else {
		fmt.Println("STORAGE         : memory")
	}
	fmt.Println("WRITE MODE      :", map[bool]string{true: "WRITE-BACK", false: "WRITE-THROUGH"}[cfg.WriteBack])

	var shell *keepalive.Shell
	navigator := types.NavigatorFunc(func(path string, replace bool) {
		fmt.Printf("NAV    → redirect %s (replace=%v)\n", path, replace)
		shell.NavigateTo(ctx, path, "view:"+path)
	})
	hooks := types.Hooks{
		OnTabOpen:  func(l types.Lifecycle) { fmt.Printf("HOOK   → open  %s (%s)\n", l.Path, l.Title) },
		OnTabClose: func(l types.Lifecycle) { fmt.Printf("HOOK   → close %s (%s)\n", l.Path, l.Title) },
		OnRestore:  func(p []string) { fmt.Printf("HOOK   → restore %v\n", p) },
	}

	opts := append(cfg.Options(),
		keepalive.WithClock(clock.Now),
		keepalive.WithMetrics(metrics),
		keepalive.WithLogger(logger),
		keepalive.WithNavigator(navigator),
		keepalive.WithHooks(hooks),
		keepalive.WithRefreshHook(refresh.HookFunc(func(path string, gen int) {
			fmt.Printf("VIEW   → remount %s as generation %d\n", path, gen)
		})),
	)

	shell, err = keepalive.New(ctx, resolver, route.ParseLocation("/"), "view:/", opts...)
	if err != nil {
		logger.Error("failed to start tab shell", "error", err)
		os.Exit(1)
	}
	if cfg.JanitorInterval > 0 {
		shell.StartJanitor(ctx, cfg.JanitorInterval)
	}
	printTabs(shell)

	// ====================================================
	fmt.Println("\n==================== 1) OPEN TABS ====================")
	for _, p := range []string{"/about", "/counter/1", "/about"} {
		fmt.Println("NAV    →", p)
		shell.NavigateTo(ctx, p, "view:"+p)
	}
	printTabs(shell)

	// ====================================================
	fmt.Println("\n==================== 2) BYPASS ====================")
	shell.NavigateTo(ctx, "/login", "view:/login")
	fmt.Printf("CACHE  → /login cached=%v\n", shell.Enabled())
	printTabs(shell)

	// ====================================================
	fmt.Println("\n==================== 3) CAPACITY ====================")
	for i := 2; i <= 4; i++ {
		p := fmt.Sprintf("/counter/%d", i)
		fmt.Println("NAV    →", p)
		shell.NavigateTo(ctx, p, "view:"+p)
		clock.Advance(100 * time.Millisecond)
	}
	printTabs(shell)

	// ====================================================
	fmt.Println("\n==================== 4) TTL EXPIRATION ====================")
	shell.NavigateTo(ctx, "/flash/1", "view:/flash/1")
	shell.NavigateTo(ctx, "/about", "view:/about")
	clock.Advance(3 * time.Second)
	fmt.Println("CLOCK  → +3s")
	shell.Expire(ctx)
	printTabs(shell)

	// ====================================================
	fmt.Println("\n==================== 5) REFRESH ====================")
	shell.RefreshTab(ctx, "/about")
	printTabs(shell)

	// ====================================================
	fmt.Println("\n==================== 6) REORDER ====================")
	order := shell.Order()
	reversed := make([]string, len(order))
	for i, k := range order {
		reversed[len(order)-1-i] = k
	}
	shell.ReorderTabs(ctx, reversed)
	printTabs(shell)

	// ====================================================
	fmt.Println("\n==================== 7) CLOSE ACTIVE ====================")
	shell.CloseTab(ctx, shell.ActiveKey())
	printTabs(shell)

	// ====================================================
	fmt.Println("\n==================== 8) DROP OTHERS ====================")
	if tabs := shell.Tabs(); len(tabs) > 0 {
		shell.DropOtherTabs(ctx, tabs[0].Path)
	}
	printTabs(shell)

	fmt.Println("\n==================== 9) CLOSE LAST ====================")
	shell.CloseTab(ctx, shell.ActiveKey())
	fmt.Println("CACHE  → last tab kept:", shell.Order())

	// ====================================================
	metrics.Print()

	// ====================================================
	fmt.Println("\n==================== SHUTDOWN ====================")
	shell.Close()
	if cfg.StorageDir != "" {
		raw, _, err := persist.NewLocalFileStorage(cfg.StorageDir).Read(persist.StorageKey(shell.Namespace()))
		if err == nil {
			fmt.Println("SYSTEM → persisted", raw)
		}
	}
	fmt.Println("SYSTEM → shell closed cleanly")
}
