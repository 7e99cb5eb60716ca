package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"pagepilot/internal/adapter/browser"
	"pagepilot/internal/adapter/history"
	"pagepilot/internal/adapter/mcp"
	"pagepilot/internal/adapter/tool"
	"pagepilot/internal/infra/config"
	"pagepilot/internal/infra/logger"
	"pagepilot/internal/infra/tracer"
)

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "--help", "-h", "help":
			showUsage()
			return
		}
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Println(`pagepilot - browser automation MCP server

USAGE:
    pagepilot [FLAGS]

FLAGS:
    -h, --help         Show this help message
    --config PATH      Config file path (default: ./config.yaml)
    --transport NAME   MCP transport: stdio or http
    --addr ADDR        Listen address for the http transport

CONFIGURATION:
    Config file: ./config.yaml
    Environment: PAGEPILOT_* variables override config

EXAMPLES:
    pagepilot                          # stdio transport, local Chrome
    pagepilot --transport http --addr :8931
    PAGEPILOT_REMOTE_URL=ws://localhost:9222 pagepilot`)
}

// cliFlags holds CLI overrides applied on top of the config file.
type cliFlags struct {
	Config    string
	Transport string
	Addr      string
}

func parseFlags() cliFlags {
	flags := cliFlags{Config: "config.yaml"}
	for i := 1; i < len(os.Args); i++ {
		switch {
		case os.Args[i] == "--config" && i+1 < len(os.Args):
			flags.Config = os.Args[i+1]
			i++
		case strings.HasPrefix(os.Args[i], "--config="):
			flags.Config = strings.TrimPrefix(os.Args[i], "--config=")
		case os.Args[i] == "--transport" && i+1 < len(os.Args):
			flags.Transport = os.Args[i+1]
			i++
		case strings.HasPrefix(os.Args[i], "--transport="):
			flags.Transport = strings.TrimPrefix(os.Args[i], "--transport=")
		case os.Args[i] == "--addr" && i+1 < len(os.Args):
			flags.Addr = os.Args[i+1]
			i++
		case strings.HasPrefix(os.Args[i], "--addr="):
			flags.Addr = strings.TrimPrefix(os.Args[i], "--addr=")
		}
	}
	return flags
}

func run() error {
	// 1. Config
	flags := parseFlags()
	cfg, err := config.Load(flags.Config)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if flags.Transport != "" {
		cfg.Server.Transport = flags.Transport
	}
	if flags.Addr != "" {
		cfg.Server.Addr = flags.Addr
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// 2. Logger & tracer
	log, logCloser, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logCloser()

	ctx := context.Background()
	tracerShutdown, err := tracer.Setup(ctx, cfg.Tracer)
	if err != nil {
		return fmt.Errorf("tracer: %w", err)
	}
	defer tracerShutdown(ctx)

	// 3. Browser session (launched lazily on first use)
	bcfg := browser.Config{
		RemoteURL:  cfg.Browser.RemoteURL,
		Headless:   cfg.Browser.Headless,
		Timeout:    cfg.Browser.Timeout,
		NavTimeout: cfg.Browser.NavTimeout,
	}
	session := browser.NewManager(func(ctx context.Context) (browser.Driver, error) {
		return browser.New(bcfg, log)
	}, log)

	// 4. Action history
	var store history.Store
	if cfg.History.Path != "" {
		store, err = history.NewSQLiteStore(cfg.History.Path)
		if err != nil {
			return fmt.Errorf("history: %w", err)
		}
		log.Info("action history on disk", "path", cfg.History.Path)
	} else {
		store = history.NewMemoryStore()
	}
	defer store.Close()

	// 5. Tool pipeline
	registry := tool.NewRegistry(log)
	for _, t := range allTools() {
		if err := registry.Register(t); err != nil {
			return fmt.Errorf("register %s: %w", t.Schema().Name, err)
		}
	}
	recorder := tool.NewRecorder(store, log)
	executor := tool.NewExecutor(registry, session, recorder, log, tool.Options{
		RateLimitPerMinute: cfg.Tools.RateLimit,
		SettleDelay:        cfg.Browser.SettleDelay,
	})
	defer executor.Close()

	// 6. MCP server
	server := mcp.New(registry, executor, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(cfg.Server.Transport, cfg.Server.Addr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutting down", "signal", sig.String())
		return nil
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	}
}

// allTools is the full tool set exposed over MCP.
func allTools() []tool.Tool {
	return []tool.Tool{
		// Navigation
		tool.NewNavigateTool(),
		tool.NewBackTool(),
		tool.NewForwardTool(),
		// Snapshot and element interaction
		tool.NewCapturePageTool(),
		tool.NewClickTool(),
		tool.NewHoverTool(),
		tool.NewTypeTextTool(),
		tool.NewSelectOptionTool(),
		tool.NewDragAndDropTool(),
		tool.NewUploadFileTool(),
		// Verification
		tool.NewVerifyElementVisibleTool(),
		tool.NewVerifyTextPresentTool(),
		// Keyboard and mouse
		tool.NewPressKeyTool(),
		tool.NewMouseMoveTool(),
		tool.NewMouseClickTool(),
		tool.NewMouseDragTool(),
		// Tabs
		tool.NewTabListTool(),
		tool.NewTabSelectTool(),
		tool.NewTabNewTool(),
		tool.NewTabCloseTool(),
		// Scripting and capture
		tool.NewExecuteJSTool(),
		tool.NewScreenshotTool(),
		tool.NewSavePDFTool(),
		// Window
		tool.NewResizeWindowTool(),
		// Waiting and console
		tool.NewWaitForTool(),
		tool.NewConsoleLogsTool(),
		// Dialogs and network
		tool.NewDialogHandleTool(),
		tool.NewNetworkMonitorTool(),
		// Session lifecycle
		tool.NewCloseSessionTool(),
		tool.NewResetSessionTool(),
		// Recording and script generation
		tool.NewStartRecordingTool(),
		tool.NewStopRecordingTool(),
		tool.NewRecordingStatusTool(),
		tool.NewClearRecordingTool(),
		tool.NewGenerateScriptTool(),
	}
}
