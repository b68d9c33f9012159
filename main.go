package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ethteck/mips-to-c/config"
	"github.com/ethteck/mips-to-c/decompunit"
	"github.com/ethteck/mips-to-c/dumpserver"
	"github.com/ethteck/mips-to-c/explorer"
	"github.com/ethteck/mips-to-c/xref"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	var (
		showHelp   = flag.Bool("help", false, "Show help information")
		showVer    = flag.Bool("version", false, "Show version information")
		configFile = flag.String("config", "", "Path to a mips-to-c.toml configuration file")
		fnIndex    = flag.Int("fn", -1, "Override which parsed function to dump (0-indexed)")
		format     = flag.String("format", "", "Dump format: text or json")
		tuiMode    = flag.Bool("tui", false, "Open the interactive explorer instead of dumping")
		serveAddr  = flag.String("serve", "", "Serve the decompiled result over HTTP at ADDR instead of dumping")
		xrefMode   = flag.Bool("xref", false, "Print a call cross-reference instead of dumping")
	)

	flag.BoolVar(showHelp, "h", false, "Show help information")

	flag.Parse()

	if *showVer {
		fmt.Printf("mips-to-c %s (%s)\n", Version, Commit)
		os.Exit(0)
	}

	if *showHelp || flag.NArg() == 0 {
		printHelp()
		os.Exit(1)
	}

	asmFile := flag.Arg(0)
	if _, err := os.Stat(asmFile); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: File not found: %s\n", asmFile)
		os.Exit(1)
	}

	cfgPath := *configFile
	if cfgPath == "" {
		cfgPath = filepath.Join(filepath.Dir(asmFile), "mips-to-c.toml")
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if *fnIndex >= 0 {
		cfg.Output.DumpFunctionIndex = *fnIndex
	}
	if *format != "" {
		cfg.Output.Format = *format
	}

	f, err := os.Open(asmFile) // #nosec G304 -- user-supplied input file
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening file: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	result, err := decompunit.Decompile(asmFile, f, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if warnings := result.Diagnostics.PrintWarnings(); warnings != "" {
		fmt.Fprint(os.Stderr, warnings)
	}

	switch {
	case *tuiMode || (cfg.Explorer.Enabled && *serveAddr == "" && !*xrefMode):
		e := explorer.New(result, cfg)
		if err := e.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Explorer error: %v\n", err)
			os.Exit(1)
		}

	case *serveAddr != "":
		runServer(*serveAddr, result)

	case *xrefMode:
		fmt.Print(xref.Build(result).String())

	default:
		dumpFunction(result, cfg)
	}
}

func dumpFunction(result *decompunit.Result, cfg *config.Config) {
	idx := cfg.Output.DumpFunctionIndex
	if idx < 0 || idx >= len(result.Functions) {
		fmt.Fprintf(os.Stderr, "Error: function index %d out of range (have %d functions)\n", idx, len(result.Functions))
		os.Exit(1)
	}
	fn := result.Functions[idx]

	if cfg.Output.Format == "json" {
		data, err := fn.RenderJSON()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error rendering JSON: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
		return
	}

	fmt.Print(fn.Render())
}

func runServer(addr string, result *decompunit.Result) {
	server := dumpserver.New(addr, result)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
			os.Exit(1)
		}
	}()

	<-sigChan
	fmt.Println("\nShutting down dump server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Printf(`mips-to-c %s

Usage: mips-to-c [options] <assembly-file>

Options:
  -help            Show this help message
  -version         Show version information
  -config FILE     Path to a mips-to-c.toml configuration file
  -fn N            Override which parsed function to dump (0-indexed)
  -format FORMAT   Dump format: text or json
  -tui             Open the interactive explorer instead of dumping
  -serve ADDR      Serve the decompiled result over HTTP at ADDR
  -xref            Print a call cross-reference instead of dumping
`, Version)
}
