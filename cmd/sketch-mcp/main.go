package main

import (
	"fmt"
	"os"

	"github.com/ironsheep/sketch-classifier/internal/classify"
	"github.com/ironsheep/sketch-classifier/internal/config"
	"github.com/ironsheep/sketch-classifier/internal/log"
	"github.com/ironsheep/sketch-classifier/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("sketch-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("sketch-mcp - MCP server for sketch classification")
			fmt.Println()
			fmt.Println("Usage: sketch-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  SKETCH_LOG_LEVEL=debug        Log level (debug, info, warning, error)")
			fmt.Println("  SKETCH_CONFIG=path.yaml       Configuration file")
			fmt.Println("  SKETCH_MODE=basic|advanced    Initial classifier")
			fmt.Println("  SKETCH_STROKE_LENGTH=15       Smoothing threshold in pixels")
			fmt.Println("  SKETCH_RESCALER=true          Crop evaluation input around the ink")
			fmt.Println("  SKETCH_SMOOTHING=false        Evaluate the smoothed stroke")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	// Loggers write to stderr; stdout is for MCP protocol
	log.InitFromEnv()
	log.Trace.Printf("Sketch MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)

	cfg, err := config.FromEnv()
	if err != nil {
		log.Error.Fatalf("Configuration error: %v", err)
	}

	srv := server.New(cfg, classify.NewDefaultLoader())
	err = srv.Run()
	srv.Close()
	if err != nil {
		log.Error.Fatalf("Server error: %v", err)
	}
}
