package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/canny-mcp/internal/config"
	"github.com/ironsheep/canny-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("canny-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("canny-mcp - MCP server for Canny edge detection")
			fmt.Println()
			fmt.Println("Usage: canny-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  CANNY_MCP_LOG_LEVEL=debug    Enable debug logging")
			fmt.Printf("  %s=<file.json>    Default pipeline parameters\n", config.EnvConfigPath)
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			return
		}
	}

	// stdout carries the protocol
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	debug := os.Getenv("CANNY_MCP_LOG_LEVEL") == "debug"
	if debug {
		log.Printf("Canny MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	params, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}
	if debug && os.Getenv(config.EnvConfigPath) != "" {
		log.Printf("Loaded parameters from %s", os.Getenv(config.EnvConfigPath))
	}

	srv := server.New(server.WithParams(params), server.WithDebugLogging(debug))
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
