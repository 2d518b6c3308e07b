// Command liftlog-mcp is a stdio MCP server that proxies tool calls to a
// running LiftLog server over its REST API. Point a chat assistant at this
// binary with -server set to the server URL (typically a tailnet address).
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	liftlogmcp "github.com/claude/liftlog/internal/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "LiftLog server URL (e.g. https://liftlog.tail1234.ts.net)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("liftlog-mcp", Version)
		return
	}

	if *serverURL == "" {
		fmt.Fprintf(os.Stderr, "Usage: liftlog-mcp -server <URL>\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	// stdout carries the MCP transport; logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	client := liftlogmcp.NewHTTPClient(*serverURL)
	srv := liftlogmcp.New(client, Version, log)

	if err := mcpserver.ServeStdio(srv); err != nil {
		log.Error("stdio server error", "error", err)
		os.Exit(1)
	}
}
