// Package mcp exposes the digest store to MCP clients over stdio. Two
// tools are registered: toon_digest returns the TOON digest for one
// source file (computing it on demand when stale or missing) and
// toon_list enumerates every digested file.
package mcp

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"github.com/toonlab/toon/internal/config"
	"github.com/toonlab/toon/internal/digest"
)

// Server manages the MCP server lifecycle.
type Server struct {
	service *digest.Service
	mcp     *server.MCPServer
}

// NewServer creates an MCP server for the project at rootDir.
func NewServer(rootDir string, cfg *config.Config, version string) (*Server, error) {
	service, err := digest.NewService(rootDir, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create digest service: %w", err)
	}

	mcpServer := server.NewMCPServer(
		"toon-mcp",
		version,
		server.WithToolCapabilities(true),
	)

	AddToonDigestTool(mcpServer, service)
	AddToonListTool(mcpServer, service)

	return &Server{
		service: service,
		mcp:     mcpServer,
	}, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting MCP server on stdio...")
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
		}
	}()

	select {
	case <-sigCh:
		log.Printf("Received shutdown signal, stopping gracefully...")
		return nil
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close releases the underlying digest service.
func (s *Server) Close() error {
	return s.service.Close()
}
