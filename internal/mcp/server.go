// Package mcp exposes the conformance pipeline, policy engine, drift
// detector, and history store as MCP tools over stdio. The tools are thin:
// they surface the core contracts without transforming their pass/fail
// semantics.
package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"libgov/internal/drift"
	"libgov/internal/history"
	"libgov/internal/policy"
	"libgov/internal/provenance"
	"libgov/internal/runner"
)

// Config holds MCP server configuration.
type Config struct {
	PolicyPath  string
	LedgerPath  string
	HistoryPath string
	WorkDir     string
}

// Server wraps the MCP SDK server around the libgov core.
type Server struct {
	mcpServer *mcpsdk.Server
	runner    *runner.Runner
	policySet *policy.Set
	policyRef string
	ledger    *provenance.Ledger
	histStore *history.Store
}

// New creates an MCP server with the policy set, ledger, and history store
// loaded. Policy and history are optional; the matching tools report a
// configuration error when unconfigured.
func New(cfg Config) (*Server, error) {
	s := &Server{
		runner: runner.New(cfg.WorkDir),
	}

	if cfg.PolicyPath != "" {
		set, hash, err := policy.Load(cfg.PolicyPath)
		if err != nil {
			return nil, fmt.Errorf("load policy set: %w", err)
		}
		s.policySet = set
		s.policyRef = hash
	}

	if cfg.LedgerPath != "" {
		ledger, err := provenance.Open(cfg.LedgerPath)
		if err != nil {
			return nil, fmt.Errorf("open provenance ledger: %w", err)
		}
		s.ledger = ledger
	}

	if cfg.HistoryPath != "" {
		store, err := history.Open(cfg.HistoryPath)
		if err != nil {
			return nil, fmt.Errorf("open history store: %w", err)
		}
		s.histStore = store
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    "libgov",
			Version: "0.1.0",
		},
		nil,
	)

	s.registerTools()
	return s, nil
}

// Run starts the MCP server on stdio transport. Blocks until ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// Close releases the ledger and history store.
func (s *Server) Close() error {
	if s.histStore != nil {
		s.histStore.Close()
	}
	if s.ledger != nil {
		return s.ledger.Close()
	}
	return nil
}

func (s *Server) detector() *drift.Detector {
	return drift.NewDetector(s.ledger, s.runner)
}

// registerTools adds all libgov tools to the MCP server.
func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "libgov_validate",
		Description: "Run the conformance pipeline (schema, semantic, optional hooks) over a library document and return the verdict.",
	}, s.handleValidate)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "libgov_check_policy",
		Description: "Evaluate the loaded policy set against a proposed library application. Returns allow, deny, or require_approval plus every matching rule.",
	}, s.handleCheckPolicy)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "libgov_check_drift",
		Description: "Check whether a previously applied library has drifted from its source of truth (version or validation drift).",
	}, s.handleCheckDrift)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "libgov_history",
		Description: "Return recorded conformance runs for a library, most recent first.",
	}, s.handleHistory)
}
