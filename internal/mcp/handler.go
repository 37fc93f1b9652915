package mcp

import (
	"net/http"

	"github.com/bobmcallan/dart-portal/internal/common"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Handler is the HTTP handler for the MCP endpoint.
// It wraps mcp-go's StreamableHTTPServer and delegates to it.
type Handler struct {
	streamable *mcpserver.StreamableHTTPServer
	logger     *common.Logger
}

// NewHandler creates a new MCP handler backed by fin.
func NewHandler(fin FinancialService, logger *common.Logger) *Handler {
	if logger == nil {
		logger = common.NewSilentLogger()
	}

	streamable := mcpserver.NewStreamableHTTPServer(NewServer(fin),
		mcpserver.WithStateLess(true),
	)

	logger.Info().Msg("MCP handler initialized")

	return &Handler{
		streamable: streamable,
		logger:     logger,
	}
}

// ServeHTTP delegates to the mcp-go StreamableHTTPServer.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.streamable.ServeHTTP(w, r)
}
