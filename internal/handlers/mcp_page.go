package handlers

import (
	"fmt"
	"net/http"
)

// MCPPageTool holds display-only fields for a tool on the MCP page.
type MCPPageTool struct {
	Name        string
	Description string
	Params      []string
}

// ServeMCP renders the MCP info page showing connection details and tools.
func (h *PageHandler) ServeMCP(catalogFn func() []MCPPageTool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !RequireMethod(w, r, http.MethodGet) {
			return
		}

		var tools []MCPPageTool
		if catalogFn != nil {
			tools = catalogFn()
		}

		scheme := "http"
		if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
			scheme = "https"
		}

		data := h.baseData("mcp")
		data["Tools"] = tools
		data["ToolCount"] = len(tools)
		data["MCPEndpoint"] = fmt.Sprintf("%s://%s/mcp", scheme, r.Host)

		h.render(w, http.StatusOK, "mcp.html", data)
	}
}
