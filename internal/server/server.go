package server

import (
	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/devcomb/theia/internal/highlight"
	"github.com/devcomb/theia/internal/history"
	"github.com/devcomb/theia/internal/resolver"
	"github.com/devcomb/theia/internal/theme"
	"github.com/devcomb/theia/internal/view"
)

const serverName = "theia"

// Config is decoded from the client's InitializationOptions.
type Config struct {
	Theme     string `json:"theme,omitempty"`
	HistoryDB string `json:"history_db,omitempty"`
}

// Server hosts the semantic-highlighting overlay cache behind an LSP
// endpoint: document open/close notifications drive the view registry, and
// an external token producer delivers highlight batches through a
// workspace command.
type Server struct {
	handler  *protocol.Handler
	config   Config
	resolver *resolver.Resolver
	registry *view.Registry
	cache    *highlight.Cache
	theme    *theme.Theme
	history  *history.Store
	log      commonlog.Logger
}

// NewServer wires the protocol handler and returns a stdio-capable server.
func NewServer() (*server.Server, error) {
	ls := &Server{
		log: commonlog.GetLogger("theia.server"),
	}

	ls.handler = &protocol.Handler{
		Initialize:              ls.initialize,
		Initialized:             ls.initialized,
		TextDocumentDidOpen:     ls.textDocumentDidOpen,
		TextDocumentDidChange:   ls.textDocumentDidChange,
		TextDocumentDidClose:    ls.textDocumentDidClose,
		WorkspaceExecuteCommand: ls.workspaceExecuteCommand,
		Shutdown:                ls.shutdown,
	}

	return server.NewServer(ls.handler, serverName, false), nil
}
