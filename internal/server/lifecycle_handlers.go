package server

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/devcomb/theia/internal/highlight"
	"github.com/devcomb/theia/internal/history"
	"github.com/devcomb/theia/internal/resolver"
	"github.com/devcomb/theia/internal/theme"
	"github.com/devcomb/theia/internal/view"
)

func (s *Server) initialize(
	context *glsp.Context,
	params *protocol.InitializeParams,
) (any, error) {
	// Config
	var config Config
	configJson, err := json.Marshal(params.InitializationOptions)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(configJson, &config); err != nil {
		return nil, err
	}
	s.config = config
	s.log.Infof("config: %+v", config)

	// Root
	root := "."
	if params.RootURI != nil {
		root = *params.RootURI
	}
	s.resolver, err = resolver.New(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace root: %w", err)
	}

	// Theme
	if config.Theme != "" {
		s.theme, err = theme.Load(config.Theme)
		if err != nil {
			return nil, err
		}
	} else {
		s.theme = theme.Default()
	}

	// History store
	historyPath := config.HistoryDB
	if historyPath == "" {
		stateDir, err := getXDGStateHome(serverName)
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(stateDir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
		historyPath = path.Join(stateDir, "history.db")
	}
	s.history, err = history.NewStore(historyPath)
	if err != nil {
		return nil, err
	}

	// View registry + overlay cache
	s.registry = view.NewRegistry()
	s.cache = highlight.NewCache(s.registry, s.theme.Resolve)

	syncKind := protocol.TextDocumentSyncKindFull

	capabilities := s.handler.CreateServerCapabilities()
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &protocol.True,
		Change:    &syncKind,
	}
	capabilities.ExecuteCommandProvider = &protocol.ExecuteCommandOptions{
		Commands: []string{cmdApplyHighlights, cmdRecentDocuments},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
	}, nil
}

func (s *Server) initialized(
	context *glsp.Context,
	params *protocol.InitializedParams,
) error {
	s.log.Info("client initialized")
	return nil
}

func (s *Server) shutdown(context *glsp.Context) error {
	if s.cache != nil {
		s.cache.Dispose()
	}
	if s.registry != nil {
		s.registry.CloseAll()
	}
	if s.history != nil {
		if err := s.history.Close(); err != nil {
			s.log.Errorf("failed to close history store: %s", err.Error())
		}
	}
	return nil
}

func getXDGStateHome(appName string) (string, error) {
	xdgStateHome := os.Getenv("XDG_STATE_HOME")
	if xdgStateHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		xdgStateHome = filepath.Join(homeDir, ".local", "state")
	}
	return filepath.Join(xdgStateHome, appName), nil
}
