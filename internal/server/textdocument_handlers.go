package server

import (
	"strings"
	"time"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func (s *Server) textDocumentDidOpen(
	context *glsp.Context,
	params *protocol.DidOpenTextDocumentParams,
) error {
	uri, err := s.resolver.Canonical(params.TextDocument.URI)
	if err != nil {
		return err
	}

	s.registry.Open(uri, countLines(params.TextDocument.Text))

	if s.resolver.IsRemote(uri) {
		if err := s.history.RecordOpen(uri, time.Now()); err != nil {
			s.log.Errorf("failed to record open of %s: %s", uri, err.Error())
		}
	}
	return nil
}

func (s *Server) textDocumentDidChange(
	context *glsp.Context,
	params *protocol.DidChangeTextDocumentParams,
) error {
	uri, err := s.resolver.Canonical(params.TextDocument.URI)
	if err != nil {
		return err
	}

	// Full-document sync is advertised, so only whole-content events are
	// expected here.
	for _, raw := range params.ContentChanges {
		switch change := raw.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			s.registry.SetLineCount(uri, countLines(change.Text))
		default:
			s.log.Debugf("ignoring unexpected change event %T for %s", raw, uri)
		}
	}
	return nil
}

func (s *Server) textDocumentDidClose(
	context *glsp.Context,
	params *protocol.DidCloseTextDocumentParams,
) error {
	uri, err := s.resolver.Canonical(params.TextDocument.URI)
	if err != nil {
		return err
	}

	// Closing the view fires its close subscriptions, which is what purges
	// the document's overlay cache entry.
	s.registry.Close(uri)
	return nil
}

func countLines(text string) uint32 {
	return uint32(strings.Count(text, "\n")) + 1
}
