package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/devcomb/theia/internal/highlight"
	"github.com/devcomb/theia/internal/view"
)

const (
	// cmdApplyHighlights is the token producer's entry point: one argument
	// per call, a highlightBatch.
	cmdApplyHighlights = "semanticHighlight.apply"
	// cmdRecentDocuments returns the remembered remote-document opens,
	// most recent first.
	cmdRecentDocuments = "semanticHighlight.recentDocuments"
)

const recentLimit = 20

// highlightBatch is the wire form of one update from the token producer.
type highlightBatch struct {
	URI    string           `json:"uri"`
	Ranges []highlightRange `json:"ranges"`
}

type highlightRange struct {
	StartLine      uint32   `json:"startLine"`
	StartCharacter uint32   `json:"startCharacter"`
	EndLine        uint32   `json:"endLine"`
	EndCharacter   uint32   `json:"endCharacter"`
	Scopes         []string `json:"scopes"`
}

func (s *Server) workspaceExecuteCommand(
	glspContext *glsp.Context,
	params *protocol.ExecuteCommandParams,
) (any, error) {
	switch params.Command {
	case cmdApplyHighlights:
		return nil, s.applyHighlights(params.Arguments)
	case cmdRecentDocuments:
		return s.history.Recent(recentLimit)
	}
	return nil, fmt.Errorf("unknown command %q", params.Command)
}

func (s *Server) applyHighlights(arguments []any) error {
	for _, raw := range arguments {
		var batch highlightBatch
		if err := decodeArgument(raw, &batch); err != nil {
			return fmt.Errorf("malformed highlight batch: %w", err)
		}

		uri, err := s.resolver.Canonical(batch.URI)
		if err != nil {
			return err
		}

		ranges := make([]highlight.Range, len(batch.Ranges))
		for i, r := range batch.Ranges {
			ranges[i] = highlight.Range{
				Start:  view.Position{Line: r.StartLine, Character: r.StartCharacter},
				End:    view.Position{Line: r.EndLine, Character: r.EndCharacter},
				Scopes: r.Scopes,
			}
		}

		if err := s.cache.ApplyUpdate(context.Background(), uri, ranges); err != nil {
			return err
		}
	}
	return nil
}

// decodeArgument converts a json-decoded command argument into out through
// a marshal round-trip.
func decodeArgument(raw any, out any) error {
	encoded, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(encoded, out)
}
