package parser

import (
	"encoding/json"
	"fmt"

	"github.com/rosterflow/rosterflow/internal/model"
)

// DecodeItems converts raw parse items into typed proposals. Items with
// an unknown kind or an undecodable payload are dropped, with a warning
// appended to the returned warning list so the caller can surface them
// alongside the batch's global warnings.
func DecodeItems(items []Item) ([]model.Proposal, []string) {
	var proposals []model.Proposal
	var warnings []string

	for i, item := range items {
		payload, err := decodePayload(model.CommandKind(item.Kind), item.Payload)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("dropped item %d: %v", i+1, err))
			continue
		}

		proposals = append(proposals, model.Proposal{
			Kind:       payload.CommandKind(),
			Payload:    payload,
			Confidence: item.Confidence,
			Warnings:   item.Warnings,
		})
	}

	return proposals, warnings
}

func decodePayload(kind model.CommandKind, raw json.RawMessage) (model.CommandPayload, error) {
	switch kind {
	case model.KindCreateRule:
		var p model.RulePayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("bad %s payload: %w", kind, err)
		}
		return p, nil
	case model.KindCreateStaff:
		var p model.StaffPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("bad %s payload: %w", kind, err)
		}
		return p, nil
	case model.KindMoveSession:
		var p model.MoveSessionPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("bad %s payload: %w", kind, err)
		}
		return p, nil
	case model.KindCancelSession:
		var p model.CancelSessionPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("bad %s payload: %w", kind, err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown kind %q", kind)
	}
}
