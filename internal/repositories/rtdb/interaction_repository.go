package rtdb

import (
	"context"
	"encoding/json"
	"fmt"

	"yelocar/internal/models"
	"yelocar/internal/repositories/interfaces"
)

type interactionRepository struct {
	tree Tree
}

func NewInteractionRepository(tree Tree) interfaces.InteractionRepository {
	return &interactionRepository{tree: tree}
}

func (r *interactionRepository) Append(ctx context.Context, event *models.InteractionEvent) error {
	stored := *event
	stored.ID = ""
	key, err := r.tree.Push(ctx, PathInteractions, &stored)
	if err != nil {
		return fmt.Errorf("failed to record interaction: %w", err)
	}
	event.ID = key
	return nil
}

func (r *interactionRepository) ListRecent(ctx context.Context, limit int) ([]models.InteractionEvent, error) {
	nodes, err := r.tree.LastByChild(ctx, PathInteractions, "timestamp", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list interactions: %w", err)
	}

	events := make([]models.InteractionEvent, 0, len(nodes))
	for i := len(nodes) - 1; i >= 0; i-- {
		if e, ok := decodeInteraction(nodes[i].Key, nodes[i].Value); ok {
			events = append(events, e)
		}
	}
	return events, nil
}

func (r *interactionRepository) ListAll(ctx context.Context) ([]models.InteractionEvent, error) {
	nodes, keys, err := readChildren(ctx, r.tree, PathInteractions)
	if err != nil {
		return nil, fmt.Errorf("failed to list interactions: %w", err)
	}

	events := make([]models.InteractionEvent, 0, len(keys))
	for _, key := range keys {
		if e, ok := decodeInteraction(key, nodes[key]); ok {
			events = append(events, e)
		}
	}
	return events, nil
}

func decodeInteraction(key string, raw json.RawMessage) (models.InteractionEvent, bool) {
	var doc struct {
		UserID    models.FlexString `json:"userId"`
		FeatureID models.FlexString `json:"featureId"`
		Action    models.FlexString `json:"action"`
		Timestamp models.FlexString `json:"timestamp"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return models.InteractionEvent{}, false
	}
	return models.InteractionEvent{
		ID:        key,
		UserID:    doc.UserID.Value,
		FeatureID: doc.FeatureID.Value,
		Action:    models.InteractionAction(doc.Action.Value),
		Timestamp: doc.Timestamp.Value,
	}, true
}
