package rtdb

import (
	"context"
	"encoding/json"
	"fmt"

	"yelocar/internal/models"
	"yelocar/internal/repositories/interfaces"
)

type showroomRepository struct {
	tree Tree
}

func NewShowroomRepository(tree Tree) interfaces.ShowroomRepository {
	return &showroomRepository{tree: tree}
}

func (r *showroomRepository) Create(ctx context.Context, showroom *models.Showroom) error {
	key, err := pushWithID(ctx, r.tree, PathShowrooms, showroom)
	if err != nil {
		return fmt.Errorf("failed to create showroom: %w", err)
	}
	showroom.ID = key
	return nil
}

func (r *showroomRepository) GetByID(ctx context.Context, id string) (*models.Showroom, error) {
	if err := checkKey(id); err != nil {
		return nil, err
	}
	raw, err := readOne(ctx, r.tree, join(PathShowrooms, id), "showroom "+id)
	if err != nil {
		return nil, err
	}
	var showroom models.Showroom
	if err := json.Unmarshal(raw, &showroom); err != nil {
		return nil, fmt.Errorf("failed to decode showroom %s: %w", id, err)
	}
	showroom.ID = id
	return &showroom, nil
}

func (r *showroomRepository) List(ctx context.Context) ([]models.Showroom, error) {
	nodes, keys, err := readChildren(ctx, r.tree, PathShowrooms)
	if err != nil {
		return nil, fmt.Errorf("failed to list showrooms: %w", err)
	}

	out := make([]models.Showroom, 0, len(keys))
	for _, key := range keys {
		var showroom models.Showroom
		if err := json.Unmarshal(nodes[key], &showroom); err != nil {
			continue
		}
		showroom.ID = key
		out = append(out, showroom)
	}
	return out, nil
}

func (r *showroomRepository) Replace(ctx context.Context, showroom *models.Showroom) error {
	if err := checkKey(showroom.ID); err != nil {
		return err
	}
	path := join(PathShowrooms, showroom.ID)
	if err := exists(ctx, r.tree, path, "showroom "+showroom.ID); err != nil {
		return err
	}
	if err := r.tree.Set(ctx, path, showroom); err != nil {
		return fmt.Errorf("failed to update showroom: %w", err)
	}
	return nil
}

func (r *showroomRepository) Delete(ctx context.Context, id string) error {
	if err := checkKey(id); err != nil {
		return err
	}
	path := join(PathShowrooms, id)
	if err := exists(ctx, r.tree, path, "showroom "+id); err != nil {
		return err
	}
	if err := r.tree.Delete(ctx, path); err != nil {
		return fmt.Errorf("failed to delete showroom: %w", err)
	}
	return nil
}

func (r *showroomRepository) Count(ctx context.Context) (int, error) {
	_, keys, err := readChildren(ctx, r.tree, PathShowrooms)
	if err != nil {
		return 0, fmt.Errorf("failed to count showrooms: %w", err)
	}
	return len(keys), nil
}

func (r *showroomRepository) SetStatus(ctx context.Context, id string, status models.ShowroomStatus) error {
	if err := checkKey(id); err != nil {
		return err
	}
	path := join(PathShowrooms, id)
	if err := exists(ctx, r.tree, path, "showroom "+id); err != nil {
		return err
	}
	fields := map[string]interface{}{
		"status":    string(status),
		"updatedAt": models.NowISO(),
	}
	if err := r.tree.Update(ctx, path, fields); err != nil {
		return fmt.Errorf("failed to update showroom status: %w", err)
	}
	return nil
}
