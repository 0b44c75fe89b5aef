package rtdb

import (
	"context"
	"encoding/json"
	"fmt"

	"yelocar/internal/models"
	"yelocar/internal/repositories/interfaces"
)

type staffRepository struct {
	tree Tree
}

func NewStaffRepository(tree Tree) interfaces.StaffRepository {
	return &staffRepository{tree: tree}
}

func (r *staffRepository) Create(ctx context.Context, staff *models.Staff) error {
	key, err := pushWithID(ctx, r.tree, PathStaff, staff)
	if err != nil {
		return fmt.Errorf("failed to create staff member: %w", err)
	}
	staff.ID = key
	return nil
}

func (r *staffRepository) GetByID(ctx context.Context, id string) (*models.Staff, error) {
	if err := checkKey(id); err != nil {
		return nil, err
	}
	raw, err := readOne(ctx, r.tree, join(PathStaff, id), "staff member "+id)
	if err != nil {
		return nil, err
	}
	var staff models.Staff
	if err := json.Unmarshal(raw, &staff); err != nil {
		return nil, fmt.Errorf("failed to decode staff member %s: %w", id, err)
	}
	staff.ID = id
	return &staff, nil
}

func (r *staffRepository) List(ctx context.Context) ([]models.Staff, error) {
	nodes, keys, err := readChildren(ctx, r.tree, PathStaff)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}

	out := make([]models.Staff, 0, len(keys))
	for _, key := range keys {
		var staff models.Staff
		if err := json.Unmarshal(nodes[key], &staff); err != nil {
			continue
		}
		staff.ID = key
		out = append(out, staff)
	}
	return out, nil
}

func (r *staffRepository) Replace(ctx context.Context, staff *models.Staff) error {
	if err := checkKey(staff.ID); err != nil {
		return err
	}
	path := join(PathStaff, staff.ID)
	if err := exists(ctx, r.tree, path, "staff member "+staff.ID); err != nil {
		return err
	}
	if err := r.tree.Set(ctx, path, staff); err != nil {
		return fmt.Errorf("failed to update staff member: %w", err)
	}
	return nil
}

func (r *staffRepository) Delete(ctx context.Context, id string) error {
	if err := checkKey(id); err != nil {
		return err
	}
	path := join(PathStaff, id)
	if err := exists(ctx, r.tree, path, "staff member "+id); err != nil {
		return err
	}
	if err := r.tree.Delete(ctx, path); err != nil {
		return fmt.Errorf("failed to delete staff member: %w", err)
	}
	return nil
}

func (r *staffRepository) Count(ctx context.Context) (int, error) {
	_, keys, err := readChildren(ctx, r.tree, PathStaff)
	if err != nil {
		return 0, fmt.Errorf("failed to count staff: %w", err)
	}
	return len(keys), nil
}
