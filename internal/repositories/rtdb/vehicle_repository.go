package rtdb

import (
	"context"
	"fmt"

	"yelocar/internal/models"
	"yelocar/internal/repositories/interfaces"
)

type vehicleRepository struct {
	tree Tree
}

func NewVehicleRepository(tree Tree) interfaces.VehicleRepository {
	return &vehicleRepository{tree: tree}
}

func (r *vehicleRepository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	if vehicle.ID != "" {
		if err := checkKey(vehicle.ID); err != nil {
			return err
		}
		if err := r.tree.Set(ctx, join(PathCars, vehicle.ID), vehicle); err != nil {
			return fmt.Errorf("failed to create vehicle: %w", err)
		}
		return nil
	}

	key, err := pushWithID(ctx, r.tree, PathCars, vehicle)
	if err != nil {
		return fmt.Errorf("failed to create vehicle: %w", err)
	}
	vehicle.ID = key
	return nil
}

func (r *vehicleRepository) GetByID(ctx context.Context, id string) (*models.Vehicle, error) {
	if err := checkKey(id); err != nil {
		return nil, err
	}
	raw, err := readOne(ctx, r.tree, join(PathCars, id), "vehicle "+id)
	if err != nil {
		return nil, err
	}
	vehicle, ok := decodeVehicle(id, raw)
	if !ok {
		return nil, fmt.Errorf("%w: vehicle %s is malformed", models.ErrNotFound, id)
	}
	return &vehicle, nil
}

// List returns the whole catalog ordered by key. Entries that are not
// objects are skipped.
func (r *vehicleRepository) List(ctx context.Context) ([]models.Vehicle, error) {
	nodes, keys, err := readChildren(ctx, r.tree, PathCars)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}

	vehicles := make([]models.Vehicle, 0, len(keys))
	for _, key := range keys {
		if v, ok := decodeVehicle(key, nodes[key]); ok {
			vehicles = append(vehicles, v)
		}
	}
	return vehicles, nil
}

func (r *vehicleRepository) Replace(ctx context.Context, vehicle *models.Vehicle) error {
	if err := checkKey(vehicle.ID); err != nil {
		return err
	}
	path := join(PathCars, vehicle.ID)
	if err := exists(ctx, r.tree, path, "vehicle "+vehicle.ID); err != nil {
		return err
	}
	if err := r.tree.Set(ctx, path, vehicle); err != nil {
		return fmt.Errorf("failed to update vehicle: %w", err)
	}
	return nil
}

func (r *vehicleRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	if err := checkKey(id); err != nil {
		return err
	}
	path := join(PathCars, id)
	if err := exists(ctx, r.tree, path, "vehicle "+id); err != nil {
		return err
	}
	if err := r.tree.Update(ctx, path, fields); err != nil {
		return fmt.Errorf("failed to update vehicle: %w", err)
	}
	return nil
}

func (r *vehicleRepository) Delete(ctx context.Context, id string) error {
	if err := checkKey(id); err != nil {
		return err
	}
	path := join(PathCars, id)
	if err := exists(ctx, r.tree, path, "vehicle "+id); err != nil {
		return err
	}
	if err := r.tree.Delete(ctx, path); err != nil {
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}
	return nil
}

func (r *vehicleRepository) Count(ctx context.Context) (int, error) {
	_, keys, err := readChildren(ctx, r.tree, PathCars)
	if err != nil {
		return 0, fmt.Errorf("failed to count vehicles: %w", err)
	}
	return len(keys), nil
}
