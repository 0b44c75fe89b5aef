package rtdb

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"yelocar/internal/models"
)

// children returns the sorted keys of the non-null entries. Callers decode
// each entry on its own so one malformed record cannot hide the rest.
func children(raw map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(raw))
	for k, v := range raw {
		if isNull(v) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// vehicleDoc is the tolerant read shape of cars/{id}. The inventory form and
// the seed data disagree on whether numbers are stored as strings.
type vehicleDoc struct {
	Name         models.FlexString  `json:"name"`
	Year         models.FlexInt     `json:"year"`
	Price        models.FlexInt     `json:"price"`
	Discount     models.FlexInt     `json:"discount"`
	ImageSrc     models.FlexString  `json:"imageSrc"`
	ImageAlt     models.FlexString  `json:"imageAlt"`
	Category     models.FlexString  `json:"category"`
	Type         models.FlexString  `json:"type"`
	FuelType     models.FlexString  `json:"fuelType"`
	Transmission models.FlexString  `json:"transmission"`
	Location     models.FlexString  `json:"location"`
	Mileage      models.FlexString  `json:"mileage"`
	Description  models.FlexString  `json:"description"`
	MainFeatures models.FeatureList `json:"mainFeatures"`
	AllFeatures  featureNames       `json:"allFeatures"`
	Status       models.FlexString  `json:"status"`
	CreatedAt    models.FlexString  `json:"createdAt"`
	UpdatedAt    models.FlexString  `json:"updatedAt"`
}

func (d *vehicleDoc) vehicle(id string) models.Vehicle {
	v := models.Vehicle{
		ID:           id,
		Name:         d.Name.Value,
		Year:         int(d.Year.Value),
		Price:        d.Price.Value,
		Discount:     d.Discount.Value,
		ImageSrc:     d.ImageSrc.Value,
		ImageAlt:     d.ImageAlt.Value,
		Category:     d.Category.Value,
		Type:         d.Type.Value,
		FuelType:     d.FuelType.Value,
		Transmission: d.Transmission.Value,
		Location:     d.Location.Value,
		Mileage:      d.Mileage.Value,
		Description:  d.Description.Value,
		MainFeatures: d.MainFeatures,
		AllFeatures:  []string(d.AllFeatures),
		Status:       models.VehicleStatus(d.Status.Or(string(models.VehicleStatusActive))),
		CreatedAt:    d.CreatedAt.Value,
		UpdatedAt:    d.UpdatedAt.Value,
	}
	if v.MainFeatures == nil {
		v.MainFeatures = models.FeatureList{}
	}
	return v
}

// featureNames accepts a list or an index-keyed object of names.
type featureNames []string

func (f *featureNames) UnmarshalJSON(data []byte) error {
	var list models.FeatureList
	if err := json.Unmarshal(data, &list); err != nil {
		*f = nil
		return nil
	}
	names := make([]string, 0, len(list))
	for _, feature := range list {
		names = append(names, feature.Name)
	}
	*f = names
	return nil
}

func decodeVehicle(id string, raw json.RawMessage) (models.Vehicle, bool) {
	var doc vehicleDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return models.Vehicle{}, false
	}
	return doc.vehicle(id), true
}

// decodeBooking never fails: a record that is not an object still counts as
// a booking and is filled with defaults by reconciliation.
func decodeBooking(userID, id string, raw json.RawMessage) models.BookingRecord {
	record := models.BookingRecord{ID: id, UserID: userID}
	if err := json.Unmarshal(raw, &record); err != nil {
		return models.BookingRecord{ID: id, UserID: userID}
	}
	return record
}

// readChildren loads the children of path. A missing node, or one that is
// not an object, has no children.
func readChildren(ctx context.Context, tree Tree, path string) (map[string]json.RawMessage, []string, error) {
	var raw json.RawMessage
	found, err := tree.Get(ctx, path, &raw)
	if err != nil {
		return nil, nil, err
	}
	if !found {
		return map[string]json.RawMessage{}, nil, nil
	}

	var nodes map[string]json.RawMessage
	if err := json.Unmarshal(raw, &nodes); err != nil {
		return map[string]json.RawMessage{}, nil, nil
	}
	return nodes, children(nodes), nil
}

// readOne loads a single node, mapping absence to ErrNotFound.
func readOne(ctx context.Context, tree Tree, path, what string) (json.RawMessage, error) {
	var raw json.RawMessage
	found, err := tree.Get(ctx, path, &raw)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", models.ErrNotFound, what)
	}
	return raw, nil
}

// pushWithID stores v under a new key and writes the key back as its id
// field, which the admin tables read.
func pushWithID(ctx context.Context, tree Tree, path string, v interface{}) (string, error) {
	key, err := tree.Push(ctx, path, v)
	if err != nil {
		return "", err
	}
	if err := tree.Update(ctx, join(path, key), map[string]interface{}{"id": key}); err != nil {
		return "", err
	}
	return key, nil
}

func exists(ctx context.Context, tree Tree, path, what string) error {
	_, err := readOne(ctx, tree, path, what)
	return err
}
