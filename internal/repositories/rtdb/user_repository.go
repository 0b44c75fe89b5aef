package rtdb

import (
	"context"
	"encoding/json"
	"fmt"

	"yelocar/internal/models"
	"yelocar/internal/repositories/interfaces"
)

type userRepository struct {
	tree Tree
}

func NewUserRepository(tree Tree) interfaces.UserRepository {
	return &userRepository{tree: tree}
}

func (r *userRepository) Create(ctx context.Context, profile *models.UserProfile) error {
	if err := checkKey(profile.UID); err != nil {
		return err
	}
	if err := r.tree.Set(ctx, join(PathUsers, profile.UID), profile); err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// GetByID treats a profile that is not an object as missing.
func (r *userRepository) GetByID(ctx context.Context, uid string) (*models.UserProfile, error) {
	if err := checkKey(uid); err != nil {
		return nil, err
	}
	raw, err := readOne(ctx, r.tree, join(PathUsers, uid), "profile "+uid)
	if err != nil {
		return nil, err
	}
	profile, ok := decodeProfile(uid, raw)
	if !ok {
		return nil, fmt.Errorf("%w: profile %s is malformed", models.ErrNotFound, uid)
	}
	return &profile, nil
}

func (r *userRepository) List(ctx context.Context) ([]models.UserProfile, error) {
	nodes, keys, err := readChildren(ctx, r.tree, PathUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	profiles := make([]models.UserProfile, 0, len(keys))
	for _, key := range keys {
		if p, ok := decodeProfile(key, nodes[key]); ok {
			profiles = append(profiles, p)
		}
	}
	return profiles, nil
}

func (r *userRepository) Update(ctx context.Context, uid string, fields map[string]interface{}) error {
	if err := checkKey(uid); err != nil {
		return err
	}
	path := join(PathUsers, uid)
	if err := exists(ctx, r.tree, path, "profile "+uid); err != nil {
		return err
	}
	if err := r.tree.Update(ctx, path, fields); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, uid string) error {
	if err := checkKey(uid); err != nil {
		return err
	}
	if err := r.tree.Delete(ctx, join(PathUsers, uid)); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}

func (r *userRepository) Count(ctx context.Context) (int, error) {
	_, keys, err := readChildren(ctx, r.tree, PathUsers)
	if err != nil {
		return 0, fmt.Errorf("failed to count profiles: %w", err)
	}
	return len(keys), nil
}

// decodeProfile reads a profile field by field; a phone number stored as a
// number must not make the role unreadable.
func decodeProfile(uid string, raw json.RawMessage) (models.UserProfile, bool) {
	var doc struct {
		UID         models.FlexString `json:"uid"`
		Email       models.FlexString `json:"email"`
		FullName    models.FlexString `json:"fullName"`
		PhoneNumber models.FlexString `json:"phoneNumber"`
		PhoneNo     models.FlexString `json:"phoneNo"`
		Role        models.FlexString `json:"role"`
		CreatedAt   models.FlexString `json:"createdAt"`
		UpdatedAt   models.FlexString `json:"updatedAt"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return models.UserProfile{}, false
	}
	return models.UserProfile{
		UID:         doc.UID.Or(uid),
		Email:       doc.Email.Value,
		FullName:    doc.FullName.Value,
		PhoneNumber: doc.PhoneNumber.Or(doc.PhoneNo.Value),
		Role:        models.Role(doc.Role.Value),
		CreatedAt:   doc.CreatedAt.Value,
		UpdatedAt:   doc.UpdatedAt.Value,
	}, true
}
