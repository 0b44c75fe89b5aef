package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"yelocar/internal/models"
	"yelocar/internal/repositories/interfaces"
	"yelocar/internal/utils"
	"yelocar/internal/validators"
	"yelocar/pkg/logger"

	"golang.org/x/crypto/bcrypt"
)

const (
	defaultCountry     = "India"
	defaultAccessLevel = "staff"
)

type StaffService interface {
	ListStaff(ctx context.Context) ([]models.Staff, error)
	GetStaff(ctx context.Context, id string) (*models.Staff, error)
	CreateStaff(ctx context.Context, actorID string, req *models.StaffRequest) (*models.Staff, error)
	UpdateStaff(ctx context.Context, actorID, id string, req *models.StaffRequest) (*models.Staff, error)
	DeleteStaff(ctx context.Context, actorID, id string) error
}

type staffService struct {
	staffRepo interfaces.StaffRepository
	audit     AuditService
	logger    *logger.Logger
	now       func() time.Time
}

func NewStaffService(staffRepo interfaces.StaffRepository, audit AuditService, logger *logger.Logger) StaffService {
	return &staffService{
		staffRepo: staffRepo,
		audit:     audit,
		logger:    logger,
		now:       time.Now,
	}
}

// Staff records never leave the service with their password hash.
func (s *staffService) ListStaff(ctx context.Context) ([]models.Staff, error) {
	members, err := s.staffRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	for i := range members {
		members[i] = members[i].Public()
	}
	return members, nil
}

func (s *staffService) GetStaff(ctx context.Context, id string) (*models.Staff, error) {
	member, err := s.staffRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get staff member: %w", err)
	}
	public := member.Public()
	return &public, nil
}

func (s *staffService) CreateStaff(ctx context.Context, actorID string, req *models.StaffRequest) (*models.Staff, error) {
	if errs := validators.ValidateStaff(req); len(errs) > 0 {
		return nil, errs
	}

	now := s.now()
	member := &models.Staff{
		EmployeeID: EmployeeID(now),
		CreatedAt:  utils.FormatTimeISO(now),
	}
	s.apply(member, req, now)

	if req.Password != "" {
		hash, err := hashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		member.PasswordHash = hash
	}

	if err := s.staffRepo.Create(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to create staff member: %w", err)
	}

	s.record(ctx, actorID, models.AuditActionCreate, member.ID)
	public := member.Public()
	return &public, nil
}

// UpdateStaff replaces the record. The employee id, creation time and the
// stored hash survive unless a new password is given.
func (s *staffService) UpdateStaff(ctx context.Context, actorID, id string, req *models.StaffRequest) (*models.Staff, error) {
	if errs := validators.ValidateStaff(req); len(errs) > 0 {
		return nil, errs
	}

	current, err := s.staffRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get staff member: %w", err)
	}

	member := &models.Staff{
		ID:           current.ID,
		EmployeeID:   current.EmployeeID,
		CreatedAt:    current.CreatedAt,
		PasswordHash: current.PasswordHash,
	}
	if member.EmployeeID == "" {
		member.EmployeeID = EmployeeID(s.now())
	}
	s.apply(member, req, s.now())

	if req.Password != "" {
		hash, err := hashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		member.PasswordHash = hash
	}

	if err := s.staffRepo.Replace(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to update staff member: %w", err)
	}

	s.record(ctx, actorID, models.AuditActionUpdate, id)
	public := member.Public()
	return &public, nil
}

func (s *staffService) DeleteStaff(ctx context.Context, actorID, id string) error {
	if err := s.staffRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete staff member: %w", err)
	}
	s.record(ctx, actorID, models.AuditActionDelete, id)
	return nil
}

func (s *staffService) apply(m *models.Staff, req *models.StaffRequest, now time.Time) {
	m.FirstName = req.FirstName
	m.MiddleName = strings.TrimSpace(req.MiddleName)
	m.LastName = req.LastName
	m.FullName = StaffFullName(req.FirstName, req.MiddleName, req.LastName)
	m.Gender = req.Gender
	m.DateOfBirth = req.DateOfBirth
	m.Age = 0
	if dob, ok := utils.ParseLooseTime(req.DateOfBirth); ok {
		m.Age = utils.AgeOn(dob, now)
	}
	m.ContactNumber = req.ContactNumber
	m.AlternateContactNumber = utils.StripSpaces(req.AlternateContactNumber)
	m.EmailAddress = req.EmailAddress
	m.Address = req.Address
	if m.Address.Country == "" {
		m.Address.Country = defaultCountry
	}
	m.ProfilePicture = req.ProfilePicture

	m.Role = req.Role
	m.Department = req.Department
	m.DateOfJoining = req.DateOfJoining
	m.EmploymentType = req.EmploymentType
	m.ShiftTiming = req.ShiftTiming
	m.Salary = req.Salary
	m.WorkLocation = req.WorkLocation

	m.GovIDProofType = req.GovIDProofType
	m.GovIDNumber = req.GovIDNumber
	m.EmployeeBadgeNumber = req.EmployeeBadgeNumber

	m.Username = req.Username
	if m.Username == "" {
		m.Username = DefaultUsername(req.FirstName, req.LastName)
	}
	m.AccessLevel = req.AccessLevel
	if m.AccessLevel == "" {
		m.AccessLevel = defaultAccessLevel
	}
	m.Status = req.Status
	if m.Status == "" {
		m.Status = models.StaffStatusActive
	}

	m.EmergencyContactName = req.EmergencyContactName
	m.EmergencyContactNumber = utils.StripSpaces(req.EmergencyContactNumber)
	m.RelationshipWithEmployee = req.RelationshipWithEmployee
	m.BloodGroup = req.BloodGroup
	m.MedicalConditions = req.MedicalConditions

	m.UpdatedAt = utils.FormatTimeISO(now)
}

func (s *staffService) record(ctx context.Context, actorID string, action models.AuditAction, id string) {
	s.logger.WithContext(ctx).WithFields(map[string]interface{}{
		"staff_id": id,
		"action":   action,
	}).Info("Staff updated")

	s.audit.Record(ctx, &models.AuditLog{
		ActorID:    actorID,
		ActorRole:  models.RoleAdmin,
		Action:     action,
		Resource:   "staff",
		ResourceID: id,
	})
}

// EmployeeID is EMP followed by the last six digits of the epoch millis.
func EmployeeID(at time.Time) string {
	millis := strconv.FormatInt(at.UnixMilli(), 10)
	if len(millis) > 6 {
		millis = millis[len(millis)-6:]
	}
	return "EMP" + millis
}

func DefaultUsername(firstName, lastName string) string {
	return strings.ToLower(strings.TrimSpace(firstName)) + "." + strings.ToLower(strings.TrimSpace(lastName))
}

func StaffFullName(parts ...string) string {
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	return strings.Join(names, " ")
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
