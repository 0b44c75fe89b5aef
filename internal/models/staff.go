package models

type StaffStatus string

const (
	StaffStatusActive   StaffStatus = "active"
	StaffStatusInactive StaffStatus = "inactive"
)

type StaffAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	ZipCode string `json:"zipCode"`
}

type Staff struct {
	ID                     string       `json:"id"`
	FirstName              string       `json:"firstName"`
	MiddleName             string       `json:"middleName,omitempty"`
	LastName               string       `json:"lastName"`
	FullName               string       `json:"fullName"`
	Gender                 string       `json:"gender,omitempty"`
	DateOfBirth            string       `json:"dateOfBirth,omitempty"`
	Age                    int          `json:"age"`
	ContactNumber          string       `json:"contactNumber"`
	AlternateContactNumber string       `json:"alternateContactNumber,omitempty"`
	EmailAddress           string       `json:"emailAddress"`
	Address                StaffAddress `json:"address"`
	ProfilePicture         string       `json:"profilePicture,omitempty"`

	EmployeeID     string  `json:"employeeId"`
	Role           string  `json:"role"`
	Department     string  `json:"department,omitempty"`
	DateOfJoining  string  `json:"dateOfJoining,omitempty"`
	EmploymentType string  `json:"employmentType,omitempty"`
	ShiftTiming    string  `json:"shiftTiming,omitempty"`
	Salary         float64 `json:"salary"`
	WorkLocation   string  `json:"workLocation,omitempty"`

	GovIDProofType      string `json:"govIdProofType,omitempty"`
	GovIDNumber         string `json:"govIdNumber,omitempty"`
	EmployeeBadgeNumber string `json:"employeeBadgeNumber,omitempty"`

	Username     string      `json:"username"`
	PasswordHash string      `json:"passwordHash,omitempty"`
	AccessLevel  string      `json:"accessLevel"`
	Status       StaffStatus `json:"status"`

	EmergencyContactName     string `json:"emergencyContactName,omitempty"`
	EmergencyContactNumber   string `json:"emergencyContactNumber,omitempty"`
	RelationshipWithEmployee string `json:"relationshipWithEmployee,omitempty"`
	BloodGroup               string `json:"bloodGroup,omitempty"`
	MedicalConditions        string `json:"medicalConditions,omitempty"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// Public returns a copy without the credential hash.
func (s Staff) Public() Staff {
	s.PasswordHash = ""
	return s
}

type StaffRequest struct {
	FirstName              string       `json:"firstName" validate:"required,min=1,max=50"`
	MiddleName             string       `json:"middleName" validate:"max=50"`
	LastName               string       `json:"lastName" validate:"required,min=1,max=50"`
	Gender                 string       `json:"gender" validate:"omitempty,oneof=male female other"`
	DateOfBirth            string       `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	ContactNumber          string       `json:"contactNumber" validate:"required,phone_number"`
	AlternateContactNumber string       `json:"alternateContactNumber" validate:"omitempty,phone_number"`
	EmailAddress           string       `json:"emailAddress" validate:"required,email_address"`
	Address                StaffAddress `json:"address"`
	ProfilePicture         string       `json:"profilePicture"`

	Role           string  `json:"role" validate:"required"`
	Department     string  `json:"department"`
	DateOfJoining  string  `json:"dateOfJoining" validate:"omitempty,datetime=2006-01-02"`
	EmploymentType string  `json:"employmentType" validate:"omitempty,oneof=full-time part-time contract"`
	ShiftTiming    string  `json:"shiftTiming"`
	Salary         float64 `json:"salary" validate:"gte=0"`
	WorkLocation   string  `json:"workLocation"`

	GovIDProofType      string `json:"govIdProofType"`
	GovIDNumber         string `json:"govIdNumber"`
	EmployeeBadgeNumber string `json:"employeeBadgeNumber"`

	Username    string      `json:"username" validate:"omitempty,min=3,max=60"`
	Password    string      `json:"password" validate:"omitempty,min=6"`
	AccessLevel string      `json:"accessLevel" validate:"omitempty,oneof=admin staff viewer"`
	Status      StaffStatus `json:"status" validate:"omitempty,oneof=active inactive"`

	EmergencyContactName     string `json:"emergencyContactName"`
	EmergencyContactNumber   string `json:"emergencyContactNumber" validate:"omitempty,phone_number"`
	RelationshipWithEmployee string `json:"relationshipWithEmployee"`
	BloodGroup               string `json:"bloodGroup"`
	MedicalConditions        string `json:"medicalConditions"`
}

// StaffRoles are the job titles offered by the staff form.
var StaffRoles = []string{
	"Developer",
	"Debugger",
	"Software Engineer",
	"Network Engineer",
	"Salesman",
	"Quality Assurance Engineer",
	"Hiring Manager",
	"HR Executive",
}
