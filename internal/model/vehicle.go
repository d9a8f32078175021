package model

// Envelope keys used by the classifier output and by every payload this
// service emits.
const (
	SummaryKey      = "Coverton imp_keys"
	SummaryKeyAlias = "Coverton_imp_keys"
	MedicalKey      = "medical_insurance"
)

// Defaults applied to vehicle-shaped records.
const (
	DefaultProduct = "Motor"
	DefaultState   = "Tamil Nadu"
	HealthProduct  = "Health"
)

// VehicleRecord is the flat policy record. JSON names are the downstream
// contract and must not change.
type VehicleRecord struct {
	InsuranceCompany string  `json:"insuranceCompany"`
	Category         string  `json:"category" validate:"required"`
	Product          string  `json:"product"`
	PolicyNo         string  `json:"policyno"`
	LastName         string  `json:"lastName"`
	FirstName        string  `json:"firstName"`
	DOB              *string `json:"dob"`
	EmailID          string  `json:"emailId"`
	PhoneNo          string  `json:"phoneNo" validate:"omitempty,numeric,len=10"`
	Lane1            string  `json:"lane1"`
	Lane2            string  `json:"lane2"`
	Area             string  `json:"area"`
	State            string  `json:"state"`
	Pincode          string  `json:"pincode"`
	AdharNo          *string `json:"adharNo"`
	PanNo            *string `json:"panNo"`
	Remarks          *string `json:"remarks"`
	SubProduct       string  `json:"subProduct" validate:"required"`
	PolicyIssuedDate *string `json:"policyissuedDate"`
	CommencementDate string  `json:"commenceMentDate"`
	PolicyEndDate    string  `json:"policyEndDate"`
	SumInsuredIDV    string  `json:"sumInsuredIdv"`
	GrossPremium     *string `json:"grossPremium"`
	GSTPercentage    string  `json:"gstPercentage"`
	Plan             string  `json:"plan"`
}

// NewVehicleRecord returns a record carrying the field defaults. state
// falls back to DefaultState when empty.
func NewVehicleRecord(state string) VehicleRecord {
	if state == "" {
		state = DefaultState
	}
	return VehicleRecord{Product: DefaultProduct, State: state}
}

// VehicleDateFields are the vehicle keys holding dates.
var VehicleDateFields = []string{"dob", "policyissuedDate", "commenceMentDate", "policyEndDate"}

// VehicleNonNullFields must never be emitted as null.
var VehicleNonNullFields = []string{"phoneNo", "firstName", "lastName"}

// Ptr returns a pointer to s.
func Ptr(s string) *string { return &s }
