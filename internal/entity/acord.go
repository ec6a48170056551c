package entity

// Applicant is the identity block shared by the ACORD applications.
// Fields filled from lower-priority sources (driver licenses) never
// overwrite a value an ACORD form provided.
type Applicant struct {
	Name           string            `json:"name,omitempty"`
	MailingAddress string            `json:"mailing_address,omitempty"`
	City           string            `json:"city,omitempty"`
	State          string            `json:"state,omitempty"`
	Zip            string            `json:"zip,omitempty"`
	Phone          string            `json:"phone,omitempty"`
	Fax            string            `json:"fax,omitempty"`
	Email          string            `json:"email,omitempty"`
	Website        string            `json:"website,omitempty"`
	DateOfBirth    string            `json:"date_of_birth,omitempty"`
	Extra          map[string]string `json:"extra,omitempty"`
	Sources        map[string]string `json:"field_sources,omitempty"`
}

// Set assigns a field only when it is currently empty, recording where the
// value came from. Returns true when the value was taken.
func (a *Applicant) Set(field, value, source string) bool {
	if value == "" {
		return false
	}
	slot := a.slot(field)
	if slot == nil {
		if a.Extra == nil {
			a.Extra = map[string]string{}
		}
		if a.Extra[field] != "" {
			return false
		}
		a.Extra[field] = value
	} else {
		if *slot != "" {
			return false
		}
		*slot = value
	}
	if a.Sources == nil {
		a.Sources = map[string]string{}
	}
	a.Sources[field] = source
	return true
}

func (a *Applicant) slot(field string) *string {
	switch field {
	case "name":
		return &a.Name
	case "mailing_address", "address":
		return &a.MailingAddress
	case "city":
		return &a.City
	case "state":
		return &a.State
	case "zip":
		return &a.Zip
	case "phone":
		return &a.Phone
	case "fax":
		return &a.Fax
	case "email":
		return &a.Email
	case "website":
		return &a.Website
	case "date_of_birth":
		return &a.DateOfBirth
	}
	return nil
}

// CoverageDates is the effective/expiration pair every coverage block
// carries; fusion cross-validates the ordering.
type CoverageDates struct {
	EffectiveDate  string `json:"effective_date,omitempty"`
	ExpirationDate string `json:"expiration_date,omitempty"`
}

// GLLimits are the ACORD 126 general liability limit amounts.
type GLLimits struct {
	EachOccurrence       *float64 `json:"each_occurrence,omitempty"`
	GeneralAggregate     *float64 `json:"general_aggregate,omitempty"`
	ProductsCompletedOps *float64 `json:"products_completed_ops,omitempty"`
	PersonalAdvInjury    *float64 `json:"personal_adv_injury,omitempty"`
	MedicalExpense       *float64 `json:"medical_expense,omitempty"`
	FireDamage           *float64 `json:"fire_damage,omitempty"`
}

// CoverageType is the occurrence / claims-made selection on the 126.
type CoverageType struct {
	Occurrence bool `json:"occurrence"`
	ClaimsMade bool `json:"claims_made"`
}

// Acord126Data is the typed extraction output for ACORD 126 (Commercial
// General Liability Application) documents.
type Acord126Data struct {
	FormNumber   string            `json:"form_number"`
	Applicant    Applicant         `json:"applicant"`
	CoverageType CoverageType      `json:"coverage_type"`
	Coverage     CoverageDates     `json:"coverage_information"`
	Limits       GLLimits          `json:"limits"`
	Deductibles  map[string]any    `json:"deductibles,omitempty"`
	Policy       PolicyInfo        `json:"policy_information"`
	RawFields    map[string]string `json:"raw_fields,omitempty"`
}

// BusinessInfo is the ACORD 125 business description block.
type BusinessInfo struct {
	Description       string `json:"description,omitempty"`
	YearsInBusiness   string `json:"years_in_business,omitempty"`
	NumberOfEmployees string `json:"number_of_employees,omitempty"`
	AnnualRevenue     string `json:"annual_revenue,omitempty"`
	FederalID         string `json:"federal_id,omitempty"`
}

// CoverageRequested flags which lines of business the 125 requests.
type CoverageRequested struct {
	GeneralLiability      bool `json:"general_liability"`
	Property              bool `json:"property"`
	Auto                  bool `json:"auto"`
	WorkersComp           bool `json:"workers_comp"`
	Umbrella              bool `json:"umbrella"`
	ProfessionalLiability bool `json:"professional_liability"`
}

// PriorInsurance is the 125's prior-coverage block.
type PriorInsurance struct {
	CurrentCarrier    string `json:"current_carrier,omitempty"`
	PriorPolicyNumber string `json:"prior_policy_number,omitempty"`
	LossesLast5Years  string `json:"losses_last_5_years,omitempty"`
}

// Acord125Data is the typed extraction output for ACORD 125 (Commercial
// Insurance Application) documents.
type Acord125Data struct {
	FormNumber     string            `json:"form_number"`
	Applicant      Applicant         `json:"applicant_information"`
	Business       BusinessInfo      `json:"business_information"`
	Coverage       CoverageRequested `json:"coverage_requirements"`
	Policy         CoverageDates     `json:"coverage_information"`
	PriorInsurance PriorInsurance    `json:"prior_insurance"`
	RawFields      map[string]string `json:"raw_fields,omitempty"`
}

// WorkClassification is one class-code row from the 130's rating table.
type WorkClassification struct {
	ClassCode   string `json:"class_code"`
	Description string `json:"description,omitempty"`
	Payroll     string `json:"payroll,omitempty"`
}

// Acord130Data is the typed extraction output for ACORD 130 (Workers
// Compensation Application) documents.
type Acord130Data struct {
	FormNumber      string               `json:"form_number"`
	Employer        Applicant            `json:"employer_information"`
	Coverage        CoverageDates        `json:"coverage_information"`
	States          string               `json:"states,omitempty"`
	ExperienceMod   string               `json:"experience_modification,omitempty"`
	PriorCarrier    string               `json:"prior_carrier,omitempty"`
	PriorPolicy     string               `json:"prior_policy_number,omitempty"`
	TotalPayroll    string               `json:"total_estimated_payroll,omitempty"`
	Classifications []WorkClassification `json:"classifications"`
	RawFields       map[string]string    `json:"raw_fields,omitempty"`
}

// Acord140Data is the typed extraction output for ACORD 140 (Property
// Section) documents.
type Acord140Data struct {
	FormNumber  string            `json:"form_number"`
	InsuredName string            `json:"insured_name,omitempty"`
	Location    Property          `json:"location"`
	Coverage    CoverageDates     `json:"coverage_information"`
	Locations   []Property        `json:"locations,omitempty"`
	RawFields   map[string]string `json:"raw_fields,omitempty"`
}
