package entity

// Property is one scheduled location from an SOV.
type Property struct {
	LocationNumber string            `json:"location_number,omitempty"`
	Address        string            `json:"address,omitempty"`
	City           string            `json:"city,omitempty"`
	State          string            `json:"state,omitempty"`
	Zip            string            `json:"zip,omitempty"`
	FullAddress    string            `json:"full_address,omitempty"`
	BuildingValue  *float64          `json:"building_value,omitempty"`
	ContentsValue  *float64          `json:"contents_value,omitempty"`
	BusinessIncome *float64          `json:"business_income,omitempty"`
	TotalValue     *float64          `json:"total_value,omitempty"`
	Construction   string            `json:"construction,omitempty"`
	Occupancy      string            `json:"occupancy,omitempty"`
	YearBuilt      *int              `json:"year_built,omitempty"`
	SquareFeet     *float64          `json:"square_feet,omitempty"`
	Stories        *int              `json:"stories,omitempty"`
	Sprinkler      string            `json:"sprinkler,omitempty"`
	RoofType       string            `json:"roof_type,omitempty"`
	Source         *RowRef           `json:"_source,omitempty"`
	Extra          map[string]string `json:"extra,omitempty"`
}

// PropertyTotals aggregates values across a property schedule.
type PropertyTotals struct {
	TotalBuildingValue  float64 `json:"total_building_value"`
	TotalContentsValue  float64 `json:"total_contents_value"`
	TotalBusinessIncome float64 `json:"total_business_income"`
	TotalInsuredValue   float64 `json:"total_insured_value"`
	TotalLocations      int     `json:"total_locations"`
}

// ScheduleInfo is schedule-level context found in a document's prose.
type ScheduleInfo struct {
	InsuredName   string `json:"insured_name,omitempty"`
	PolicyNumber  string `json:"policy_number,omitempty"`
	EffectiveDate string `json:"effective_date,omitempty"`
}

// SOVData is the typed extraction output for SOV documents.
type SOVData struct {
	ScheduleInformation ScheduleInfo   `json:"schedule_information"`
	Properties          []Property     `json:"properties"`
	PropertyCount       int            `json:"property_count"`
	Totals              PropertyTotals `json:"totals"`
}
