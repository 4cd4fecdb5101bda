package models

// CaseFacts describes an accused person's alleged offense and personal
// circumstances, as submitted for a bail eligibility analysis.
type CaseFacts struct {
	Name              string `json:"name"`
	Age               int    `json:"age"`
	Gender            string `json:"gender"`
	OffenseType       string `json:"offenseType"`
	SectionNumber     string `json:"sectionNumber"`
	PriorConvictions  bool   `json:"priorConvictions"`
	EmploymentStatus  string `json:"employmentStatus"`
	FamilyTies        string `json:"familyTies"`
	CriminalHistory   string `json:"criminalHistory"`
	AdditionalDetails string `json:"additionalDetails,omitempty"` // Optional, empty means absent
}

// HasAdditionalDetails reports whether the optional free-text details were supplied
func (f CaseFacts) HasAdditionalDetails() bool {
	return f.AdditionalDetails != ""
}
