package models

// FormData is the full application form record. Field names on the wire use
// the same camelCase keys as the web client, so persisted drafts and API
// payloads stay interchangeable.
type FormData struct {
	// Personal. Names split per design (Romaji/Kanji).
	LastNameRomaji         string `json:"lastNameRomaji"`
	FirstNameRomaji        string `json:"firstNameRomaji"`
	LastNameKanji          string `json:"lastNameKanji"`
	FirstNameKanji         string `json:"firstNameKanji"`
	FullName               string `json:"fullName"`
	DOB                    string `json:"dob"`
	Gender                 string `json:"gender"`
	MaritalStatus          string `json:"maritalStatus"`
	Course                 string `json:"course"`
	Age                    string `json:"age"`
	Nationality            string `json:"nationality"`
	PassportNumber         string `json:"passportNumber"`
	PassportIssueDate      string `json:"passportIssueDate"`
	PassportIssuePlace     string `json:"passportIssuePlace"`
	PassportExpirationDate string `json:"passportExpirationDate"`
	Email                  string `json:"email"`
	Phone                  string `json:"phone"`
	PermanentAddress       string `json:"permanentAddress"`
	CurrentAddress         string `json:"currentAddress"`

	// Education
	Education           []EducationRow `json:"education"`
	LastSchoolSummary   string         `json:"lastSchoolSummary"`
	LastSchoolCategory  string         `json:"lastSchoolCategory"`
	YearsFromElementary string         `json:"yearsFromElementary"`

	// Employment
	EmploymentYesNo string          `json:"employmentYesNo"`
	Employment      []EmploymentRow `json:"employment"`

	// Japanese study
	HasStudiedAtLanguageSchool string        `json:"hasStudiedAtLanguageSchool"` // "Yes" | "No"
	JpLearningHours            string        `json:"jpLearningHours"`
	JpSchools                  []JpSchoolRow `json:"jpSchools"`

	// Proficiency
	Proficiency          []ProficiencyRow `json:"proficiency"`
	OtherProficiencyNote string           `json:"otherProficiencyNote"`

	// COE / visits / occupation
	CoeHistory CoeHistory `json:"coeHistory"`
	Occupation string     `json:"occupation"`
	Visits     Visits     `json:"visits"`

	// Family
	Family             []FamilyRow        `json:"family"`
	HasFamilyInJapan   string             `json:"hasFamilyInJapan"`
	FamilyInJapanYesNo string             `json:"familyInJapanYesNo"`
	FamilyInJapan      []FamilyInJapanRow `json:"familyInJapan"`

	// Post graduation
	SchoolType       string `json:"schoolType"`
	SchoolName       string `json:"schoolName"`
	Major            string `json:"major"`
	DesiredJob       string `json:"desiredJob"`
	ReturnHomeYyyyMm string `json:"returnHomeYyyyMm"`
	Motivation       string `json:"motivation"`

	// Sponsor
	Sponsor Sponsor `json:"sponsor"`

	// Others
	Notes              string `json:"notes"`
	ReasonsForApplying string `json:"reasonsForApplying"`
}

type EducationRow struct {
	SchoolName    string `json:"schoolName"`
	StartYm       string `json:"startYm"`
	EndYm         string `json:"endYm"`
	YearsAttended string `json:"yearsAttended"`
	Location      string `json:"location"`
}

type EmploymentRow struct {
	CompanyName string `json:"companyName"`
	StartYm     string `json:"startYm"`
	EndYm       string `json:"endYm"`
	JobTitle    string `json:"jobTitle"`
	Location    string `json:"location"`
}

type JpSchoolRow struct {
	SchoolName string `json:"schoolName"`
	StartYm    string `json:"startYm"`
	EndYm      string `json:"endYm"`
}

type ProficiencyRow struct {
	TestName string `json:"testName"`
	Year     string `json:"year"`
	Level    string `json:"level"`
	Score    string `json:"score"`
	Result   string `json:"result"`
}

// CoeHistory records prior Certificate of Eligibility applications.
type CoeHistory struct {
	YesNo       string `json:"yesNo"`
	Count       string `json:"count"`
	DeniedCount string `json:"deniedCount"`
}

// Visits records prior visits to Japan.
type Visits struct {
	YesNo  string `json:"yesNo"`
	Count  string `json:"count"`
	Recent string `json:"recent"`
}

type FamilyRow struct {
	Relation    string `json:"relation"`
	Name        string `json:"name"`
	DOB         string `json:"dob"`
	Nationality string `json:"nationality"`
	Occupation  string `json:"occupation"`
	Address     string `json:"address"`
}

type FamilyInJapanRow struct {
	Relation    string `json:"relation"`
	Name        string `json:"name"`
	DOB         string `json:"dob"`
	Nationality string `json:"nationality"`
	Phone       string `json:"phone"`
	School      string `json:"school"`
	Status      string `json:"status"`
	Address     string `json:"address"`
}

// Sponsor is the financial guarantor attached to the applicant.
type Sponsor struct {
	FullName        string `json:"fullName"`
	Relationship    string `json:"relationship"`
	CurrentAddress  string `json:"currentAddress"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	Company         string `json:"company"`
	Position        string `json:"position"`
	WorkAddress     string `json:"workAddress"`
	WorkPhone       string `json:"workPhone"`
	AnnualIncomeJpy string `json:"annualIncomeJpy"`
	ExchangeRate    string `json:"exchangeRate"`
}

// DefaultFormData returns the all-empty record. Every collection is a non-nil
// empty slice so iteration is always safe.
func DefaultFormData() FormData {
	return FormData{
		Education:     []EducationRow{},
		Employment:    []EmploymentRow{},
		JpSchools:     []JpSchoolRow{},
		Proficiency:   []ProficiencyRow{},
		Family:        []FamilyRow{},
		FamilyInJapan: []FamilyInJapanRow{},
	}
}

// Clone returns a deep copy of the record, including its row collections.
func (f FormData) Clone() FormData {
	out := f
	out.Education = append([]EducationRow{}, f.Education...)
	out.Employment = append([]EmploymentRow{}, f.Employment...)
	out.JpSchools = append([]JpSchoolRow{}, f.JpSchools...)
	out.Proficiency = append([]ProficiencyRow{}, f.Proficiency...)
	out.Family = append([]FamilyRow{}, f.Family...)
	out.FamilyInJapan = append([]FamilyInJapanRow{}, f.FamilyInJapan...)
	return out
}

// Normalize replaces nil collections with empty ones. Called after decoding
// external input so downstream code never sees a nil slice.
func (f *FormData) Normalize() {
	if f.Education == nil {
		f.Education = []EducationRow{}
	}
	if f.Employment == nil {
		f.Employment = []EmploymentRow{}
	}
	if f.JpSchools == nil {
		f.JpSchools = []JpSchoolRow{}
	}
	if f.Proficiency == nil {
		f.Proficiency = []ProficiencyRow{}
	}
	if f.Family == nil {
		f.Family = []FamilyRow{}
	}
	if f.FamilyInJapan == nil {
		f.FamilyInJapan = []FamilyInJapanRow{}
	}
}
