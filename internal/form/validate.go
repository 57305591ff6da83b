package form

import (
	"regexp"
	"strings"

	"github.com/thanhbinhkd95/Form-To-PDF/internal/models"
)

// emailRegex is deliberately loose: one @, no whitespace, a dot in the domain.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidationResult carries the outcome of a full-form validation pass.
// Errors is keyed by field name; messages are bilingual (Japanese/English).
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors"`
}

// Validate checks the whole form in one pass and accumulates every failure.
/// It never short-circuits: a single call reports all missing fields at once.
func Validate(d models.FormData, imageURL string) ValidationResult {
	errors := map[string]string{}

	requireTrimmed := func(key, value, message string) {
		if strings.TrimSpace(value) == "" {
			errors[key] = message
		}
	}
	require := func(key, value, message string) {
		if value == "" {
			errors[key] = message
		}
	}

	// Personal information
	requireTrimmed("lastNameRomaji", d.LastNameRomaji, "姓（ローマ字）/Last Name (Romaji) is required")
	requireTrimmed("firstNameRomaji", d.FirstNameRomaji, "名（ローマ字）/First Name (Romaji) is required")
	require("dob", d.DOB, "生年月日/Date of Birth is required")
	requireTrimmed("nationality", d.Nationality, "国籍/Nationality is required")
	requireTrimmed("gender", d.Gender, "性別/Gender is required")
	requireTrimmed("maritalStatus", d.MaritalStatus, "婚姻状況/Marital Status is required")
	requireTrimmed("course", d.Course, "コース名/Course is required")
	require("age", d.Age, "年齢/Age is required")
	requireTrimmed("passportNumber", d.PassportNumber, "パスポート番号/Passport Number is required")
	require("passportIssueDate", d.PassportIssueDate, "発行日/Issue Date is required")
	requireTrimmed("passportIssuePlace", d.PassportIssuePlace, "発行地/Issue Place is required")
	require("passportExpirationDate", d.PassportExpirationDate, "有効期限/Expiration Date is required")
	requireTrimmed("permanentAddress", d.PermanentAddress, "永住地住所/Permanent Address is required")
	requireTrimmed("currentAddress", d.CurrentAddress, "現住所/Current Address is required")
	requireTrimmed("phone", d.Phone, "電話番号/Phone is required")
	requireTrimmed("email", d.Email, "Eメール/E-mail is required")
	// Format check overrides the required message when both fail.
	if d.Email != "" && !emailRegex.MatchString(d.Email) {
		errors["email"] = "Eメール/E-mail format is invalid"
	}
	requireTrimmed("occupation", d.Occupation, "職業/Occupation is required")

	// Education
	requireTrimmed("lastSchoolSummary", d.LastSchoolSummary, "最終学歴/Last School Attended is required")
	requireTrimmed("lastSchoolCategory", d.LastSchoolCategory, "区分/Category is required")
	require("yearsFromElementary", d.YearsFromElementary, "就学年数/Years from elementary is required")

	// Japanese learning
	require("jpLearningHours", d.JpLearningHours, "日本語学習時間/Total learning hours is required")

	// Post-graduation plans
	requireTrimmed("schoolType", d.SchoolType, "学校種別/School Type is required")
	requireTrimmed("schoolName", d.SchoolName, "学校名/School Name is required")
	requireTrimmed("major", d.Major, "専攻/Major or Specialty is required")
	requireTrimmed("desiredJob", d.DesiredJob, "就職・希望職種/Company or Job is required")
	requireTrimmed("returnHomeYyyyMm", d.ReturnHomeYyyyMm, "帰国予定/Return Home is required")
	requireTrimmed("reasonsForApplying", d.ReasonsForApplying, "志望理由/Reasons for applying is required")

	// Sponsor
	requireTrimmed("sponsorFullName", d.Sponsor.FullName, "経費支弁者氏名/Sponsor Full Name is required")
	requireTrimmed("sponsorRelationship", d.Sponsor.Relationship, "本人との関係/Relationship is required")
	requireTrimmed("sponsorCurrentAddress", d.Sponsor.CurrentAddress, "経費支弁者現住所/Sponsor Current Address is required")
	requireTrimmed("sponsorPhone", d.Sponsor.Phone, "経費支弁者電話番号/Sponsor Phone is required")
	requireTrimmed("sponsorEmail", d.Sponsor.Email, "経費支弁者Eメール/Sponsor E-mail is required")
	if d.Sponsor.Email != "" && !emailRegex.MatchString(d.Sponsor.Email) {
		errors["sponsorEmail"] = "経費支弁者Eメール/Sponsor E-mail format is invalid"
	}
	requireTrimmed("sponsorCompany", d.Sponsor.Company, "勤務先/Company is required")
	requireTrimmed("sponsorPosition", d.Sponsor.Position, "職種・役職/Occupation - Position is required")
	require("sponsorAnnualIncome", d.Sponsor.AnnualIncomeJpy, "年収(JPY)/Annual Income is required")

	// Portrait photo
	if imageURL == "" {
		errors["imageUrl"] = "顔写真/Photo is required"
	}

	// Conditional collections: a "Yes" answer demands at least one row.
	if d.HasStudiedAtLanguageSchool == "Yes" && len(d.JpSchools) == 0 {
		errors["jpSchools"] = `日本語学校学習歴/Japanese School History is required when "Yes" is selected`
	}
	if d.EmploymentYesNo == "Yes" && len(d.Employment) == 0 {
		errors["employment"] = `職歴/Employment History is required when "Yes" is selected`
	}
	if d.FamilyInJapanYesNo == "Yes" && len(d.FamilyInJapan) == 0 {
		errors["familyInJapan"] = `在日親族/Family in Japan information is required when "Yes" is selected`
	}

	return ValidationResult{Valid: len(errors) == 0, Errors: errors}
}
