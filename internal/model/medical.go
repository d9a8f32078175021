package model

// MedicalRecord is the nested health policy record. Every section is
// required; every leaf is a string defaulting to "".
type MedicalRecord struct {
	GrossPremiumAndStampDuty               GrossPremiumAndStampDuty               `json:"gross_premium_and_stamp_duty"`
	RiskDetails                            RiskDetails                            `json:"risk_details"`
	InstallmentDetails                     InstallmentDetails                     `json:"installment_details"`
	EndorsementScheduleDetails             EndorsementScheduleDetails             `json:"endorsement_schedule_details"`
	AgentBrokerDetails                     AgentBrokerDetails                     `json:"agent_broker_details"`
	SalesChannelDetails                    SalesChannelDetails                    `json:"sales_channel_details"`
	GenericInformation                     GenericInformation                     `json:"generic_information"`
	IndividualMemberDetails                IndividualMemberDetails                `json:"individual_member_details"`
	NomineeDetails                         NomineeDetails                         `json:"nominee_details"`
	OptionalCopaymentDetails               OptionalCopaymentDetails               `json:"optional_copayment_details"`
	AmountDetails                          AmountDetails                          `json:"amount_details"`
	InsurerDetails                         InsurerDetails                         `json:"insurer_details"`
	PolicyDetails                          PolicyDetails                          `json:"policy_details"`
	MemberDetails                          MemberDetails                          `json:"member_details"`
	CoInsuranceDetails                     CoInsuranceDetails                     `json:"co_insurance_details"`
	PremiumDetails                         PremiumDetails                         `json:"premium_details"`
	GSTDetails                             GSTDetails                             `json:"gst_details"`
	TPADetails                             TPADetails                             `json:"tpa_details"`
	PolicyConditionsExtensionsEndorsements PolicyConditionsExtensionsEndorsements `json:"policy_conditions_extensions_endorsements"`
	ThirdPartyDetails                      ThirdPartyDetails                      `json:"third_party_details"`
	IntermediaryAgentDetails               IntermediaryAgentDetails               `json:"intermediary_agent_details"`
	IntermediaryDetails                    IntermediaryDetails                    `json:"intermediary_details"`
	OtherInsuredPersonDetails              OtherInsuredPersonDetails              `json:"other_insured_person_details"`
	PremiumDetailsAll                      PremiumDetailsAll                      `json:"premium_details_all"`
	InsuredPersonPremiumDetails            InsuredPersonPremiumDetails            `json:"insured_person_premium_details"`
	ScheduleOfBenefits                     ScheduleOfBenefits                     `json:"schedule_of_benefits"`
	PolicyHolderPolicyDetails              PolicyHolderPolicyDetails              `json:"policy_holder_policy_details"`
}

type GrossPremiumAndStampDuty struct {
	GrossPremium string `json:"gross_premium"`
	StampDuty    string `json:"stamp_duty"`
}

type RiskDetails struct {
	EmpDependantName string `json:"emp_dependant_name"`
	SINo             string `json:"si_no"`
	NoOfDependants   string `json:"no_of_dependants"`
}

type InstallmentDetails struct {
	InstNo                string `json:"inst_no"`
	InstallmentPercentage string `json:"installment_percentage"`
	Amount                string `json:"amount"`
	Tax                   string `json:"tax"`
	Total                 string `json:"total"`
	Remarks               string `json:"remarks"`
}

type EndorsementScheduleDetails struct {
	EndorsementNo   string `json:"endorsement_no"`
	EndorsementDate string `json:"endorsement_date"`
}

type AgentBrokerDetails struct {
	AgentBroker string `json:"agent_broker"`
	Address     string `json:"address"`
}

type SalesChannelDetails struct {
	SalesChannelCode string `json:"sales_channel_code"`
	Name             string `json:"name"`
}

type GenericInformation struct {
	CompanyName         string `json:"company_name"`
	InsuredName         string `json:"insured_name"`
	InsuredAddress      string `json:"insured_address"`
	PlanType            string `json:"plan_type"`
	EndorsementSchedule string `json:"endorsement_schedule"`
}

// MemberEntry is one insured member row.
type MemberEntry struct {
	SlNo                 string `json:"sl_no"`
	Name                 string `json:"name"`
	DOBAndAge            string `json:"dob_and_age"`
	Relation             string `json:"relation"`
	Occupation           string `json:"occupation"`
	Gender               string `json:"gender"`
	BasicCoverSumInsured string `json:"basic_cover_sum_insured"`
	CumulativeBonus      string `json:"cumulative_bonus"`
}

// IndividualMemberDetails holds up to three member slots. The embedded
// entry keeps the older flat layout readable.
type IndividualMemberDetails struct {
	MemberEntry
	Member1 MemberEntry `json:"member_1,omitempty"`
	Member2 MemberEntry `json:"member_2,omitempty"`
	Member3 MemberEntry `json:"member_3,omitempty"`
}

// MemberSlots are the fixed member keys inside individual_member_details.
var MemberSlots = []string{"member_1", "member_2", "member_3"}

// Members returns the populated slots in order.
func (d IndividualMemberDetails) Members() []MemberEntry {
	var out []MemberEntry
	for _, m := range []MemberEntry{d.Member1, d.Member2, d.Member3} {
		if m != (MemberEntry{}) {
			out = append(out, m)
		}
	}
	return out
}

type NomineeDetails struct {
	Name                    string `json:"name"`
	RelationshipWithInsured string `json:"relationship_with_insured"`
}

type OptionalCopaymentDetails struct {
	CoPaymentPercentage string `json:"co_payment_percentage"`
}

type AmountDetails struct {
	Premium              string `json:"premium"`
	TotalPremium         string `json:"total_premium"`
	CGST                 string `json:"cgst"`
	SGSTUTGST            string `json:"sgst_utgst"`
	IGST                 string `json:"igst"`
	GSTTDS               string `json:"gst_tds"`
	RecoverableStampDuty string `json:"recoverable_stamp_duty"`
	TotalAmount          string `json:"total_amount"`
}

type InsurerDetails struct {
	Insured         string `json:"insured"`
	IssueOfficeName string `json:"issue_office_name"`
	Address         string `json:"address"`
	TelFaxEmail     string `json:"tel_fax_email"`
	GSTIN           string `json:"gstin"`
	AgentNo         string `json:"agent_no"`
}

type PolicyDetails struct {
	PolicyNameSchedule string `json:"policy_name_schedule"`
	PolicyNo           string `json:"policy_no"`
	PreviousPolicyNo   string `json:"previous_policy_no"`
	PeriodOfInsurance  string `json:"period_of_insurance"`
	DateOfInsurance    string `json:"date_of_insurance"`
	StartDate          string `json:"start_date"`
	EndDate            string `json:"end_date"`
	UniqueInvoiceNo    string `json:"unique_invoice_no"`
}

type MemberDetails struct {
	TotalMembersCovered   string `json:"total_members_covered"`
	TotalSelfCovered      string `json:"total_self_covered"`
	TotalDependentCovered string `json:"total_dependent_covered"`
}

type CoInsuranceDetails struct {
	InsuranceCompany string `json:"insurance_company"`
	SharePercentage  string `json:"share_percentage"`
}

type PremiumDetails struct {
	NetPremium   string `json:"net_premium"`
	GrossPremium string `json:"gross_premium"`
}

type GSTDetails struct {
	CGST string `json:"cgst"`
	SGST string `json:"sgst"`
	UGST string `json:"ugst"`
	IGST string `json:"igst"`
}

type TPADetails struct {
	TPAID       string `json:"tpa_id"`
	TPAName     string `json:"tpa_name"`
	TPAAddress  string `json:"tpa_address"`
	TelephoneNo string `json:"telephone_no"`
	Entity      string `json:"entity"`
	Email       string `json:"email"`
}

type PolicyConditionsExtensionsEndorsements struct {
	ConditionName  string `json:"condition_name"`
	Description    string `json:"description"`
	CoverageAmount string `json:"coverage_amount"`
	Terms          string `json:"terms"`
}

type ThirdPartyDetails struct {
	ThirdPartyAdministrator string `json:"third_party_administrator"`
}

type IntermediaryAgentDetails struct {
	Name          string `json:"name"`
	ContactNo     string `json:"contact_no"`
	Email         string `json:"email"`
	HealthIDCards string `json:"health_id_cards"`
	IndustryType  string `json:"industry_type"`
}

type IntermediaryDetails struct {
	IntermediaryName string `json:"intermediary_name"`
	Code             string `json:"code"`
	ContactNumber    string `json:"contact_number"`
}

type OtherInsuredPersonDetails struct {
	Name                   string `json:"name"`
	DOB                    string `json:"dob"`
	BaseSumInsured         string `json:"base_sum_insured"`
	AggregateDeductible    string `json:"aggregate_deductible"`
	UnlimitedRestoredAddon string `json:"unlimited_restored_addon"`
}

type PremiumDetailsAll struct {
	MemberName    string `json:"member_name"`
	Relation      string `json:"relation"`
	Age           string `json:"age"`
	SumInsured    string `json:"sum_insured"`
	PremiumAmount string `json:"premium_amount"`
	GSTAmount     string `json:"gst_amount"`
	TotalAmount   string `json:"total_amount"`
}

type InsuredPersonPremiumDetails struct {
	Name         string `json:"name"`
	Relation     string `json:"relation"`
	Gender       string `json:"gender"`
	DOB          string `json:"dob"`
	Premium      string `json:"premium"`
	GST          string `json:"gst"`
	TotalWithGST string `json:"total_with_gst"`
	AbhaID       string `json:"abha_id"`
}

type ScheduleOfBenefits struct {
	BenefitName     string `json:"benefit_name"`
	Description     string `json:"description"`
	CoverageAmount  string `json:"coverage_amount"`
	TermsConditions string `json:"terms_conditions"`
	Exclusions      string `json:"exclusions"`
}

type PolicyHolderPolicyDetails struct {
	PolicyHolderName string `json:"policy_holder_name"`
	PolicyNumber     string `json:"policy_number"`
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date"`
	PremiumAmount    string `json:"premium_amount"`
	CoverageDetails  string `json:"coverage_details"`
}

// FieldRef addresses a leaf inside the medical record: a section key and a
// field key.
type FieldRef struct {
	Section string
	Field   string
}

// MedicalDateFields are the medical leaves holding dates. Member slot dates
// are handled separately through MemberSlots.
var MedicalDateFields = []FieldRef{
	{"endorsement_schedule_details", "endorsement_date"},
	{"policy_details", "date_of_insurance"},
	{"policy_details", "start_date"},
	{"policy_details", "end_date"},
	{"individual_member_details", "dob_and_age"},
	{"other_insured_person_details", "dob"},
	{"insured_person_premium_details", "dob"},
	{"policy_holder_policy_details", "start_date"},
	{"policy_holder_policy_details", "end_date"},
}

// MedicalNameFields are the medical leaves holding person or party names.
// They are never emitted as null.
var MedicalNameFields = []FieldRef{
	{"risk_details", "emp_dependant_name"},
	{"agent_broker_details", "agent_broker"},
	{"sales_channel_details", "name"},
	{"generic_information", "insured_name"},
	{"nominee_details", "name"},
	{"insurer_details", "insured"},
	{"tpa_details", "tpa_name"},
	{"policy_conditions_extensions_endorsements", "condition_name"},
	{"third_party_details", "third_party_administrator"},
	{"intermediary_agent_details", "name"},
	{"intermediary_details", "intermediary_name"},
	{"other_insured_person_details", "name"},
	{"premium_details_all", "member_name"},
	{"insured_person_premium_details", "name"},
	{"schedule_of_benefits", "benefit_name"},
	{"policy_holder_policy_details", "policy_holder_name"},
}
