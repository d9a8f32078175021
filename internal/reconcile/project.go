package reconcile

import (
	"strings"

	"github.com/sells-group/insurawise/internal/model"
	"github.com/sells-group/insurawise/internal/normalize"
)

// Projector derives the flat summary record from a medical section. It
// holds no state beyond its settings and is safe for concurrent use.
type Projector struct {
	// DefaultState fills the state column, which medical documents do not
	// carry in a usable form.
	DefaultState string
	// FallbackGST is reported when a GST component exists but the rate
	// cannot be computed.
	FallbackGST string
}

// NewProjector returns a Projector with the standard defaults.
func NewProjector() Projector {
	return Projector{DefaultState: model.DefaultState, FallbackGST: DefaultGSTFallback}
}

// Project builds the summary record. med is the content of the
// "medical_insurance" envelope. Missing sources leave the corresponding
// column empty.
func (p Projector) Project(med model.Raw) model.VehicleRecord {
	generic := med.Section("generic_information")
	policy := med.Section("policy_details")
	amounts := med.Section("amount_details")

	rec := model.NewVehicleRecord(p.DefaultState)
	rec.Category = model.HealthProduct
	rec.Product = model.HealthProduct
	rec.SubProduct = model.HealthProduct
	rec.InsuranceCompany = generic.Text("company_name")
	rec.PolicyNo = policy.Text("policy_no")
	rec.Plan = generic.Text("plan_type")
	rec.DOB = model.Ptr("")

	rec.FirstName, rec.LastName = SplitName(generic.Text("insured_name"))

	addr := normalize.DecomposeAddress(generic.Text("insured_address"))
	rec.Lane1 = addr.Primary
	rec.Lane2 = addr.Secondary
	rec.Area = addr.Locality
	rec.Pincode = addr.PostalCode

	rec.PhoneNo = normalize.ExtractPhone(
		med.Section("insurer_details").Text("tel_fax_email"),
		med.Section("tpa_details").Text("telephone_no"),
		med.Section("intermediary_details").Text("contact_number"),
	)
	rec.EmailID = normalize.ExtractEmail(
		med.Section("insurer_details").Text("tel_fax_email"),
		med.Section("tpa_details").Text("email"),
		med.Section("intermediary_agent_details").Text("email"),
	)

	rec.PolicyIssuedDate = model.Ptr(policy.Text("date_of_insurance"))
	rec.CommencementDate = policy.Text("start_date")
	rec.PolicyEndDate = policy.Text("end_date")

	members := med.Section("individual_member_details")
	rec.SumInsuredIDV = firstNonEmpty(
		members.Section("member_1").Text("basic_cover_sum_insured"),
		members.Text("basic_cover_sum_insured"),
		med.Section("other_insured_person_details").Text("base_sum_insured"),
		med.Section("premium_details_all").Text("sum_insured"),
	)

	gross := amounts.Text("total_premium")
	rec.GrossPremium = model.Ptr(gross)

	gst := med.Section("gst_details")
	fallback := p.FallbackGST
	if fallback == "" {
		fallback = DefaultGSTFallback
	}
	rec.GSTPercentage = GSTPercentage(
		[]string{gst.Text("cgst"), gst.Text("sgst"), gst.Text("igst")},
		gross, fallback,
	)
	return rec
}

// SplitName splits a full name on whitespace. The last token is the last
// name and the remaining tokens, joined by single spaces, the first name.
// A single token is treated as a first name.
func SplitName(full string) (first, last string) {
	tokens := strings.Fields(full)
	switch len(tokens) {
	case 0:
		return "", ""
	case 1:
		return tokens[0], ""
	}
	return strings.Join(tokens[:len(tokens)-1], " "), tokens[len(tokens)-1]
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
