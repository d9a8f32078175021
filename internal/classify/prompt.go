package classify

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/insurawise/internal/model"
)

// systemPrompt is shared by every category.
const systemPrompt = `You are an expert insurance document analyzer working on Indian motor and health policy schedules.

Rules:
- Return ONLY the JSON object described in the request, with no commentary and no code fences
- Keep every key of the requested format, even when the value is not found
- Leave a value as an empty string when it is not found in the document
- All dates MUST be in "dd-mm-yyyy" format (e.g. "15-03-2024")
- Copy policy numbers and other identifiers exactly as printed
- Name and phone fields must never be null; use "" when not found`

const vehicleRules = `Instructions:
1. Customer fields: lastName, firstName, dob, emailId, phoneNo, lane1, lane2, area, pincode, adharNo, panNo
2. Policy fields: insuranceCompany, policyno, policyissuedDate, commenceMentDate, policyEndDate, sumInsuredIdv, grossPremium, gstPercentage
3. Keep category and subProduct set to the selected vehicle type, and product set to "Motor"
4. lane1 is the house number and street; lane2 is the full address
5. Take area (locality) and the 6 digit pincode from the address
6. Keep state as %q unless the document states otherwise
7. plan is the document heading containing "policy", "schedule" or "policy schedule"

Phone numbers:
- Look near "phone", "mobile", "cell", "contact", "tel" or "telephone"
- Prefer the customer's 10 digit mobile number (starting 6, 7, 8 or 9)
- Remove spaces, dashes and other separators

Names:
- Use the insured, customer, policy holder or applicant name
- Put the final word in lastName and the rest in firstName`

const medicalRules = `Instructions:
1. Fill every section from anywhere in the document: headers, footers, tables and side panels
2. For tables, map each column to the matching field; when several rows exist use the first relevant one
3. Keep amounts as printed, including currency symbols and separators
4. For addresses, include the area/locality (for example "MYLAPORE" in "ROYAPETTAH HIGH ROAD, MYLAPORE, CHENNAI")
5. plan_type is the heading containing "policy", "schedule" or "policy schedule"
6. gst_details holds the CGST, SGST, UGST and IGST amounts; amount_details holds the premiums

Members:
- Fill member_1, member_2 and member_3 in the order members appear
- Leave unused member slots with empty values
- dob_and_age holds the member's date of birth in "dd-mm-yyyy" format`

// Skeleton renders the JSON format the model must fill for cat.
func Skeleton(cat model.Category, state string) (string, error) {
	var doc map[string]any
	if cat.IsVehicle() {
		rec := model.NewVehicleRecord(state)
		rec.Category = cat.VehicleType()
		rec.SubProduct = cat.VehicleType()
		doc = map[string]any{model.SummaryKey: rec}
	} else {
		sections, err := medicalSkeleton()
		if err != nil {
			return "", err
		}
		doc = map[string]any{model.MedicalKey: sections}
	}

	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", eris.Wrap(err, "classify: render skeleton")
	}
	return string(b), nil
}

func medicalSkeleton() (map[string]any, error) {
	b, err := json.Marshal(model.MedicalRecord{})
	if err != nil {
		return nil, eris.Wrap(err, "classify: render medical skeleton")
	}
	var sections map[string]any
	if err := json.Unmarshal(b, &sections); err != nil {
		return nil, eris.Wrap(err, "classify: render medical skeleton")
	}

	// Ask for the slotted member layout only.
	slots := make(map[string]any, len(model.MemberSlots))
	for _, slot := range model.MemberSlots {
		var entry map[string]any
		eb, _ := json.Marshal(model.MemberEntry{})
		_ = json.Unmarshal(eb, &entry)
		slots[slot] = entry
	}
	sections["individual_member_details"] = slots
	return sections, nil
}

// BuildPrompt returns the user message for classifying text as cat.
func BuildPrompt(cat model.Category, state, text string) (string, error) {
	skeleton, err := Skeleton(cat, state)
	if err != nil {
		return "", err
	}
	if state == "" {
		state = model.DefaultState
	}

	var sb strings.Builder
	if cat.IsVehicle() {
		sb.WriteString(fmt.Sprintf("Extract the %s insurance policy below.\n\nVehicle Type Selected: %s\n\n", cat.InsuranceType(), cat.VehicleType()))
		sb.WriteString(fmt.Sprintf(vehicleRules, state))
	} else {
		sb.WriteString("Extract the medical insurance policy below.\n\n")
		sb.WriteString(medicalRules)
	}
	sb.WriteString("\n\nJSON Format:\n")
	sb.WriteString(skeleton)
	sb.WriteString("\n\nDocument Text:\n")
	sb.WriteString(text)
	return sb.String(), nil
}
