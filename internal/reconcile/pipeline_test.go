package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/insurawise/internal/model"
)

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	p, err := NewPipeline(Options{})
	require.NoError(t, err)
	return p
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestReconcileMedicalEndToEnd(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(t)
	payload := "```json\n" + mustJSON(t, map[string]any{model.MedicalKey: fullMedical(t)}) + "\n```"

	out, err := p.Reconcile(context.Background(), model.CategoryHealth, payload)
	require.NoError(t, err)
	require.True(t, out.IsValidated(), out.Diagnostic)

	require.NotNil(t, out.Medical)
	assert.Equal(t, "01-01-2024", out.Medical.PolicyDetails.StartDate)
	assert.Equal(t, "12-05-1980", out.Medical.IndividualMemberDetails.Member1.DOBAndAge)

	sum := out.Summary
	require.NotNil(t, sum)
	assert.Equal(t, "Anand", sum.FirstName)
	assert.Equal(t, "S", sum.LastName)
	assert.Equal(t, "POL999", sum.PolicyNo)
	assert.Equal(t, "01-01-2024", sum.CommencementDate)
	assert.Equal(t, "Mylapore", sum.Area)
	assert.Equal(t, "600004", sum.Pincode)
	assert.Equal(t, "Health", sum.Category)

	payloadOut, err := out.Payload()
	require.NoError(t, err)
	assert.Contains(t, payloadOut, model.MedicalKey)
	assert.Contains(t, payloadOut, model.SummaryKey)
}

func TestReconcileMedicalDegrades(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(t)
	payload := `{"medical_insurance": {
		"generic_information": {"insured_name": "Anand S", "insured_address": "12 Main Street, Mylapore, Chennai, 600004"},
		"policy_details": {"policy_no": "POL999", "start_date": "2024-01-01"}
	}}`

	out, err := p.Reconcile(context.Background(), model.CategoryHealth, payload)
	require.NoError(t, err)
	assert.False(t, out.IsValidated())
	assert.Contains(t, out.Diagnostic, "medical record")
	assert.Nil(t, out.Medical)

	med := out.Normalized.Section(model.MedicalKey)
	assert.Equal(t, "01-01-2024", med.StringAt("policy_details", "start_date"))

	sum := out.Normalized.Section(model.SummaryKey)
	assert.Equal(t, "Anand", sum.String("firstName"))
	assert.Equal(t, "S", sum.String("lastName"))
	assert.Equal(t, "POL999", sum.String("policyno"))
	assert.Equal(t, "01-01-2024", sum.String("commenceMentDate"))
	assert.Equal(t, "Mylapore", sum.String("area"))
	assert.Equal(t, "600004", sum.String("pincode"))
}

func TestReconcileMedicalEmptyPayload(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(t)
	for _, payload := range []string{`{}`, `{"medical_insurance": {}}`, `{"medical_insurance": null}`, `{"medical_insurance": "n/a"}`} {
		out, err := p.Reconcile(context.Background(), model.CategoryHealth, payload)
		require.NoError(t, err, payload)
		assert.Equal(t, model.StatusDegraded, out.Status, payload)
		assert.NotEmpty(t, out.Diagnostic, payload)
		assert.True(t, out.Normalized.HasSection(model.SummaryKey), payload)
	}
}

func TestReconcileMedicalNullNames(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(t)
	med := fullMedical(t)
	med["nominee_details"] = map[string]any{"name": nil, "relationship_with_insured": "Spouse"}
	med["tpa_details"].(map[string]any)["tpa_name"] = nil
	med["individual_member_details"].(map[string]any)["member_2"] = map[string]any{"name": nil}

	out, err := p.ReconcileRaw(context.Background(), model.CategoryHealth, model.Raw{model.MedicalKey: med})
	require.NoError(t, err)
	require.True(t, out.IsValidated(), out.Diagnostic)
	assert.Equal(t, "", out.Medical.NomineeDetails.Name)
	assert.Equal(t, "Spouse", out.Medical.NomineeDetails.RelationshipWithInsured)

	// The caller's map is untouched.
	assert.Nil(t, med["nominee_details"].(map[string]any)["name"])
}

func TestReconcileBareMedical(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(t)
	out, err := p.Reconcile(context.Background(), model.CategoryHealth, mustJSON(t, fullMedical(t)))
	require.NoError(t, err)
	assert.True(t, out.IsValidated(), out.Diagnostic)
	assert.True(t, out.Normalized.HasSection(model.MedicalKey))
}

func TestReconcileVehicle(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(t)
	payload := `{"Coverton imp_keys": {
		"insuranceCompany": "ICICI Lombard",
		"category": "",
		"policyno": "3001/123",
		"firstName": null,
		"lastName": "Kumar",
		"dob": "1985/07/21",
		"emailId": "ravi@example.com",
		"phoneNo": "+91 98400 12345",
		"lane2": "Flat 4, Royapettah High Road, Mylapore, Chennai 600014",
		"policyissuedDate": null,
		"commenceMentDate": "03/15/2024",
		"policyEndDate": "14.03.2025",
		"sumInsuredIdv": "450000",
		"grossPremium": "8500",
		"gstPercentage": "18"
	}}`

	out, err := p.Reconcile(context.Background(), model.CategoryCar, payload)
	require.NoError(t, err)
	require.True(t, out.IsValidated(), out.Diagnostic)

	rec := out.Vehicle
	require.NotNil(t, rec)
	assert.Equal(t, "car", rec.Category)
	assert.Equal(t, "car", rec.SubProduct)
	assert.Equal(t, "Motor", rec.Product)
	assert.Equal(t, "Tamil Nadu", rec.State)
	assert.Equal(t, "", rec.FirstName)
	assert.Equal(t, "Kumar", rec.LastName)
	require.NotNil(t, rec.DOB)
	assert.Equal(t, "21-07-1985", *rec.DOB)
	require.NotNil(t, rec.PolicyIssuedDate)
	assert.Equal(t, "", *rec.PolicyIssuedDate)
	assert.Equal(t, "15-03-2024", rec.CommencementDate)
	assert.Equal(t, "14-03-2025", rec.PolicyEndDate)
	assert.Equal(t, "9198400123", rec.PhoneNo)
	assert.Equal(t, "Flat 4", rec.Lane1)
	assert.Equal(t, "Mylapore", rec.Area)
	assert.Equal(t, "600014", rec.Pincode)
	assert.Same(t, rec, out.SummaryRecord())
}

func TestReconcileVehicleKeepsClassifierAddress(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(t)
	payload := `{"Coverton_imp_keys": {
		"category": "bike", "subProduct": "bike",
		"lane1": "Door 9", "area": "Adyar", "pincode": "600020",
		"lane2": "12 Main Street, Mylapore, Chennai, 600004",
		"phoneNo": "12345"
	}}`

	out, err := p.Reconcile(context.Background(), model.CategoryBike, payload)
	require.NoError(t, err)
	require.True(t, out.IsValidated(), out.Diagnostic)
	assert.Equal(t, "Door 9", out.Vehicle.Lane1)
	assert.Equal(t, "Adyar", out.Vehicle.Area)
	assert.Equal(t, "600020", out.Vehicle.Pincode)
	assert.Equal(t, "", out.Vehicle.PhoneNo)
	assert.True(t, out.Normalized.HasSection(model.SummaryKey))
	assert.False(t, out.Normalized.HasSection(model.SummaryKeyAlias))
}

func TestReconcileVehicleDegrades(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(t)

	t.Run("mistyped field", func(t *testing.T) {
		t.Parallel()
		out, err := p.Reconcile(context.Background(), model.CategoryCar,
			`{"Coverton imp_keys": {"policyno": 12345, "commenceMentDate": "2024-03-15"}}`)
		require.NoError(t, err)
		assert.Equal(t, model.StatusDegraded, out.Status)
		assert.Contains(t, out.Diagnostic, "/policyno")

		rec := out.Normalized.Section(model.SummaryKey)
		assert.Equal(t, "15-03-2024", rec.String("commenceMentDate"))
		assert.Equal(t, "", rec.String("phoneNo"))
		assert.Contains(t, rec, "firstName")
	})

	t.Run("missing envelope", func(t *testing.T) {
		t.Parallel()
		out, err := p.Reconcile(context.Background(), model.CategoryCar, `{"something": "else"}`)
		require.NoError(t, err)
		assert.Equal(t, model.StatusDegraded, out.Status)
		assert.Contains(t, out.Diagnostic, model.SummaryKey)
	})

	t.Run("bare record is wrapped", func(t *testing.T) {
		t.Parallel()
		out, err := p.Reconcile(context.Background(), model.CategoryCar, `{"policyno": "X1"}`)
		require.NoError(t, err)
		require.True(t, out.IsValidated(), out.Diagnostic)
		assert.Equal(t, "X1", out.Vehicle.PolicyNo)
	})
}

func TestReconcilePhoneInvariant(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(t)
	for _, phone := range []string{`"98400-12345"`, `"044 2811"`, `null`, `9840012345`, `"call me"`, `""`} {
		out, err := p.Reconcile(context.Background(), model.CategoryCar,
			`{"Coverton imp_keys": {"category": "car", "subProduct": "car", "phoneNo": `+phone+`}}`)
		require.NoError(t, err)
		got := out.Normalized.Section(model.SummaryKey).String("phoneNo")
		assert.True(t, got == "" || len(got) == 10, "phone %s -> %q", phone, got)
		assert.Equal(t, strings.Trim(got, "0123456789"), "")
	}
}

func TestReconcileDatesIdempotent(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(t)
	payload := `{"Coverton imp_keys": {"category": "car", "subProduct": "car",
		"dob": "1985-07-21", "commenceMentDate": "15/03/2024", "policyEndDate": "garbage"}}`

	first, err := p.Reconcile(context.Background(), model.CategoryCar, payload)
	require.NoError(t, err)
	second, err := p.ReconcileRaw(context.Background(), model.CategoryCar, first.Normalized)
	require.NoError(t, err)

	assert.Equal(t, first.Normalized, second.Normalized)
	assert.Equal(t, "garbage", second.Vehicle.PolicyEndDate)
}

func TestReconcileErrors(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(t)

	_, err := p.Reconcile(context.Background(), model.CategoryHealth, "The document could not be read")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnparsablePayload))
	assert.True(t, strings.HasPrefix(err.Error(), "classification error:"))

	_, err = p.Reconcile(context.Background(), model.Category("TRUCK"), `{}`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrUnknownCategory))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Reconcile(ctx, model.CategoryCar, `{}`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestPipelineOptions(t *testing.T) {
	t.Parallel()

	p, err := NewPipeline(Options{DefaultState: "Karnataka", FallbackGST: "12"})
	require.NoError(t, err)

	out, err := p.Reconcile(context.Background(), model.CategoryHealth,
		`{"medical_insurance": {"gst_details": {"igst": "100"}}}`)
	require.NoError(t, err)
	sum := out.Normalized.Section(model.SummaryKey)
	assert.Equal(t, "Karnataka", sum.String("state"))
	assert.Equal(t, "12", sum.String("gstPercentage"))

	out, err = p.Reconcile(context.Background(), model.CategoryCar, `{"policyno": "X"}`)
	require.NoError(t, err)
	require.True(t, out.IsValidated(), out.Diagnostic)
	assert.Equal(t, "Karnataka", out.Vehicle.State)
}
