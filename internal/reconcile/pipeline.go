// Package reconcile turns classifier output into canonical vehicle and
// medical records. It owns payload parsing, the medical to vehicle
// projection, strict validation and the fallback to a degraded result.
package reconcile

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/insurawise/internal/model"
	"github.com/sells-group/insurawise/internal/normalize"
)

// Stage names a step of a reconciliation run.
type Stage string

const (
	StageRaw              Stage = "raw"
	StageDatesNormalized  Stage = "dates_normalized"
	StageContactsResolved Stage = "contacts_resolved"
	StageProjected        Stage = "projected"
	StageValidated        Stage = "validated"
	StageDegraded         Stage = "degraded"
)

// Options configures a Pipeline.
type Options struct {
	// DefaultState fills the state column when the document has none.
	DefaultState string
	// FallbackGST is the GST percentage reported when the rate cannot be
	// computed from the document.
	FallbackGST string
}

// Pipeline reconciles classifier payloads. It is immutable after
// construction and safe for concurrent use.
type Pipeline struct {
	projector    Projector
	validator    *Validator
	defaultState string
}

// NewPipeline compiles the schemas and returns a ready Pipeline.
func NewPipeline(opts Options) (*Pipeline, error) {
	if opts.DefaultState == "" {
		opts.DefaultState = model.DefaultState
	}
	if opts.FallbackGST == "" {
		opts.FallbackGST = DefaultGSTFallback
	}
	v, err := NewValidator(opts.DefaultState)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		projector:    Projector{DefaultState: opts.DefaultState, FallbackGST: opts.FallbackGST},
		validator:    v,
		defaultState: opts.DefaultState,
	}, nil
}

// Reconcile parses classifier text and reconciles it. The returned error is
// non-nil only for unparsable text (ErrUnparsablePayload) or a cancelled
// context; validation failures produce a degraded Outcome.
func (p *Pipeline) Reconcile(ctx context.Context, cat model.Category, text string) (model.Outcome, error) {
	raw, err := ParsePayload(text)
	if err != nil {
		return model.Outcome{}, err
	}
	return p.ReconcileRaw(ctx, cat, raw)
}

// ReconcileRaw reconciles an already decoded payload. raw is not modified.
func (p *Pipeline) ReconcileRaw(ctx context.Context, cat model.Category, raw model.Raw) (model.Outcome, error) {
	if err := ctx.Err(); err != nil {
		return model.Outcome{}, eris.Wrap(err, "reconcile: context")
	}
	switch {
	case cat.IsVehicle():
		return p.reconcileVehicle(cat, raw.Clone()), nil
	case cat == model.CategoryHealth:
		return p.reconcileMedical(cat, raw.Clone())
	}
	return model.Outcome{}, eris.Wrapf(model.ErrUnknownCategory, "got %q", string(cat))
}

type run struct {
	cat   model.Category
	stage Stage
}

func (r *run) advance(s Stage) {
	r.stage = s
	zap.L().Debug("reconcile: stage",
		zap.String("category", string(r.cat)),
		zap.String("stage", string(s)),
	)
}

func (r *run) degrade(env model.Raw, err error) model.Outcome {
	r.advance(StageDegraded)
	zap.L().Warn("reconcile: validation failed, returning normalized payload",
		zap.String("category", string(r.cat)),
		zap.Error(err),
	)
	return model.Degraded(r.cat, env, err.Error())
}

func (p *Pipeline) reconcileVehicle(cat model.Category, env model.Raw) model.Outcome {
	r := &run{cat: cat, stage: StageRaw}

	rec, ok := locateVehicle(env)
	if !ok {
		return r.degrade(env, &ValidationError{
			Record: "vehicle",
			Err:    eris.Errorf("missing %q section", model.SummaryKey),
		})
	}
	normalize.CleanTree(rec)
	for _, f := range model.VehicleNonNullFields {
		if v, present := rec[f]; !present || v == nil {
			rec[f] = ""
		}
	}

	for _, f := range model.VehicleDateFields {
		if v, present := rec[f]; present {
			rec[f] = normalize.DateValue(v)
		}
	}
	r.advance(StageDatesNormalized)

	if phone, ok := model.Scalar(rec["phoneNo"]); ok {
		rec["phoneNo"] = normalize.ExtractPhone(phone)
	}
	if email, ok := rec["emailId"].(string); ok {
		rec["emailId"] = normalize.ExtractEmail(email)
	}
	p.fillVehicleDefaults(cat, rec)
	fillAddress(rec)
	r.advance(StageContactsResolved)

	vrec, err := p.validator.ValidateVehicle(rec)
	if err != nil {
		return r.degrade(env, err)
	}
	r.advance(StageValidated)
	return model.Validated(cat, env, vrec, nil, nil)
}

func (p *Pipeline) reconcileMedical(cat model.Category, env model.Raw) (model.Outcome, error) {
	r := &run{cat: cat, stage: StageRaw}

	med := locateMedical(env)
	normalize.CleanTree(med)
	fixNullNames(med)

	for _, ref := range model.MedicalDateFields {
		normalizeDateAt(med, ref.Section, ref.Field)
	}
	if members, ok := med["individual_member_details"].(map[string]any); ok {
		for _, slot := range model.MemberSlots {
			normalizeDateAt(members, slot, "dob_and_age")
		}
	}
	r.advance(StageDatesNormalized)

	summary := p.projector.Project(model.Raw(med))
	r.advance(StageContactsResolved)

	summaryMap, err := recordMap(summary)
	if err != nil {
		return model.Outcome{}, err
	}
	env[model.SummaryKey] = summaryMap
	r.advance(StageProjected)

	medRec, medErr := p.validator.ValidateMedical(env[model.MedicalKey])
	sumRec, sumErr := p.validator.ValidateVehicle(summaryMap)
	if medErr != nil || sumErr != nil {
		return r.degrade(env, joinValidation(medErr, sumErr)), nil
	}
	r.advance(StageValidated)
	return model.Validated(cat, env, nil, medRec, sumRec), nil
}

// locateVehicle finds the vehicle record inside env and makes sure it sits
// under SummaryKey. A bare record (top-level vehicle keys) is wrapped.
func locateVehicle(env model.Raw) (map[string]any, bool) {
	if rec, ok := env[model.SummaryKey].(map[string]any); ok {
		return rec, true
	}
	if _, present := env[model.SummaryKey]; present {
		return nil, false
	}
	if rec, ok := env[model.SummaryKeyAlias].(map[string]any); ok {
		delete(env, model.SummaryKeyAlias)
		env[model.SummaryKey] = rec
		return rec, true
	}
	if !looksLikeVehicle(env) {
		return nil, false
	}
	rec := make(map[string]any, len(env))
	for k, v := range env {
		rec[k] = v
		delete(env, k)
	}
	env[model.SummaryKey] = rec
	return rec, true
}

func looksLikeVehicle(env model.Raw) bool {
	for _, k := range []string{"policyno", "insuranceCompany", "firstName", "lastName", "phoneNo", "commenceMentDate"} {
		if _, ok := env[k]; ok {
			return true
		}
	}
	return false
}

// locateMedical returns the medical section, wrapping a bare record or
// creating an empty section so projection always has something to read. A
// non-object envelope value is left for the validator to reject.
func locateMedical(env model.Raw) map[string]any {
	switch v := env[model.MedicalKey].(type) {
	case map[string]any:
		return v
	case nil:
		if _, present := env[model.MedicalKey]; present {
			return map[string]any{}
		}
	default:
		return map[string]any{}
	}
	if env.HasSection("policy_details") || env.HasSection("generic_information") {
		med := make(map[string]any, len(env))
		for k, v := range env {
			med[k] = v
			delete(env, k)
		}
		env[model.MedicalKey] = med
		return med
	}
	med := map[string]any{}
	env[model.MedicalKey] = med
	return med
}

func (p *Pipeline) fillVehicleDefaults(cat model.Category, rec map[string]any) {
	vt := cat.VehicleType()
	setIfBlank(rec, "category", vt)
	setIfBlank(rec, "subProduct", vt)
	setIfBlank(rec, "product", model.DefaultProduct)
	setIfBlank(rec, "state", p.defaultState)
}

// fillAddress derives lane1, area and pincode from lane2 where the
// classifier left them blank. Classifier values are never overwritten.
func fillAddress(rec map[string]any) {
	lane2, _ := rec["lane2"].(string)
	if strings.TrimSpace(lane2) == "" {
		return
	}
	parts := normalize.DecomposeAddress(lane2)
	setIfBlank(rec, "lane1", parts.Primary)
	setIfBlank(rec, "area", parts.Locality)
	setIfBlank(rec, "pincode", parts.PostalCode)
}

func fixNullNames(med map[string]any) {
	for _, ref := range model.MedicalNameFields {
		if sec, ok := med[ref.Section].(map[string]any); ok {
			if v, present := sec[ref.Field]; present && v == nil {
				sec[ref.Field] = ""
			}
		}
	}
	if members, ok := med["individual_member_details"].(map[string]any); ok {
		for _, slot := range model.MemberSlots {
			if m, ok := members[slot].(map[string]any); ok {
				if v, present := m["name"]; present && v == nil {
					m["name"] = ""
				}
			}
		}
	}
}

func normalizeDateAt(parent map[string]any, section, field string) {
	sec, ok := parent[section].(map[string]any)
	if !ok {
		return
	}
	if v, present := sec[field]; present {
		sec[field] = normalize.DateValue(v)
	}
}

// setIfBlank writes val when key is absent, null or an empty string.
func setIfBlank(rec map[string]any, key, val string) {
	if val == "" {
		return
	}
	switch v := rec[key].(type) {
	case nil:
		rec[key] = val
	case string:
		if strings.TrimSpace(v) == "" {
			rec[key] = val
		}
	}
}

func joinValidation(errs ...error) error {
	var msgs []string
	for _, err := range errs {
		if err != nil {
			msgs = append(msgs, err.Error())
		}
	}
	return eris.New(strings.Join(msgs, "; "))
}

// recordMap renders rec with its JSON field names so it can sit in the
// untyped envelope next to classifier data.
func recordMap(rec model.VehicleRecord) (map[string]any, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return nil, eris.Wrap(err, "reconcile: encode summary")
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, eris.Wrap(err, "reconcile: decode summary")
	}
	return out, nil
}
