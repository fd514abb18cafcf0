package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sealshop/backend/internal/domain/shared"
)

// Tier names the allocator resolution strategy that handled a request.
type Tier string

const (
	TierSelectedMaterials Tier = "selected_materials"
	TierMaterialDetails   Tier = "material_details"
	TierUnitCode          Tier = "unit_code"
	TierNone              Tier = "none"
)

// ResolutionStatus summarizes how far a consumption request got.
type ResolutionStatus string

const (
	StatusResolved  ResolutionStatus = "resolved"
	StatusPartial   ResolutionStatus = "partial"
	StatusShortfall ResolutionStatus = "shortfall"
	StatusNotFound  ResolutionStatus = "not_found"
)

// SelectedMaterial is one shelf pick attached to an invoice line: a specific
// cylinder and how many seals to cut from it.
type SelectedMaterial struct {
	UnitCode      string          `json:"unit_code"`
	InnerDiameter decimal.Decimal `json:"inner_diameter"`
	OuterDiameter decimal.Decimal `json:"outer_diameter"`
	SealsCount    int64           `json:"seals_count"`
}

// MaterialDetails describes the matched material when no explicit shelf
// picks were made.
type MaterialDetails struct {
	MaterialType      MaterialType    `json:"material_type"`
	InnerDiameter     decimal.Decimal `json:"inner_diameter"`
	OuterDiameter     decimal.Decimal `json:"outer_diameter"`
	UnitCode          string          `json:"unit_code"`
	IsFinishedProduct bool            `json:"is_finished_product"`
}

// ConsumptionRequest is the allocator input for one manufactured invoice line.
// The three material hints are tried in order: explicit shelf picks, then the
// matched material snapshot, then a bare unit code.
type ConsumptionRequest struct {
	SealHeight        decimal.Decimal
	Quantity          int64
	SelectedMaterials []SelectedMaterial
	MaterialDetails   *MaterialDetails
	MaterialUsed      string
}

// Deduction records one applied batch cut.
type Deduction struct {
	BatchID    uuid.UUID
	UnitCode   string
	Seals      int64
	ConsumedMM decimal.Decimal
}

// Resolution is the allocator outcome for one request. A shortfall is a
// result, not an error: invoices are never blocked by missing material.
type Resolution struct {
	Tier           Tier
	Status         ResolutionStatus
	Deductions     []Deduction
	RequestedSeals int64
	ActualSeals    int64
	Reason         string
}

// ReversalResult reports what a consumption reversal restored.
type ReversalResult struct {
	RestoredMM decimal.Decimal
	Warnings   []string
}

// Allocator resolves invoice-line material consumption against the batch
// pool through an ordered chain of resolution strategies.
type Allocator struct {
	batches  BatchRepository
	logger   *zap.Logger
	strategy []resolutionStrategy
}

// NewAllocator creates an allocator over the batch repository.
func NewAllocator(batches BatchRepository, logger *zap.Logger) *Allocator {
	a := &Allocator{batches: batches, logger: logger}
	a.strategy = []resolutionStrategy{
		&selectedMaterialsStrategy{a},
		&materialDetailsStrategy{a},
		&unitCodeStrategy{a},
	}
	return a
}

type resolutionStrategy interface {
	Name() Tier
	Applies(req ConsumptionRequest) bool
	Resolve(ctx context.Context, tenantID uuid.UUID, req ConsumptionRequest) (*Resolution, error)
}

// Allocate runs the strategy chain. The first strategy whose hint is present
// handles the request; later tiers never run, even when the chosen tier ends
// in a shortfall.
func (a *Allocator) Allocate(ctx context.Context, tenantID uuid.UUID, req ConsumptionRequest) (*Resolution, error) {
	if req.Quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "seal quantity must be positive")
	}
	if !req.SealHeight.IsPositive() {
		return nil, shared.NewDomainError("INVALID_DIMENSIONS", "seal height must be positive")
	}

	for _, s := range a.strategy {
		if !s.Applies(req) {
			continue
		}
		res, err := s.Resolve(ctx, tenantID, req)
		if err != nil {
			return nil, err
		}
		if res.Status != StatusResolved {
			a.logger.Warn("material consumption not fully resolved",
				zap.String("tier", string(res.Tier)),
				zap.String("status", string(res.Status)),
				zap.Int64("requested_seals", res.RequestedSeals),
				zap.Int64("actual_seals", res.ActualSeals),
				zap.String("reason", res.Reason))
		}
		return res, nil
	}

	return &Resolution{
		Tier:           TierNone,
		Status:         StatusNotFound,
		RequestedSeals: req.Quantity,
		Reason:         "no material hint on line",
	}, nil
}

// deduct applies one conditional batch decrement. A failed condition is a
// concurrent-writer loss and comes back as ErrInsufficientStock.
func (a *Allocator) deduct(ctx context.Context, tenantID uuid.UUID, batch *RawMaterialBatch, seals int64, mm decimal.Decimal) (*Deduction, error) {
	if err := a.batches.DeductHeight(ctx, tenantID, batch.GetID(), mm); err != nil {
		if errors.Is(err, shared.ErrInsufficientStock) {
			return nil, err
		}
		return nil, fmt.Errorf("deduct batch %s: %w", batch.UnitCode, err)
	}
	return &Deduction{
		BatchID:    batch.GetID(),
		UnitCode:   batch.UnitCode,
		Seals:      seals,
		ConsumedMM: mm,
	}, nil
}

// selectedMaterialsStrategy consumes the explicit shelf picks on the line.
// Each pick is independent: one missing or short cylinder is reported but
// does not stop the others.
type selectedMaterialsStrategy struct{ a *Allocator }

func (*selectedMaterialsStrategy) Name() Tier { return TierSelectedMaterials }

func (*selectedMaterialsStrategy) Applies(req ConsumptionRequest) bool {
	return len(req.SelectedMaterials) > 0
}

func (s *selectedMaterialsStrategy) Resolve(ctx context.Context, tenantID uuid.UUID, req ConsumptionRequest) (*Resolution, error) {
	perSeal := PerSealHeight(req.SealHeight)
	res := &Resolution{Tier: TierSelectedMaterials, RequestedSeals: req.Quantity}

	found := 0
	var reasons []string
	for _, sel := range req.SelectedMaterials {
		if sel.SealsCount <= 0 {
			continue
		}
		batch, err := s.a.batches.FindBySelection(ctx, tenantID, sel.UnitCode, sel.InnerDiameter, sel.OuterDiameter)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				reasons = append(reasons, fmt.Sprintf("batch %s not found", sel.UnitCode))
				continue
			}
			return nil, err
		}
		found++

		need := perSeal.Mul(decimal.NewFromInt(sel.SealsCount))
		if !batch.CanYield(need) {
			reasons = append(reasons, fmt.Sprintf("batch %s holds %smm, needs %smm", sel.UnitCode, batch.Height, need))
			continue
		}
		d, err := s.a.deduct(ctx, tenantID, batch, sel.SealsCount, need)
		if err != nil {
			if errors.Is(err, shared.ErrInsufficientStock) {
				reasons = append(reasons, fmt.Sprintf("batch %s drained concurrently", sel.UnitCode))
				continue
			}
			return nil, err
		}
		res.Deductions = append(res.Deductions, *d)
		res.ActualSeals += sel.SealsCount
	}

	res.Reason = joinReasons(reasons)
	switch {
	case found == 0:
		res.Status = StatusNotFound
	case res.ActualSeals >= req.Quantity:
		res.Status = StatusResolved
	case res.ActualSeals > 0:
		res.Status = StatusPartial
	default:
		res.Status = StatusShortfall
	}
	return res, nil
}

// materialDetailsStrategy consumes from the single batch named by the match
// snapshot, with partial fulfillment when the batch cannot yield the full
// quantity. Finished-product lines consume no raw material at all.
type materialDetailsStrategy struct{ a *Allocator }

func (*materialDetailsStrategy) Name() Tier { return TierMaterialDetails }

func (*materialDetailsStrategy) Applies(req ConsumptionRequest) bool {
	return req.MaterialDetails != nil
}

func (s *materialDetailsStrategy) Resolve(ctx context.Context, tenantID uuid.UUID, req ConsumptionRequest) (*Resolution, error) {
	det := req.MaterialDetails
	res := &Resolution{Tier: TierMaterialDetails, RequestedSeals: req.Quantity}

	if det.IsFinishedProduct {
		res.Status = StatusResolved
		res.ActualSeals = req.Quantity
		res.Reason = "finished product, no raw material consumed"
		return res, nil
	}

	batch, err := s.a.batches.FindBySelection(ctx, tenantID, det.UnitCode, det.InnerDiameter, det.OuterDiameter)
	if errors.Is(err, shared.ErrNotFound) {
		batch, err = s.a.batches.FindFirstByTypeAndDiameters(ctx, tenantID, det.MaterialType, det.InnerDiameter, det.OuterDiameter)
	}
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			res.Status = StatusNotFound
			res.Reason = fmt.Sprintf("no batch for %s %sx%s", det.MaterialType, det.InnerDiameter, det.OuterDiameter)
			return res, nil
		}
		return nil, err
	}

	perSeal := PerSealHeight(req.SealHeight)
	maxSeals := batch.MaxSeals(req.SealHeight)
	actual := req.Quantity
	if maxSeals < actual {
		actual = maxSeals
	}
	if actual <= 0 {
		res.Status = StatusShortfall
		res.Reason = fmt.Sprintf("batch %s cannot yield any %smm seal", batch.UnitCode, req.SealHeight)
		return res, nil
	}

	need := perSeal.Mul(decimal.NewFromInt(actual))
	d, err := s.a.deduct(ctx, tenantID, batch, actual, need)
	if err != nil {
		if errors.Is(err, shared.ErrInsufficientStock) {
			res.Status = StatusShortfall
			res.Reason = fmt.Sprintf("batch %s drained concurrently", batch.UnitCode)
			return res, nil
		}
		return nil, err
	}
	res.Deductions = []Deduction{*d}
	res.ActualSeals = actual
	if actual < req.Quantity {
		res.Status = StatusPartial
		res.Reason = fmt.Sprintf("batch %s yields only %d of %d seals", batch.UnitCode, actual, req.Quantity)
	} else {
		res.Status = StatusResolved
	}
	return res, nil
}

// unitCodeStrategy is the last-resort hint: a bare unit code with no partial
// logic. Either the batch covers the whole line or nothing is cut.
type unitCodeStrategy struct{ a *Allocator }

func (*unitCodeStrategy) Name() Tier { return TierUnitCode }

func (*unitCodeStrategy) Applies(req ConsumptionRequest) bool {
	return req.MaterialUsed != ""
}

func (s *unitCodeStrategy) Resolve(ctx context.Context, tenantID uuid.UUID, req ConsumptionRequest) (*Resolution, error) {
	res := &Resolution{Tier: TierUnitCode, RequestedSeals: req.Quantity}

	batch, err := s.a.batches.FindByUnitCode(ctx, tenantID, req.MaterialUsed)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			res.Status = StatusNotFound
			res.Reason = fmt.Sprintf("batch %s not found", req.MaterialUsed)
			return res, nil
		}
		return nil, err
	}

	need := PerSealHeight(req.SealHeight).Mul(decimal.NewFromInt(req.Quantity))
	if !batch.CanYield(need) {
		res.Status = StatusShortfall
		res.Reason = fmt.Sprintf("batch %s holds %smm, needs %smm", batch.UnitCode, batch.Height, need)
		return res, nil
	}
	d, err := s.a.deduct(ctx, tenantID, batch, req.Quantity, need)
	if err != nil {
		if errors.Is(err, shared.ErrInsufficientStock) {
			res.Status = StatusShortfall
			res.Reason = fmt.Sprintf("batch %s drained concurrently", batch.UnitCode)
			return res, nil
		}
		return nil, err
	}
	res.Deductions = []Deduction{*d}
	res.ActualSeals = req.Quantity
	res.Status = StatusResolved
	return res, nil
}

// Reverse restores the consumption recorded on a line. Restoration follows
// the recorded materials, not the original deduction path: if the line was
// edited since creation, the recorded picks are what come back. Missing
// batches are skipped with a warning.
func (a *Allocator) Reverse(ctx context.Context, tenantID uuid.UUID, req ConsumptionRequest) (*ReversalResult, error) {
	perSeal := PerSealHeight(req.SealHeight)
	result := &ReversalResult{RestoredMM: decimal.Zero}

	restore := func(unitCode string, mm decimal.Decimal) error {
		batch, err := a.batches.FindByUnitCode(ctx, tenantID, unitCode)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				result.Warnings = append(result.Warnings, fmt.Sprintf("batch %s gone, %smm not restored", unitCode, mm))
				return nil
			}
			return err
		}
		if err := a.batches.RestoreHeight(ctx, tenantID, batch.GetID(), mm); err != nil {
			return fmt.Errorf("restore batch %s: %w", unitCode, err)
		}
		result.RestoredMM = result.RestoredMM.Add(mm)
		return nil
	}

	switch {
	case len(req.SelectedMaterials) > 0:
		for _, sel := range req.SelectedMaterials {
			if sel.SealsCount <= 0 {
				continue
			}
			if err := restore(sel.UnitCode, perSeal.Mul(decimal.NewFromInt(sel.SealsCount))); err != nil {
				return nil, err
			}
		}
	case req.MaterialDetails != nil && !req.MaterialDetails.IsFinishedProduct && req.MaterialDetails.UnitCode != "":
		if err := restore(req.MaterialDetails.UnitCode, perSeal.Mul(decimal.NewFromInt(req.Quantity))); err != nil {
			return nil, err
		}
	case req.MaterialUsed != "":
		if err := restore(req.MaterialUsed, perSeal.Mul(decimal.NewFromInt(req.Quantity))); err != nil {
			return nil, err
		}
	}

	for _, w := range result.Warnings {
		a.logger.Warn("consumption reversal incomplete", zap.String("detail", w))
	}
	return result, nil
}

func joinReasons(reasons []string) string {
	switch len(reasons) {
	case 0:
		return ""
	case 1:
		return reasons[0]
	}
	out := reasons[0]
	for _, r := range reasons[1:] {
		out += "; " + r
	}
	return out
}
