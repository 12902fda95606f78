package calculator

import (
	"fmt"
	"math"

	"etfgrid/internal/domain"
)

// TargetWeights turns non-negative scores into weights clipped to
// [minWeight, maxWeight] and renormalized to sum to 1.
func TargetWeights(scores []float64, minWeight, maxWeight float64) ([]float64, error) {
	total := 0.0
	for _, s := range scores {
		total += s
	}
	if total <= 0 {
		return nil, fmt.Errorf("cannot compute weights with total score %f", total)
	}

	clipped := make([]float64, len(scores))
	clippedSum := 0.0
	for i, s := range scores {
		w := math.Min(math.Max(s/total, minWeight), maxWeight)
		clipped[i] = w
		clippedSum += w
	}
	if clippedSum <= 0 {
		return nil, fmt.Errorf("clipped weights sum to %f", clippedSum)
	}

	weights := make([]float64, len(scores))
	for i, w := range clipped {
		weights[i] = w / clippedSum
	}
	return weights, nil
}

// ComputeRotation derives a yield-weighted target allocation for the
// members and, when the current allocation is off target, one transfer
// from the expensive member to the cheap one. Only the first cheap and
// first expensive member (in input order) are paired.
func ComputeRotation(in domain.RotationInput) domain.RotationPlan {
	members := in.Members
	if len(members) < 2 {
		return domain.RotationPlan{AbstainReason: "fewer than two configured members"}
	}

	currentTotal := 0
	for _, m := range members {
		currentTotal += m.BaseUnits
	}
	totalUnits := in.TotalBaseUnits
	if totalUnits <= 0 {
		totalUnits = currentTotal
	}
	if totalUnits <= 0 {
		return domain.RotationPlan{AbstainReason: "no base units configured"}
	}

	scores := make([]float64, len(members))
	for i, m := range members {
		scores[i] = math.Max(m.DividendYield, 0)
	}
	weights, err := TargetWeights(scores, in.MinWeight, in.MaxWeight)
	if err != nil {
		return domain.RotationPlan{AbstainReason: "dividend yields sum to zero"}
	}
	if currentTotal <= 0 {
		return domain.RotationPlan{AbstainReason: "members hold no units"}
	}

	plan := domain.RotationPlan{}
	needRebalance := false
	for i, m := range members {
		a := domain.RotationAllocation{
			Name:          m.Name,
			CurrentUnits:  m.BaseUnits,
			TargetUnits:   int(math.Round(float64(totalUnits) * weights[i])),
			CurrentWeight: float64(m.BaseUnits) / float64(currentTotal),
			TargetWeight:  weights[i],
		}
		if math.Abs(a.CurrentWeight-a.TargetWeight) >= in.RebalanceThreshold/2 {
			needRebalance = true
		}
		plan.Allocations = append(plan.Allocations, a)
	}
	if !needRebalance {
		plan.AbstainReason = "allocation within threshold"
		return plan
	}

	cheap, expensive := -1, -1
	for i, a := range plan.Allocations {
		diff := a.TargetUnits - a.CurrentUnits
		if diff > 0 && cheap < 0 {
			cheap = i
		}
		if diff < 0 && expensive < 0 {
			expensive = i
		}
	}
	if cheap < 0 || expensive < 0 {
		plan.AbstainReason = "no member on both sides of target"
		return plan
	}

	increase := plan.Allocations[cheap].TargetUnits - plan.Allocations[cheap].CurrentUnits
	decrease := plan.Allocations[expensive].CurrentUnits - plan.Allocations[expensive].TargetUnits
	units := increase
	if decrease < units {
		units = decrease
	}

	minUnits := 1
	if s := members[cheap].StepUnits; s > minUnits {
		minUnits = s
	}
	if s := members[expensive].StepUnits; s > minUnits {
		minUnits = s
	}
	if units < minUnits {
		plan.AbstainReason = fmt.Sprintf("transfer of %d units is below one step (%d)", units, minUnits)
		return plan
	}

	plan.Suggestion = &domain.RotationSuggestion{
		From:  members[expensive].Name,
		To:    members[cheap].Name,
		Units: units,
	}
	return plan
}
