// Package verdict synthesizes per-claim and overall verdicts from gathered
// evidence and the claim dependency graph. All rules are deterministic and
// the scoring data is transparent: weights and counts are reported on each
// sub-claim verdict. Generated narrative text never affects the verdict.
package verdict

import (
	"fmt"
	"math"
	"strings"

	"github.com/ppiankov/veridict/internal/graph"
	"github.com/ppiankov/veridict/internal/model"
	"github.com/ppiankov/veridict/internal/score"
)

// Evidence below this total weight cannot settle a claim
const minEvidenceWeight = 0.5

// Share of weighted evidence needed for a decisive TRUE/FALSE
const decisiveShare = 0.7

// refutationMarkers flag a snippet as refuting rather than supporting.
// Keyword heuristics keep classification deterministic and explainable.
var refutationMarkers = []string{
	"false",
	"debunked",
	"debunk",
	"myth",
	"misleading",
	"no evidence",
	"not true",
	"untrue",
	"hoax",
	"incorrect",
	"cannot be seen",
	"not visible",
}

// Synthesizer computes evaluations
type Synthesizer struct{}

// NewSynthesizer creates a synthesizer
func NewSynthesizer() *Synthesizer {
	return &Synthesizer{}
}

// claimEvidence accumulates weighted evidence for one atomic claim
type claimEvidence struct {
	supportWeight float64
	refuteWeight  float64
	supportCount  int
	refuteCount   int
}

func (e claimEvidence) total() float64 { return e.supportWeight + e.refuteWeight }

// Synthesize aggregates outcomes into an Evaluation. Foundational claims
// are evaluated before derived ones; a refuted or unverifiable dependency
// marks its dependents broken and caps their verdicts below TRUE. An
// empty evidence set yields UNVERIFIED with confidence 0, not an error.
func (s *Synthesizer) Synthesize(claims []model.AtomicClaim, g *graph.Graph, outcomes []model.QueryOutcome) model.Evaluation {
	accounting := account(outcomes)

	byID := make(map[string]model.AtomicClaim, len(claims))
	for _, c := range claims {
		byID[c.ID] = c
	}

	evidence := collectEvidence(outcomes)

	// Per-claim verdicts in dependency order, so every dependency verdict
	// exists before its dependents are scored.
	verdicts := make(map[string]model.SubClaimVerdict, len(claims))
	var broken []model.BrokenDependency

	for _, id := range g.EvaluationOrder() {
		claim := byID[id]
		ev := evidence[id]
		sub := scoreClaim(claim, ev)

		if !claim.IsFoundational() {
			sub.DependencyStatus = model.DependencyVerified
			deps, _ := g.TransitiveDependencies(id)
			for _, dep := range deps {
				dv, ok := verdicts[dep]
				if !ok {
					continue
				}
				switch dv.Verdict {
				case model.VerdictFalse, model.VerdictMisleading:
					sub.DependencyStatus = model.DependencyBroken
					broken = append(broken, model.BrokenDependency{ClaimID: id, DependencyID: dep, Reason: dv.Verdict})
					if sub.Verdict == model.VerdictTrue {
						sub.Verdict = model.VerdictMisleading
					}
				case model.VerdictUnverified, model.VerdictUnsupported:
					sub.DependencyStatus = model.DependencyBroken
					broken = append(broken, model.BrokenDependency{ClaimID: id, DependencyID: dep, Reason: dv.Verdict})
					if sub.Verdict == model.VerdictTrue {
						sub.Verdict = model.VerdictPartiallyTrue
					}
				}
			}
			if sub.DependencyStatus == model.DependencyBroken {
				// A claim standing on a broken foundation is less certain
				// whatever its own evidence says
				sub.Confidence = clamp01(sub.Confidence * 0.6)
			}
		}

		verdicts[id] = sub
	}

	// Report sub-claims in declaration order, not evaluation order
	subs := make([]model.SubClaimVerdict, 0, len(claims))
	for _, c := range claims {
		subs = append(subs, verdicts[c.ID])
	}

	overall, confidence := s.aggregate(claims, g, verdicts, evidence, broken, accounting)

	eval := model.Evaluation{
		OverallVerdict: overall,
		Confidence:     confidence,
		SubClaims:      subs,
		Dependencies:   analyzeDependencies(g, verdicts, broken),
		Evidence:       accounting,
	}
	eval.Summary = summarize(eval, len(claims))
	eval.KeyFindings = keyFindings(eval, byID)
	return eval
}

// collectEvidence partitions results into weighted support/refutation per
// claim, using each outcome's claim linkage.
func collectEvidence(outcomes []model.QueryOutcome) map[string]claimEvidence {
	evidence := make(map[string]claimEvidence)
	for _, o := range outcomes {
		if !o.Success {
			continue
		}
		for _, r := range o.Results {
			ev := evidence[o.ClaimID]
			w := score.Weight(r.Tier)
			if refutes(r.Snippet) {
				ev.refuteWeight += w
				ev.refuteCount++
			} else {
				ev.supportWeight += w
				ev.supportCount++
			}
			evidence[o.ClaimID] = ev
		}
	}
	return evidence
}

// refutes reports whether a snippet reads as refuting the claim
func refutes(snippet string) bool {
	lower := strings.ToLower(snippet)
	for _, marker := range refutationMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// scoreClaim computes a claim's verdict from its own evidence only;
// dependency effects are applied by the caller.
func scoreClaim(claim model.AtomicClaim, ev claimEvidence) model.SubClaimVerdict {
	sub := model.SubClaimVerdict{
		ClaimID:          claim.ID,
		Statement:        claim.Statement,
		SupportingCount:  ev.supportCount,
		RefutingCount:    ev.refuteCount,
		SupportingWeight: round3(ev.supportWeight),
		RefutingWeight:   round3(ev.refuteWeight),
		DependencyStatus: model.DependencyUnknown,
	}

	total := ev.total()
	if total < minEvidenceWeight {
		sub.Verdict = model.VerdictUnverified
		sub.Confidence = round3(clamp01(total / minEvidenceWeight * 0.25))
		return sub
	}

	supportShare := ev.supportWeight / total
	refuteShare := ev.refuteWeight / total

	switch {
	case supportShare >= decisiveShare:
		sub.Verdict = model.VerdictTrue
	case refuteShare >= decisiveShare:
		sub.Verdict = model.VerdictFalse
	case ev.supportWeight >= ev.refuteWeight:
		sub.Verdict = model.VerdictPartiallyTrue
	default:
		sub.Verdict = model.VerdictMisleading
	}

	agreement := math.Max(supportShare, refuteShare)
	volume := math.Min(total/3.0, 1.0)
	sub.Confidence = round3(clamp01(agreement * volume))
	return sub
}

// verdictScore maps a verdict to its contribution to the aggregate
// support ratio. UNVERIFIED/UNSUPPORTED claims are excluded.
func verdictScore(v model.Verdict) (float64, bool) {
	switch v {
	case model.VerdictTrue:
		return 1.0, true
	case model.VerdictPartiallyTrue:
		return 0.6, true
	case model.VerdictMisleading:
		return 0.3, true
	case model.VerdictFalse:
		return 0.0, true
	default:
		return 0, false
	}
}

// claimWeight: foundational claims and high-priority claims dominate
func claimWeight(claim model.AtomicClaim) float64 {
	w := claim.Priority.Weight()
	if claim.IsFoundational() {
		w *= 2
	}
	return w
}

func (s *Synthesizer) aggregate(
	claims []model.AtomicClaim,
	g *graph.Graph,
	verdicts map[string]model.SubClaimVerdict,
	evidence map[string]claimEvidence,
	broken []model.BrokenDependency,
	accounting model.EvidenceAccounting,
) (model.Verdict, float64) {
	if accounting.ResultCount == 0 {
		return model.VerdictUnverified, 0
	}

	var totalSupport, totalRefute float64
	for _, ev := range evidence {
		totalSupport += ev.supportWeight
		totalRefute += ev.refuteWeight
	}

	var scoreSum, weightSum float64
	scored := 0
	materialProblem := false
	for _, c := range claims {
		sub := verdicts[c.ID]
		sc, ok := verdictScore(sub.Verdict)
		if !ok {
			continue
		}
		w := claimWeight(c)
		scoreSum += sc * w
		weightSum += w
		scored++

		material := c.IsFoundational() || c.Priority == model.PriorityHigh
		if material && (sub.Verdict == model.VerdictFalse || sub.Verdict == model.VerdictMisleading) {
			materialProblem = true
		}
	}

	brokenClaims := make(map[string]bool)
	for _, b := range broken {
		brokenClaims[b.ClaimID] = true
	}
	brokenFrac := 0.0
	if len(claims) > 0 {
		brokenFrac = float64(len(brokenClaims)) / float64(len(claims))
	}

	totalWeight := totalSupport + totalRefute
	agreement := 0.0
	if totalWeight > 0 {
		agreement = math.Max(totalSupport, totalRefute) / totalWeight
	}
	volume := 0.0
	if len(claims) > 0 {
		volume = math.Min(totalWeight/(2.0*float64(len(claims))), 1.0)
	}
	confidence := round3(clamp01(0.4*volume + 0.4*agreement + 0.2*(1.0-brokenFrac)))

	// Evidence exists but no claim reached the floor. With nothing
	// supporting at all that is UNSUPPORTED; with thin supporting
	// evidence it is merely UNVERIFIED.
	if scored == 0 {
		if totalSupport == 0 {
			return model.VerdictUnsupported, math.Min(confidence, 0.2)
		}
		return model.VerdictUnverified, math.Min(confidence, 0.2)
	}

	supportRatio := scoreSum / weightSum

	switch {
	case supportRatio >= decisiveShare && !materialProblem && len(broken) == 0:
		return model.VerdictTrue, confidence
	case supportRatio <= 0.25:
		return model.VerdictFalse, confidence
	case materialProblem:
		return model.VerdictMisleading, confidence
	default:
		// Broken dependencies land here too: never TRUE with a broken chain
		return model.VerdictPartiallyTrue, confidence
	}
}

// analyzeDependencies summarizes chain integrity. Foundational claims are
// considered verified when none of them is FALSE or unverifiable.
func analyzeDependencies(g *graph.Graph, verdicts map[string]model.SubClaimVerdict, broken []model.BrokenDependency) model.DependencyAnalysis {
	foundationalOK := true
	for _, id := range g.Foundational() {
		switch verdicts[id].Verdict {
		case model.VerdictFalse, model.VerdictUnverified, model.VerdictUnsupported, model.VerdictMisleading:
			foundationalOK = false
		}
	}

	analysis := model.DependencyAnalysis{
		FoundationalVerified: foundationalOK,
		Broken:               broken,
	}
	if len(broken) > 0 {
		ids := make([]string, 0, len(broken))
		for _, b := range broken {
			ids = append(ids, fmt.Sprintf("%s depends on %s (%s)", b.ClaimID, b.DependencyID, b.Reason))
		}
		analysis.Notes = "broken dependency chains: " + strings.Join(ids, ", ")
	}
	return analysis
}

func account(outcomes []model.QueryOutcome) model.EvidenceAccounting {
	acc := model.EvidenceAccounting{QueriesIssued: len(outcomes)}
	for _, o := range outcomes {
		if o.Success {
			acc.QueriesSucceeded++
			acc.ResultCount += len(o.Results)
		} else {
			acc.QueriesFailed++
		}
	}
	return acc
}

func summarize(eval model.Evaluation, claimCount int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Verdict %s with confidence %.2f across %d atomic claims. ",
		eval.OverallVerdict, eval.Confidence, claimCount)
	fmt.Fprintf(&b, "%d of %d queries succeeded, yielding %d results.",
		eval.Evidence.QueriesSucceeded, eval.Evidence.QueriesIssued, eval.Evidence.ResultCount)
	if n := len(eval.Dependencies.Broken); n > 0 {
		fmt.Fprintf(&b, " %d dependency chain(s) broken.", n)
	}
	return b.String()
}

func keyFindings(eval model.Evaluation, byID map[string]model.AtomicClaim) []string {
	var findings []string
	for _, sub := range eval.SubClaims {
		switch sub.Verdict {
		case model.VerdictFalse:
			findings = append(findings, fmt.Sprintf("refuted: %s (weight %.2f against)", sub.Statement, sub.RefutingWeight))
		case model.VerdictTrue:
			if c, ok := byID[sub.ClaimID]; ok && (c.IsFoundational() || c.Priority == model.PriorityHigh) {
				findings = append(findings, fmt.Sprintf("confirmed: %s (weight %.2f for)", sub.Statement, sub.SupportingWeight))
			}
		case model.VerdictUnverified:
			findings = append(findings, fmt.Sprintf("insufficient evidence: %s", sub.Statement))
		}
		if sub.DependencyStatus == model.DependencyBroken {
			findings = append(findings, fmt.Sprintf("dependency broken for: %s", sub.Statement))
		}
	}
	if eval.Evidence.QueriesFailed > 0 {
		findings = append(findings, fmt.Sprintf("%d search queries failed; verdict based on remaining evidence", eval.Evidence.QueriesFailed))
	}
	return findings
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
