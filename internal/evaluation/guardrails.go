package evaluation

import "fmt"

// GuardrailConfig sets the minimum quality bar an evaluation run must
// clear before an index or ranking change ships.
type GuardrailConfig struct {
	MinAvgRecallAt10  float64
	MinAvgMRRAt10     float64
	MinIntentAccuracy float64
}

type Guardrails struct {
	config GuardrailConfig
}

func NewGuardrails(config GuardrailConfig) *Guardrails {
	return &Guardrails{config: config}
}

// Check compares a summary against the configured floors and returns
// one violation string per failed floor. An empty slice means pass.
func (g *Guardrails) Check(summary *EvalSummary) []string {
	var violations []string

	if summary.AvgRecallAt10 < g.config.MinAvgRecallAt10 {
		violations = append(violations, fmt.Sprintf(
			"avg recall@10 %.3f below floor %.3f", summary.AvgRecallAt10, g.config.MinAvgRecallAt10))
	}
	if summary.AvgMRRAt10 < g.config.MinAvgMRRAt10 {
		violations = append(violations, fmt.Sprintf(
			"avg mrr@10 %.3f below floor %.3f", summary.AvgMRRAt10, g.config.MinAvgMRRAt10))
	}
	if summary.IntentAccuracy < g.config.MinIntentAccuracy {
		violations = append(violations, fmt.Sprintf(
			"intent accuracy %.3f below floor %.3f", summary.IntentAccuracy, g.config.MinIntentAccuracy))
	}

	return violations
}
