package clarify

import (
	"fmt"
	"strings"

	"prodid/internal/config"
	"prodid/internal/identify"
)

// State is the per-item outcome of the gate. Once an item is accepted there
// is no path back.
type State string

const (
	StateAccepted State = "accepted"
	StateAwaiting State = "awaiting_clarification"
)

// Question IDs are stable per item so a resupplied answer map can be matched
// against the questions that produced it.
const (
	questionIDBrand   = "brand"
	questionIDModel   = "model"
	questionIDConfirm = "confirm"
)

// OptionOther is always appended as the escape hatch.
const OptionOther = "Other"

const maxOptionsPerQuestion = 4

// Question is one disambiguating question surfaced to the user.
type Question struct {
	ID       string   `json:"id"`
	ItemID   string   `json:"itemId"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// Decision is the gate's verdict for one item.
type Decision struct {
	State     State                      `json:"state"`
	Candidate identify.IdentifiedProduct `json:"candidate,omitzero"`
	Resolved  bool                       `json:"resolved"`
	Questions []Question                 `json:"questions,omitempty"`
}

// Gate applies the confidence threshold and generates clarification
// questions for borderline candidates.
type Gate struct {
	threshold    float64
	maxQuestions int
}

func NewGate(cfg *config.Config) *Gate {
	threshold := 0.85
	maxQuestions := 2
	if cfg != nil {
		if cfg.Identify.ClarificationThreshold > 0 {
			threshold = cfg.Identify.ClarificationThreshold
		}
		if cfg.Identify.MaxQuestionsPerItem > 0 {
			maxQuestions = cfg.Identify.MaxQuestionsPerItem
		}
	}
	return &Gate{threshold: threshold, maxQuestions: maxQuestions}
}

// Threshold reports the acceptance threshold in effect.
func (g *Gate) Threshold() float64 { return g.threshold }

// Decide gates one item's identification result. An item with prior answers
// is always accepted, whatever its re-run confidence, so a clarification
// round is guaranteed to terminate. An empty result is accepted as-is; there
// is nothing to ask about.
func (g *Gate) Decide(itemID string, result identify.Result, answers map[string]string) Decision {
	best, ok := result.Best()
	if !ok {
		return Decision{State: StateAccepted}
	}
	if len(answers) > 0 || best.Confidence >= g.threshold {
		return Decision{State: StateAccepted, Candidate: best, Resolved: true}
	}
	questions := g.buildQuestions(itemID, result.Candidates)
	if len(questions) == 0 {
		return Decision{State: StateAccepted, Candidate: best, Resolved: true}
	}
	return Decision{
		State:     StateAwaiting,
		Candidate: best,
		Resolved:  true,
		Questions: questions,
	}
}

// buildQuestions derives questions from where the candidate list actually
// diverges: a brand question when candidates disagree on brand, a model
// question when one brand has several plausible models, and a plain
// confirmation when there is only a single low-confidence candidate.
func (g *Gate) buildQuestions(itemID string, candidates []identify.IdentifiedProduct) []Question {
	var questions []Question

	brands := distinctBrands(candidates)
	if len(brands) >= 2 {
		questions = append(questions, Question{
			ID:       questionIDBrand,
			ItemID:   itemID,
			Question: "Which brand is this?",
			Options:  withOther(brands),
		})
	}

	models := distinctModels(candidates, leadBrand(candidates))
	if len(models) >= 2 {
		questions = append(questions, Question{
			ID:       questionIDModel,
			ItemID:   itemID,
			Question: "Which model is it?",
			Options:  withOther(models),
		})
	}

	if len(questions) == 0 {
		questions = append(questions, Question{
			ID:       questionIDConfirm,
			ItemID:   itemID,
			Question: fmt.Sprintf("Is this a %s?", candidates[0].DisplayName()),
			Options: []string{
				"Yes",
				"Similar, but a different model",
				"Different product entirely",
				OptionOther,
			},
		})
	}

	if len(questions) > g.maxQuestions {
		questions = questions[:g.maxQuestions]
	}
	return questions
}

// FlattenQuestions collects the open questions across a batch into the single
// list surfaced to the user in one round.
func FlattenQuestions(decisions []Decision) []Question {
	var out []Question
	for _, d := range decisions {
		if d.State == StateAwaiting {
			out = append(out, d.Questions...)
		}
	}
	return out
}

func distinctBrands(candidates []identify.IdentifiedProduct) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, c := range candidates {
		brand := strings.TrimSpace(c.Brand)
		if brand == "" {
			continue
		}
		key := strings.ToLower(brand)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, brand)
		if len(out) == maxOptionsPerQuestion {
			break
		}
	}
	return out
}

// distinctModels lists candidate names, restricted to the lead brand when one
// exists so the options stay mutually exclusive.
func distinctModels(candidates []identify.IdentifiedProduct, brand string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, c := range candidates {
		if brand != "" && !strings.EqualFold(strings.TrimSpace(c.Brand), brand) {
			continue
		}
		name := strings.TrimSpace(c.Name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
		if len(out) == maxOptionsPerQuestion {
			break
		}
	}
	return out
}

func leadBrand(candidates []identify.IdentifiedProduct) string {
	for _, c := range candidates {
		if brand := strings.TrimSpace(c.Brand); brand != "" {
			return brand
		}
	}
	return ""
}

func withOther(options []string) []string {
	return append(append([]string(nil), options...), OptionOther)
}
