package runtime

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/embld/interviewflow/pkg/domain"
)

// DefaultGateExpression passes only when all three assessments passed.
const DefaultGateExpression = "profitability.passed && feasibility.passed && legal.passed"

// gate decides between generate_pitch and improve_requirements.
type gate struct {
	source  string
	program *vm.Program
}

type verdict struct {
	Passed bool
	Reason string
}

type gateInput struct {
	Profitability verdict
	Feasibility   verdict
	Legal         verdict
}

// gateInputOf reads the assessments; a missing one counts as failed.
func gateInputOf(s domain.InterviewState) gateInput {
	var in gateInput
	if p := s.Profitability; p != nil {
		in.Profitability = verdict{Passed: p.IsProfitable, Reason: p.Reason}
	}
	if f := s.Feasibility; f != nil {
		in.Feasibility = verdict{Passed: f.IsFeasible, Reason: f.Reason}
	}
	if l := s.Legal; l != nil {
		in.Legal = verdict{Passed: l.IsCompliant, Reason: l.Reason}
	}
	return in
}

func (in gateInput) env() map[string]any {
	v := func(v verdict) map[string]any {
		return map[string]any{"passed": v.Passed, "reason": v.Reason}
	}
	return map[string]any{
		"profitability": v(in.Profitability),
		"feasibility":   v(in.Feasibility),
		"legal":         v(in.Legal),
	}
}

func compileGate(source string) (*gate, error) {
	source = strings.TrimSpace(source)
	program, err := expr.Compile(source, expr.Env(gateInput{}.env()), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile gate expression %q: %w", source, err)
	}
	return &gate{source: source, program: program}, nil
}

func (g *gate) eval(in gateInput) (bool, error) {
	out, err := expr.Run(g.program, in.env())
	if err != nil {
		return false, fmt.Errorf("eval gate expression %q: %w", g.source, err)
	}
	passed, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("gate expression %q did not return bool (got %T)", g.source, out)
	}
	return passed, nil
}
