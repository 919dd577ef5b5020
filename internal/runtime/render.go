package runtime

import (
	"fmt"
	"strings"

	"github.com/embld/interviewflow/pkg/domain"
)

// document names an artifact shown to the user.
type document struct {
	title string
	kind  domain.DocumentType
}

var (
	docSummary       = document{"Service summary", domain.DocSummary}
	docPersonas      = document{"Personas", domain.DocPersonas}
	docInterviews    = document{"Interview results", domain.DocInterviews}
	docEvaluation    = document{"Information check", domain.DocEvaluation}
	docRequirements  = document{"Requirements document", domain.DocRequirements}
	docImproved      = document{"Improved requirements document", domain.DocRequirements}
	docAnalysis      = document{"Environment analysis report", domain.DocAnalysis}
	docProfitability = document{"Profitability assessment", domain.DocProfitability}
	docFeasibility   = document{"Feasibility assessment", domain.DocFeasibility}
	docLegal         = document{"Legal risk assessment", domain.DocLegal}
	docGate          = document{"Assessment gate", domain.DocGate}
	docPitch         = document{"Project pitch", domain.DocPitch}
)

func renderPersonas(personas []domain.Persona) string {
	parts := make([]string, len(personas))
	for i, p := range personas {
		parts[i] = fmt.Sprintf("## %d. %s\n\n**Background:** %s\n", i+1, p.Name, p.Background)
	}
	return strings.Join(parts, "\n")
}

func renderInterviews(interviews []domain.Interview) string {
	parts := make([]string, len(interviews))
	for i, iv := range interviews {
		parts[i] = fmt.Sprintf("## %d. Interview with %s\n\n**Question:** %s\n\n**Answer:** %s\n",
			i+1, iv.Persona.Name, iv.Question, iv.Answer)
	}
	return strings.Join(parts, "\n")
}

func renderEvaluation(r domain.EvaluationResult) string {
	var b strings.Builder
	verdict := "Not yet sufficient"
	if r.IsSufficient {
		verdict = "Sufficient"
	}
	fmt.Fprintf(&b, "## Information check\n\n### %s\n\n%s", verdict, r.Reason)
	if len(r.Gaps) > 0 {
		fmt.Fprintf(&b, "\n\n### Gaps\n%s", bulleted(r.Gaps))
	}
	return b.String()
}

func renderAnalysis(a domain.EnvironmentAnalysis) string {
	return fmt.Sprintf(`## Environment analysis report

### Market and customer analysis
%s

### Competitor analysis
%s

### Company analysis
%s

### PEST analysis
%s

### Summary and strategic recommendations
%s`, a.CustomerAnalysis, a.CompetitorAnalysis, a.CompanyAnalysis, a.PESTAnalysis, a.SummaryAndStrategy)
}

func renderVerdict(heading string, passed bool, pass, fail, reason string) string {
	status := "❌ " + fail
	if passed {
		status = "✅ " + pass
	}
	return fmt.Sprintf("## %s\n\n### %s\n\n%s", heading, status, reason)
}

func renderGate(passed bool, in gateInput) string {
	line := func(name string, v verdict) string {
		mark := "❌"
		if v.Passed {
			mark = "✅"
		}
		return fmt.Sprintf("- %s %s", mark, name)
	}
	next := "Some assessments did not pass; the requirements will be improved before the pitch."
	if passed {
		next = "All assessments passed; moving on to the pitch."
	}
	return strings.Join([]string{
		"## Assessment gate",
		"",
		line("Profitability", in.Profitability),
		line("Feasibility", in.Feasibility),
		line("Legal", in.Legal),
		"",
		next,
	}, "\n")
}
