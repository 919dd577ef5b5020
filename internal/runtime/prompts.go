package runtime

import (
	"fmt"
	"strings"

	"github.com/embld/interviewflow/pkg/domain"
	"github.com/embld/interviewflow/pkg/llm"
)

// prompts builds every model request of the workflow.
type prompts struct {
	language            string
	questionsPerPersona int
}

func (e *Engine) prompts() prompts {
	return prompts{language: e.language, questionsPerPersona: e.questionsPerPersona}
}

func (p prompts) system(role string) string {
	return fmt.Sprintf("%s Write the output in %s only.", role, p.language)
}

func (p prompts) candidateTerms(s *domain.InterviewState) llm.Request {
	return llm.NewRequest(
		p.system("You help product owners remove ambiguity. From the idea below, pick one to three vague or overly broad terms whose definition would most change the product. Return only the terms, one per line, without numbering."),
		fmt.Sprintf("Problem: %s\nPersona: %s\nSolution: %s\n\nTerms:", s.InitialProblem, s.InitialPersona, s.InitialSolution),
		0.3, 256)
}

func (p prompts) detailedQuestions(s *domain.InterviewState) llm.Request {
	return llm.NewRequest(
		p.system("You write direction-alignment questionnaires that minimize the gap between how an idea is interpreted and what is produced from it. Keep the questions generic: do not depend on a specific industry, medium, UI or product name. Extract vague or broad words from the input and ask for their definition."),
		fmt.Sprintf(`Initial input from the user:
- Problem: %s
- Persona: %s
- Solution hypothesis: %s

Generate the following nine questions. Each must be short, clear and answerable with "yes", "no" or "don't know":

1. Whether our understanding is correct
2. The primary goal (validation, acquisition, efficiency, satisfaction or revenue)
3. What is in scope
4. What is out of scope
5. Priority of quality versus speed
6. The definition of done
7. Constraints (musts and must-nots)
8. Inputs and outputs
9. Risks and concerns

Output one question per line without numbering.`, s.InitialProblem, s.InitialPersona, s.InitialSolution),
		0.7, 0)
}

func (p prompts) summarizeRequest(s *domain.InterviewState) llm.Request {
	return llm.NewRequest(
		p.system("You are an excellent project manager. Read the initial input and the Q&A log and write a one-paragraph project summary for the development team."),
		fmt.Sprintf(`## Source information
- **Problem:** %s
- **Target persona:** %s
- **Solution:** %s

## Interview log
%s

## Project summary:`, s.InitialProblem, s.InitialPersona, s.InitialSolution, s.ClarificationInterviewLog),
		0.7, 0)
}

func (p prompts) personas(s *domain.InterviewState) llm.Request {
	return llm.NewRequest(
		p.system(fmt.Sprintf("You are an expert at creating personas for user interviews. Based on the project summary, create %d candidate personas that fit it. Avoid overlapping attributes. Respond in JSON.", maxPersonas)),
		fmt.Sprintf(`Project summary: %s

Return %d personas in this format:
{
  "personas": [
    {
      "name": "Alex Morgan",
      "background": "Engineer in their early thirties who builds apps on the side."
    }
  ]
}`, s.UserRequest, maxPersonas),
		0.8, 0)
}

func (p prompts) interviewQuestions(s *domain.InterviewState, persona domain.Persona) llm.Request {
	return llm.NewRequest(
		p.system(fmt.Sprintf("You are a UX research question designer. From the persona's context, write %d concrete questions that draw out what they really think. Keep them quick to answer and useful for reaching agreement.", p.questionsPerPersona)),
		fmt.Sprintf("Project summary: %s\n\nPersona: %s - %s\n\nReturn %d questions as a bulleted list.",
			s.UserRequest, persona.Name, persona.Background, p.questionsPerPersona),
		0.7, 0)
}

func (p prompts) interviewAnswer(persona domain.Persona, question string) llm.Request {
	return llm.NewRequest(
		p.system("You answer as the persona below. Use the first person, two or three sentences, with a concrete example."),
		fmt.Sprintf("Persona: %s - %s\nQuestion: %s\nAnswer:", persona.Name, persona.Background, question),
		0.8, 0)
}

func (p prompts) evaluate(s *domain.InterviewState) llm.Request {
	return llm.NewRequest(
		p.system("You judge whether enough information has been gathered to write a complete requirements document. If something is missing, state what and write concrete, actionable follow-up questions. This is a solo project: minor gaps can be filled with assumptions, so only critical gaps make the information insufficient. Respond in JSON."),
		fmt.Sprintf(`Project summary: %s

Interview results:
%s
Interview log:
%s

Return the evaluation in this format:
{
  "reason": "why you decided this",
  "is_sufficient": true,
  "gaps": ["missing item 1", "missing item 2"],
  "followup_questions": ["follow-up question 1", "follow-up question 2"]
}`, s.UserRequest, interviewTranscript(s.Interviews), s.ClarificationInterviewLog),
		0.3, 0)
}

func (p prompts) yesNoQuestions(questions []string) llm.Request {
	return llm.NewRequest(
		p.system("You are a question designer. Rewrite the free-form follow-up questions so the user can answer each with yes or no. One sentence each, phrased so that yes is the default hypothesis."),
		fmt.Sprintf("Free-form questions:\n%s\n\nRewritten: output as a bulleted list.", bulleted(questions)),
		0.3, 0)
}

func (p prompts) backfill(s *domain.InterviewState, gaps []string) llm.Request {
	var notes []string
	for _, iv := range s.Interviews {
		notes = append(notes, fmt.Sprintf("%s: %s", iv.Persona.Name, iv.Answer))
	}
	return llm.NewRequest(
		p.system("You are the PM of a solo project. Fill each missing item below with a reasonable assumption. For each item give a decision (one line), the rationale (one line) and how to reconfirm it (one line). Prefer conservative, implementable choices."),
		fmt.Sprintf(`## Project summary
%s

## Interview notes
%s

## Missing items
%s

## Output
- item: decision / rationale / how to reconfirm, as a bulleted list.`, s.UserRequest, bulleted(notes), bulleted(gaps)),
		0.5, 0)
}

func (p prompts) requirements(s *domain.InterviewState) llm.Request {
	return llm.NewRequest(
		p.system("You are an experienced product manager and systems analyst who writes integrated requirements documents (Lean + Tech) that a solo developer can start and operate alone. Merge the business side (Lean BRD) and the development side (Tech Spec) into one document, leave no section blank (fill gaps with hypotheses) and keep it concrete enough to act on."),
		fmt.Sprintf(`Project summary: %s

Interview details:
%s
Interview log:
%s

Write the integrated requirements document in this format:

# Integrated requirements document (solo development: Lean + Tech)

## A. Business (Lean BRD)
### A-1. Project card
### A-2. Problems and why solve them (top 3)
### A-3. Key users and jobs
### A-4. Value proposition and differentiation
### A-5. Revenue model and pricing (with estimates)
### A-6. Acquisition channels and the first 10 users
### A-7. Success metrics (North Star and KPIs)
### A-8. Scope and priorities (MVP)
### A-9. Risks, assumptions and legal
### A-10. Cost estimate and run rate

## B. Development (Tech Spec)
### B-1. MVP user stories (3 to 5)
### B-2. Screens and main flows
### B-3. Data model (simple ER)
### B-4. APIs and integrations
### B-5. Non-functional requirements (solo-developer realistic)
### B-6. Operations and support
### B-7. Roadmap (about 12 weeks)
### B-8. Glossary (definitions of ambiguous terms)`, s.UserRequest, interviewTranscript(s.Interviews), s.ClarificationInterviewLog),
		0.5, 4000)
}

func (p prompts) analysis(s *domain.InterviewState) llm.Request {
	return llm.NewRequest(
		p.system("You are a senior strategy consultant. Analyze the external environment precisely enough to decide whether a solo developer should build this. Beyond 3C and PEST, cover jobs to be done, market size, Porter's five forces, regulation, go-to-market, unit economics, technical feasibility, moat, key risks and scenarios. Fill missing information with explicit assumptions and give numbers as ranges with formulas. Use concise Markdown inside the values. Respond in JSON."),
		fmt.Sprintf(`Integrated requirements document: %s

Return the analysis in this format:
{
  "customer_analysis": "market and customer analysis",
  "competitor_analysis": "competitor analysis",
  "company_analysis": "company analysis",
  "pest_analysis": "PEST analysis",
  "summary_and_strategy": "summary and strategic recommendations"
}`, s.ProfessionalRequirementsDoc),
		0.3, 3000)
}

// assessment builds one of the three audits; field is the verdict key of
// the expected JSON object.
func (p prompts) assessment(s *domain.InterviewState, role, field, label string) llm.Request {
	return llm.NewRequest(
		p.system(role+" Respond in JSON."),
		fmt.Sprintf(`Requirements document: %s

External environment analysis:
%s

Return the %s verdict in this format:
{
  "%s": true,
  "reason": "why"
}`, s.ProfessionalRequirementsDoc, analysisDigest(s.ConsultantAnalysisReport), label, field),
		0.3, 0)
}

func (p prompts) profitability(s *domain.InterviewState) llm.Request {
	return p.assessment(s,
		"You are a profitability auditor. From the requirements document and the environment analysis, decide whether a solo developer can run this at a sustained profit. Briefly examine pricing, ARPU, CAC, gross margin, payback period, churn and how realistic the channels are.",
		"is_profitable", "profitability")
}

func (p prompts) feasibility(s *domain.InterviewState) llm.Request {
	return p.assessment(s,
		"You are a feasibility auditor. From the requirements document and the environment analysis, decide whether one person can build and operate this without debt, with realistic effort, cost and technical difficulty. Briefly assess MVP scope, assumed skills, inference cost and latency, operational load and the limits of external APIs.",
		"is_feasible", "feasibility")
}

func (p prompts) legal(s *domain.InterviewState) llm.Request {
	return p.assessment(s,
		"You are a legal and compliance auditor. From the requirements document and the environment analysis, decide whether the product complies with copyright, trademarks, platform terms, privacy, disclosure duties and age restrictions. Answer false if a serious violation is likely.",
		"is_compliant", "legal")
}

func (p prompts) improve(s *domain.InterviewState, reasons []string) llm.Request {
	return llm.NewRequest(
		p.system("You are a senior PM. Given the requirements document, the external environment and the reasons the assessments failed, revise the requirements so a solo developer can realistically win: narrow the MVP, sharpen differentiation, improve profitability or feasibility, or fix legal compliance. Keep what was good and explicitly change risky assumptions. Return a complete revised document in Markdown."),
		fmt.Sprintf(`## Previous requirements document
%s

## Environment highlights
%s

## Failed assessments
%s

## Output: revised requirements document (Markdown)`, s.ProfessionalRequirementsDoc, analysisDigest(s.ConsultantAnalysisReport), strings.Join(reasons, "\n")),
		0.5, 4000)
}

func (p prompts) summaryFromRequirements(requirements string) llm.Request {
	return llm.NewRequest(
		p.system("You are an editor. Write a one-paragraph summary of the requirements document for the development team. Keep the tone neutral and concise, avoid listing proper names and state the purpose, the main user value and the MVP scope."),
		fmt.Sprintf("Requirements document:\n%s\n\n---\nOne-paragraph summary:", requirements),
		0.3, 0)
}

func (p prompts) pitch(s *domain.InterviewState) llm.Request {
	var opinions strings.Builder
	for _, iv := range s.Interviews {
		fmt.Fprintf(&opinions, "Opinion of %q: %s\n", iv.Persona.Name, iv.Answer)
	}
	return llm.NewRequest(
		p.system("You are a student entrepreneur writing an appealing project pitch for university students from the information given. Avoid jargon and write something readers relate to and get excited about."),
		fmt.Sprintf(`Project summary: %s

Interview details:
%s
Write the pitch in this format:

# Project pitch: [a catchy app name]

## "Does this bother you too?" - the problem
> [the problem in students' words]

## "Wouldn't it be great if...?" - our solution
> [the benefit, described emotionally]

## Target users
- **Perfect for:** [one line]

## What the app does (key features)
- **[feature 1]:** [description]
- **[feature 2]:** [description]
- **[feature 3]:** [description]

## The business side (briefly)
- [monetization approach]

## Build it with us
- [call to join or support]`, s.UserRequest, opinions.String()),
		0.7, 2000)
}

func interviewTranscript(interviews []domain.Interview) string {
	var b strings.Builder
	for _, iv := range interviews {
		fmt.Fprintf(&b, "Persona: %s\nQuestion: %s\nAnswer: %s\n", iv.Persona.Name, iv.Question, iv.Answer)
	}
	return b.String()
}

func analysisDigest(a *domain.EnvironmentAnalysis) string {
	if a == nil {
		return ""
	}
	return fmt.Sprintf("- Customers: %s\n- Competitors: %s\n- Company: %s\n- PEST: %s\n- Summary: %s",
		a.CustomerAnalysis, a.CompetitorAnalysis, a.CompanyAnalysis, a.PESTAnalysis, a.SummaryAndStrategy)
}

func bulleted(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "- " + item
	}
	return strings.Join(lines, "\n")
}
