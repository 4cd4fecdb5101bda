// Package prompt renders bail eligibility instructions for the completion model.
package prompt

import (
	"fmt"
	"strings"

	"bailbridge-backend/models"

	"github.com/rotisserie/eris"
)

// Revision selects a prompt template
type Revision string

const (
	// RevisionShort asks for a qualitative analysis ending in one percentage estimate
	RevisionShort Revision = "short"
	// RevisionDetailed asks for nine labeled sections opening with a decision label
	RevisionDetailed Revision = "detailed"
)

// Decision labels the detailed revision requires the response to open with
const (
	DecisionLikelyGranted = "BAIL LIKELY GRANTED"
	DecisionLikelyDenied  = "BAIL LIKELY DENIED"
	DecisionUncertain     = "BAIL UNCERTAIN"
)

// ParseRevision parses a configured revision name
func ParseRevision(s string) (Revision, error) {
	switch Revision(strings.ToLower(strings.TrimSpace(s))) {
	case RevisionShort, "":
		return RevisionShort, nil
	case RevisionDetailed:
		return RevisionDetailed, nil
	default:
		return "", eris.Errorf("prompt: unknown revision %q", s)
	}
}

// MatchLimit is the number of reference rows the revision embeds
func (r Revision) MatchLimit() int {
	if r == RevisionDetailed {
		return 10
	}
	return 5
}

// Build renders the revision's template with the case facts and the
// newline-joined reference excerpt. An empty excerpt is accepted.
func Build(rev Revision, facts models.CaseFacts, excerpt string) string {
	details := caseDetails(facts)
	if rev == RevisionDetailed {
		return fmt.Sprintf(detailedTemplate, details, excerpt,
			DecisionLikelyGranted, DecisionLikelyDenied, DecisionUncertain)
	}
	return fmt.Sprintf(shortTemplate, details, excerpt)
}

// caseDetails renders the labeled fact lines shared by both revisions
func caseDetails(f models.CaseFacts) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- Name: %s\n", f.Name)
	fmt.Fprintf(&b, "- Age: %d\n", f.Age)
	fmt.Fprintf(&b, "- Gender: %s\n", f.Gender)
	fmt.Fprintf(&b, "- Offense Type: %s\n", f.OffenseType)
	fmt.Fprintf(&b, "- Section Number: %s\n", f.SectionNumber)
	fmt.Fprintf(&b, "- Prior Convictions: %s\n", yesNo(f.PriorConvictions))
	fmt.Fprintf(&b, "- Employment Status: %s\n", f.EmploymentStatus)
	fmt.Fprintf(&b, "- Family Ties: %s\n", f.FamilyTies)
	fmt.Fprintf(&b, "- Criminal History: %s", f.CriminalHistory)
	if f.HasAdditionalDetails() {
		fmt.Fprintf(&b, "\n- Additional Details: %s", f.AdditionalDetails)
	}
	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

const shortTemplate = `You are an expert legal AI assistant specializing in Indian criminal law and bail applications under the Bharatiya Nyaya Sanhita (BNS), 2023.

Based on the following case details, provide a comprehensive bail eligibility analysis:

**Case Details:**
%s

**Relevant BNS Sections:**
%s

Please provide a detailed analysis including:
1. **Bail Eligibility Assessment**: Determine if the accused is likely eligible for bail based on the offense type, section, and case details.
2. **Legal Reasoning**: Explain the legal grounds supporting or opposing bail under BNS provisions.
3. **Risk Factors**: Identify any factors that might affect bail (flight risk, evidence tampering, etc.).
4. **Recommendations**: Suggest conditions that might be imposed if bail is granted.
5. **Precedents**: Mention any relevant legal principles or precedents that apply.
6. **Overall Likelihood**: Provide a percentage likelihood of bail being granted (e.g., 65%% likely).

Format your response in a clear, structured manner suitable for legal professionals and defendants.`

const detailedTemplate = `You are a senior criminal law expert advising on bail applications under the Bharatiya Nyaya Sanhita (BNS), 2023 and the Bharatiya Nagarik Suraksha Sanhita (BNSS), 2023.

Analyze the case below and produce a structured bail eligibility report.

**Case Details:**
%s

**Relevant BNS Sections:**
%s

**Response Requirements:**
The very first line of your response MUST be exactly one of the following decision labels, with nothing before it:
- %s
- %s
- %s

After the decision label, provide the following nine sections, each with its heading:

1. **Decision**: Restate the decision label and give a one-paragraph summary of why.
2. **Offense Classification**: State whether the offense is bailable or non-bailable, cognizable or non-cognizable, and which court tries it.
3. **Legal Grounds**: Under separate sub-headings, list the statutory provisions and facts For Bail and Against Bail.
4. **Risk Assessment**: Rate each of the following as Low, Medium or High with one sentence of justification:
   - Flight Risk
   - Risk of Evidence Tampering
   - Risk of Witness Influence
   - Risk of Re-offending
5. **Recommended Bail Conditions**: Conditions a court is likely to impose if bail is granted (surety, reporting, travel restrictions, etc.).
6. **Relevant Precedents**: Legal principles and leading precedents on bail that apply to these facts.
7. **Legal Reasoning**: One cohesive paragraph weighing the factors above and explaining the decision.
8. **Alternative Remedies**: Options if bail is refused (anticipatory bail, interim bail, revision, approaching the High Court, etc.).
9. **Process Timeline**: The expected steps and typical durations from filing the application to a decision.

Use clear headings and plain language suitable for legal professionals and defendants. Do not invent facts that are not in the case details.`
