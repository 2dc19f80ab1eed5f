package service

import (
	"fmt"
	"strings"
)

// template bodies are chosen by keywords in the lower-cased query
type bodyTemplate struct {
	name    string
	matches func(q string) bool
	body    string
}

var bodyTemplates = []bodyTemplate{
	{
		name:    "liability_service",
		matches: func(q string) bool { return strings.Contains(q, "liability") && strings.Contains(q, "service") },
		body:    liabilityServiceBody,
	},
	{
		name:    "family",
		matches: func(q string) bool { return containsAny(q, "marriage", "marital", "divorce", "family") },
		body:    familyBody,
	},
	{
		name:    "employment",
		matches: func(q string) bool { return containsAny(q, "employment", "termination", "workplace") },
		body:    employmentBody,
	},
}

// TemplateBody returns the fallback report body for query
func TemplateBody(query string) string {
	return templateBody(query).body
}

// TemplateName names the template TemplateBody would pick
func TemplateName(query string) string {
	return templateBody(query).name
}

func templateBody(query string) bodyTemplate {
	lowered := strings.ToLower(query)
	for _, t := range bodyTemplates {
		if t.matches(lowered) {
			return t
		}
	}
	return bodyTemplate{name: "generic", body: fmt.Sprintf(genericBody, query)}
}

func containsAny(s string, terms ...string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

const liabilityServiceBody = `EXECUTIVE SUMMARY:
This analysis examines liability limitations in service agreements, covering enforceability, risk allocation, and compliance expectations.

LIMITATION OF LIABILITY:
- Caps are generally enforceable between commercial parties when conspicuous and negotiated.
- Carve-outs for gross negligence, wilful misconduct, and fraud are expected and often mandatory.
- Consequential and indirect damage waivers need explicit, plain drafting.
- Caps tied to fees paid should state the measurement period.

KEY LEGAL PRINCIPLES:
- The standard of care and implied warranties shape what a cap can exclude.
- Indemnities should allocate third-party claims separately from the general cap.
- Force majeure and disclosure duties narrow or widen the effective exposure.

RELEVANT LEGAL CONSIDERATIONS:
- Public-policy limits on caps differ by jurisdiction.
- Sector rules may require insurance or prohibit caps for certain harms.
- Unequal bargaining power invites scrutiny of standard-form terms.
- Statutory consumer protections override contractual limits.

RISK ASSESSMENT:
- High: no cap, or a cap likely void for public policy.
- Medium: caps without carve-outs or unsupported by insurance.
- Low: balanced caps with clear exceptions, insurance, and disclosures.

COMPLIANCE REQUIREMENTS:
- Align clauses with regulatory and industry guidance.
- Keep documented risk disclosures and continuity plans.
- Confirm insurance certificates match the contractual allocation.

PRACTICAL RECOMMENDATIONS:
1. Define measurable service levels and acceptance criteria.
2. Pair caps with mitigation duties and insurance evidence.
3. Review counterparties' operational risk disclosures.
4. Escalate high-risk services for legal review before signature.

CASE LAW REFERENCES:
- Authorities upholding balanced caps that preserve statutory carve-outs.
- Decisions voiding caps for nondisclosure or unconscionability.

NEXT STEPS:
1. Inventory liability provisions across existing service agreements.
2. Benchmark clause language against current guidance.
3. Update negotiation playbooks with disclosure and insurance checkpoints.`

const familyBody = `EXECUTIVE SUMMARY:
This analysis reviews family law procedure for marriage validity, divorce, custody, and support.

KEY LEGAL PRINCIPLES:
- Capacity, consent, and formalities determine whether a marriage is valid.
- Divorce grounds range from no-fault to fault-based standards by jurisdiction.
- Property divides under community-property or equitable-distribution rules.
- Custody follows a best-interests standard; child support follows guideline formulas.

RELEVANT LEGAL CONSIDERATIONS:
- Residency, filing, and waiting-period prerequisites.
- Full disclosure of marital assets and debts.
- Enforceability of prenuptial and postnuptial agreements.
- Mediation and parenting-plan requirements.

RISK ASSESSMENT:
- High: contested matters with complex or cross-border assets.
- Medium: disputed custody or support modifications.
- Low: uncontested matters with complete disclosures.

COMPLIANCE REQUIREMENTS:
- File petitions and financial statements in the form local rules require.
- Attend court-ordered mediation where applicable.
- Register final orders in other jurisdictions when needed.

PRACTICAL RECOMMENDATIONS:
1. Confirm jurisdiction before filing.
2. Gather financial records early.
3. Consider alternative dispute resolution.
4. Tailor parenting plans to the statutory custody factors.

CASE LAW REFERENCES:
- Leading decisions on custody, support, and property distribution.
- Authorities on enforcing marital agreements.

NEXT STEPS:
1. Map procedural timelines and waiting periods.
2. Arrange valuations for significant assets.
3. Prepare proposed orders that follow local rules.`

const employmentBody = `EXECUTIVE SUMMARY:
This analysis reviews employment termination law, with attention to discrimination risk, process fairness, and automated decision safeguards.

KEY LEGAL PRINCIPLES:
- At-will employment can be limited by contract, handbook, or statute.
- Terminations may not rest on protected characteristics or protected activity.
- Automated employment decisions carry validation and bias-audit duties.
- Group terminations can trigger advance-notice statutes.

RELEVANT LEGAL CONSIDERATIONS:
- Federal anti-discrimination, leave, and labor statutes.
- State wrongful-termination and privacy claims.
- Collective agreements requiring progressive discipline.
- Documentation standards for performance management.

RISK ASSESSMENT:
- High: undocumented terminations involving protected classes.
- Medium: reductions in force without disparate-impact review.
- Low: documented decisions with legal review and appeal rights.

COMPLIANCE REQUIREMENTS:
- Keep complete personnel files and reviews.
- Pay final wages and send benefit notices on time.
- Validate scoring tools and retain audit trails.

PRACTICAL RECOMMENDATIONS:
1. Use a termination checklist with legal sign-off.
2. Run disparate-impact analysis before group actions.
3. Offer review of automated scoring outcomes.
4. Preserve relevant communications for possible litigation holds.

CASE LAW REFERENCES:
- Burden-shifting and wrongful termination authorities.
- Recent enforcement involving automated hiring or firing tools.

NEXT STEPS:
1. Audit termination policies against recent statutory changes.
2. Update governance for HR analytics tools.
3. Engage employment counsel for high-risk separations.`

const genericBody = `EXECUTIVE SUMMARY:
This analysis gives a structured review of the legal issues raised by %q, combining statutory, regulatory, and precedent-based insight.

KEY LEGAL PRINCIPLES:
- Identify the governing statutes, regulations, and doctrinal tests.
- Separate mandatory from persuasive authority across jurisdictions.
- Note industry standards or guidance where they apply.

RELEVANT LEGAL CONSIDERATIONS:
- Jurisdictional scope and conflict-of-laws questions.
- Procedural posture, burdens of proof, and limitation periods.
- Obligations owed to counterparties, regulators, and consumers.

RISK ASSESSMENT:
- Classify regulatory, civil liability, and operational risk.
- Record aggravating or mitigating factors drawn from precedent.
- Flag data gaps that limit confidence.

COMPLIANCE REQUIREMENTS:
- Map obligations to the functions responsible for them.
- List required documentation, reporting, and audit steps.
- Set monitoring requirements and escalation triggers.

PRACTICAL RECOMMENDATIONS:
1. Gather the facts needed to close identified gaps.
2. Align internal controls with the applicable framework.
3. Involve subject-matter experts for high-risk elements.
4. Establish an ongoing review cadence.

CASE LAW REFERENCES:
- Summarise the most relevant authorities with short parentheticals.
- Separate supporting from contrasting precedent.

NEXT STEPS:
1. Validate assumptions with the client.
2. Prioritise remediation by severity and deadline.
3. Schedule a follow-up review once more facts are available.`
