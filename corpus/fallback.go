package corpus

import "lexresearch-backend/models"

var fallbackRecords = []models.RawRecord{
	{
		"id":           "fallback_case_001",
		"title":        "Model Contract Performance Guidance",
		"citation":     "Model Contract Guidance (Fallback)",
		"jurisdiction": "Model Jurisdiction",
		"year":         2021,
		"summary":      "Illustrative precedent emphasizing measurable performance metrics for technology contracts.",
		"facts":        "A public agency disputed performance metrics in a technology rollout lacking objective acceptance criteria.",
		"holding":      "The tribunal required objective measurements and documentation to enforce milestone obligations.",
		"analysis":     "Clear milestone definitions, shared dashboards, and acceptance testing mitigate ambiguity.",
		"issues": []interface{}{
			"Ambiguous performance clauses",
			"Objective milestone documentation",
		},
		"statutes":            []interface{}{"Model Procurement Code 4.1"},
		"tags":                []interface{}{"contract", "technology", "performance"},
		"precedent_direction": "supports_claim",
		"outcome":             "Supports agencies enforcing measurable contractual obligations.",
		"related_cases":       []interface{}{},
	},
	{
		"id":                  "fallback_case_002",
		"title":               "Illustrative Data Privacy Enforcement",
		"citation":            "Illustrative Privacy Enforcement (Fallback)",
		"jurisdiction":        "Model Regulatory Authority",
		"year":                2020,
		"summary":             "Illustrative enforcement highlights need for consent specificity and audit tracing in automated processing.",
		"facts":               "A multinational processed personal data for automated scoring without tracking consent scope.",
		"holding":             "Regulators fined the controller for inadequate consent records and DPIA documentation.",
		"analysis":            "Shared governance with vendors, auditable pipelines, and responsive DPIAs are essential.",
		"issues":              []interface{}{"Consent management", "AI governance"},
		"statutes":            []interface{}{"Model Privacy Act 12.3"},
		"tags":                []interface{}{"privacy", "compliance", "automation"},
		"precedent_direction": "cautionary",
		"outcome":             "Warns enterprises about shared responsibility for automated data processing.",
		"related_cases":       []interface{}{},
	},
}

// FallbackAuthorities returns the built-in corpus used when no source yields records
func FallbackAuthorities() []*models.Authority {
	out := make([]*models.Authority, 0, len(fallbackRecords))
	for _, raw := range fallbackRecords {
		out = append(out, Normalize(raw))
	}
	return out
}
