package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

// ListEnvelope is returned by collection reads.
type ListEnvelope struct {
	Data  any `json:"data"`
	Count int `json:"count"`
}

// MutationEnvelope carries a persisted inventory change plus its best-effort side effects.
type MutationEnvelope struct {
	Data     any      `json:"data"`
	Alerts   any      `json:"alerts"`
	Warnings []string `json:"warnings,omitempty"`
}

// SearchEnvelope echoes the normalized search parameters next to ranked results.
type SearchEnvelope struct {
	Success      bool `json:"success"`
	Count        int  `json:"count"`
	SearchParams any  `json:"search_params"`
	Data         any  `json:"data"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
