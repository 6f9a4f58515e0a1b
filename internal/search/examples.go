package search

import "encoding/json"

// Example is a named structured search used in documentation and the
// gateway's search examples endpoint.
type Example struct {
	Name   string
	Search Structured
}

// Examples lists the canonical structured searches.
var Examples = []Example{
	{"simple", mustStructured(`{"status":"active","environment":"production"}`)},
	{"complex", mustStructured(`{"status":"active","user_name":{"admin":"OR","root":"OR"},"environment":"production"}`)},
	{"mixed", mustStructured(`{"status":"active","user_name":{"admin":"OR","root":"OR","serviceuser":"OR"},"environment":"production","cpu_count":"8"}`)},
	{"withComparison", mustStructured(`{"status":"active","cpu_count":{"8":{"op":">","logical":"OR"},"16":{"op":"<=","logical":"OR"}},"memory_gb":{"32":{"op":">=","logical":"OR"}}}`)},
	{"mixedOperators", mustStructured(`{"status":{"active":"OR","maintenance":{"op":"!=","logical":"OR"}},"host_name":{"web":{"op":"LIKE","logical":"OR"},"api":{"op":"LIKE","logical":"OR"}}}`)},
}

func mustStructured(raw string) Structured {
	var s Structured
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		panic(err)
	}
	return s
}
