package models

import (
	"encoding/json"
	"strings"
)

// Placeholder used for gmp and subscription when the source has no data.
const NotAvailable = "N/A"

// RecordSource tags where an IPO record came from. It is used for labeling only.
type RecordSource string

const (
	SourceAI    RecordSource = "AI"
	SourceSheet RecordSource = "Sheet"
)

// IPORecord is a single IPO as held in the working collection.
// Records are never mutated after ingestion; a refresh replaces the whole snapshot.
type IPORecord struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Registrar     string       `json:"registrar"`
	Status        Status       `json:"status"`
	GMP           string       `json:"gmp"`
	Subscription  string       `json:"subscription"`
	AllotmentDate string       `json:"allotment_date,omitempty"`
	RegistrarURL  string       `json:"registrar_url,omitempty"`
	Source        RecordSource `json:"source"`
}

// GMPPositive reports whether the grey market premium should be shown as a gain.
// Only the presence of a minus sign is interpreted.
func (r *IPORecord) GMPPositive() bool {
	return !strings.Contains(r.GMP, "-")
}

// MarshalJSON adds the derived gmp_positive flag for the front end.
func (r IPORecord) MarshalJSON() ([]byte, error) {
	type plain IPORecord
	return json.Marshal(struct {
		plain
		GMPPositive bool `json:"gmp_positive"`
	}{plain: plain(r), GMPPositive: r.GMPPositive()})
}
