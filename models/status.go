package models

import "encoding/json"

// StatusKind identifies a known IPO lifecycle stage.
// StatusUnclassified marks feed text that did not match any known stage.
type StatusKind int

const (
	StatusUnclassified StatusKind = iota
	StatusUpcoming
	StatusOpen
	StatusClosed
	StatusAllotmentOut
	StatusListed
)

var statusLabels = map[StatusKind]string{
	StatusUpcoming:     "Upcoming",
	StatusOpen:         "Open",
	StatusClosed:       "Closed",
	StatusAllotmentOut: "Allotment Out",
	StatusListed:       "Listed",
}

// Status is either one of the known stages or the raw text it was read from.
type Status struct {
	Kind StatusKind
	Raw  string
}

// KnownStatus returns the Status for a known stage.
func KnownStatus(kind StatusKind) Status {
	return Status{Kind: kind}
}

// RawStatus returns a pass-through Status carrying unrecognized text verbatim.
func RawStatus(raw string) Status {
	return Status{Kind: StatusUnclassified, Raw: raw}
}

// IsKnown reports whether the status is one of the closed set of stages.
func (s Status) IsKnown() bool {
	return s.Kind != StatusUnclassified
}

// String returns the display label of a known stage, or the raw text otherwise.
func (s Status) String() string {
	if label, ok := statusLabels[s.Kind]; ok {
		return label
	}
	return s.Raw
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts a display label; anything else becomes a raw status.
func (s *Status) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return err
	}
	for kind, label := range statusLabels {
		if label == text {
			*s = KnownStatus(kind)
			return nil
		}
	}
	*s = RawStatus(text)
	return nil
}
