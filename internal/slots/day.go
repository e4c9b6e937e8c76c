package slots

// Day is the generated availability for one calendar date, the unit the
// slot cache stores. Closed days carry an empty Slots list.
type Day struct {
	Date   string `json:"date"` // "2006-01-02"
	Closed bool   `json:"closed"`
	Slots  []Slot `json:"slots"`
}
