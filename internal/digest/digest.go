package digest

// Digest is the validated structured output of one provider call. Every
// slice is non-nil: keys the provider omits default to empty.
type Digest struct {
	Urgent             []string        `json:"urgent"`
	Decisions          []string        `json:"decisions"`
	Topics             []Topic         `json:"topics"`
	PeopleUpdates      []PersonUpdate  `json:"people_updates"`
	Calendar           []CalendarEvent `json:"calendar"`
	UnansweredMentions []string        `json:"unanswered_mentions"`
}

// Topic summarizes one discussion thread.
type Topic struct {
	Topic        string   `json:"topic"`
	Summary      string   `json:"summary"`
	Participants []string `json:"participants"`
}

// PersonUpdate is a notable update about one person.
type PersonUpdate struct {
	Person string `json:"person"`
	Update string `json:"update"`
}

// CalendarEvent is an upcoming event mentioned in the messages.
type CalendarEvent struct {
	Event string `json:"event"`
	Date  string `json:"date"`
	Time  string `json:"time"`
}

// Empty reports whether the digest has no content in any category.
func (d *Digest) Empty() bool {
	return len(d.Urgent) == 0 &&
		len(d.Decisions) == 0 &&
		len(d.Topics) == 0 &&
		len(d.PeopleUpdates) == 0 &&
		len(d.Calendar) == 0 &&
		len(d.UnansweredMentions) == 0
}
