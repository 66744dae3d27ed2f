package workflow

// Event is one update produced while the research graph runs. It is exactly one of
// PlanEvent, InterruptEvent, SectionEvent, FinalReportEvent or UnknownEvent.
type Event interface {
	isEvent()
}

// PlanEvent carries a freshly generated report plan.
type PlanEvent struct {
	Sections []Section
}

// InterruptEvent is emitted when the run pauses for review. Value is the review message, the
// formatted plan followed by ReviewQuestion.
type InterruptEvent struct {
	Value any
}

// SectionEvent carries a finished report section.
type SectionEvent struct {
	Section Section
}

// FinalReportEvent carries the compiled report.
type FinalReportEvent struct {
	Report string
}

// UnknownEvent is an update with no typed payload. Consumers display it raw.
type UnknownEvent struct {
	Node    string
	Payload any
}

func (PlanEvent) isEvent()        {}
func (InterruptEvent) isEvent()   {}
func (SectionEvent) isEvent()     {}
func (FinalReportEvent) isEvent() {}
func (UnknownEvent) isEvent()     {}
