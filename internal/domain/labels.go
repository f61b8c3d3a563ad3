package domain

// FeedbackLabel is the closed vocabulary of feedback values a student can
// attach to a tutoring exchange. The same three labels are used both for the
// denormalized column on conversations and for standalone feedback rows.
type FeedbackLabel string

const (
	// FeedbackHelpful marks the response as having answered the question.
	FeedbackHelpful FeedbackLabel = "helpful"
	// FeedbackNotHelpful marks the response as having missed the question.
	FeedbackNotHelpful FeedbackLabel = "not_helpful"
	// FeedbackPartiallyHelpful marks the response as incomplete but useful.
	FeedbackPartiallyHelpful FeedbackLabel = "partially_helpful"
)

// FeedbackLabels returns all accepted labels in a stable order.
func FeedbackLabels() []FeedbackLabel {
	return []FeedbackLabel{FeedbackHelpful, FeedbackNotHelpful, FeedbackPartiallyHelpful}
}

// Valid reports whether l is one of the accepted labels. The comparison is
// exact; callers normalize whitespace and case before validating.
func (l FeedbackLabel) Valid() bool {
	switch l {
	case FeedbackHelpful, FeedbackNotHelpful, FeedbackPartiallyHelpful:
		return true
	}
	return false
}

// String implements fmt.Stringer.
func (l FeedbackLabel) String() string { return string(l) }
