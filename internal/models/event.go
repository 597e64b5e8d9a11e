// ABOUTME: ProgressEvent is the tagged variant streamed while an analysis runs
// ABOUTME: Exactly one terminal event (completed or failed) per run, always last
package models

// EventKind discriminates ProgressEvent variants
type EventKind string

const (
	EventSearching    EventKind = "searching"
	EventSearchResult EventKind = "search_result"
	EventThinking     EventKind = "thinking"
	EventEstimating   EventKind = "estimating"
	EventCompleted    EventKind = "completed"
	EventFailed       EventKind = "failed"
)

// ProgressEvent is one item on the analysis event stream. Only the fields
// for the given Kind are populated.
type ProgressEvent struct {
	Kind       EventKind
	Query      string  // searching, search_result
	MatchCount int     // search_result
	Text       string  // thinking
	FoodName   string  // estimating
	Meals      []Meal  // completed
	Err        error   // failed
}

// Terminal reports whether this event ends the stream
func (e ProgressEvent) Terminal() bool {
	return e.Kind == EventCompleted || e.Kind == EventFailed
}

func SearchingEvent(query string) ProgressEvent {
	return ProgressEvent{Kind: EventSearching, Query: query}
}

func SearchResultEvent(query string, matchCount int) ProgressEvent {
	return ProgressEvent{Kind: EventSearchResult, Query: query, MatchCount: matchCount}
}

func ThinkingEvent(text string) ProgressEvent {
	return ProgressEvent{Kind: EventThinking, Text: text}
}

func EstimatingEvent(foodName string) ProgressEvent {
	return ProgressEvent{Kind: EventEstimating, FoodName: foodName}
}

func CompletedEvent(meals []Meal) ProgressEvent {
	return ProgressEvent{Kind: EventCompleted, Meals: meals}
}

func FailedEvent(err error) ProgressEvent {
	return ProgressEvent{Kind: EventFailed, Err: err}
}
