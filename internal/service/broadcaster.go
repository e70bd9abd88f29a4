package service

// Session event names, as seen by websocket subscribers
const (
	EventSessionStarted    = "session_started"
	EventSessionAnswered   = "session_answered"
	EventAnalysisCompleted = "analysis_completed"
	EventAnalysisFailed    = "analysis_failed"
)

// Publisher fans session events out to listeners (avoids import cycle)
type Publisher interface {
	Publish(sessionID string, event string, payload interface{})
}

// Publishers sends every event to each publisher in turn
type Publishers []Publisher

func (ps Publishers) Publish(sessionID string, event string, payload interface{}) {
	for _, p := range ps {
		if p != nil {
			p.Publish(sessionID, event, payload)
		}
	}
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, string, interface{}) {}
