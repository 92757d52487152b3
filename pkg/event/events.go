package event

// Event names.
const (
	ChatTurnCompleted          = "chat.turnCompleted"
	ConversationSummaryUpdated = "conversation.summaryUpdated"
	GoalCreated                = "goal.created"
	GoalLogged                 = "goal.logged"
	ConfigChanged              = "system.configChanged"
)

// ChatTurnCompletedEvent fires after an assistant reply has been persisted,
// whether it came from the model or the fallback coach. The summarizer
// subscribes to it.
type ChatTurnCompletedEvent struct {
	UserID         string `json:"user_id"`
	ConversationID string `json:"conversation_id"`
	Language       string `json:"language"`
	Tone           string `json:"tone"`
	Fallback       bool   `json:"fallback"`
}

func (e ChatTurnCompletedEvent) EventName() string   { return ChatTurnCompleted }
func (e ChatTurnCompletedEvent) EventUserID() string { return e.UserID }

// ConversationSummaryUpdatedEvent fires after the long-term summary of a
// conversation has been rewritten.
type ConversationSummaryUpdatedEvent struct {
	UserID         string `json:"user_id"`
	ConversationID string `json:"conversation_id"`
}

func (e ConversationSummaryUpdatedEvent) EventName() string   { return ConversationSummaryUpdated }
func (e ConversationSummaryUpdatedEvent) EventUserID() string { return e.UserID }

// GoalCreatedEvent fires when a user registers a new goal.
type GoalCreatedEvent struct {
	UserID string `json:"user_id"`
	GoalID string `json:"goal_id"`
}

func (e GoalCreatedEvent) EventName() string   { return GoalCreated }
func (e GoalCreatedEvent) EventUserID() string { return e.UserID }

// GoalLoggedEvent fires when a daily completion is recorded.
type GoalLoggedEvent struct {
	UserID    string `json:"user_id"`
	GoalID    string `json:"goal_id"`
	LogDate   string `json:"log_date"`
	Completed bool   `json:"completed"`
}

func (e GoalLoggedEvent) EventName() string   { return GoalLogged }
func (e GoalLoggedEvent) EventUserID() string { return e.UserID }

// ConfigChangedEvent fires when admin AI settings are updated.
type ConfigChangedEvent struct {
	Keys []string `json:"keys"`
}

func (e ConfigChangedEvent) EventName() string { return ConfigChanged }
