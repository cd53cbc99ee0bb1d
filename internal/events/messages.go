package events

import (
	"encoding/json"
	"time"
)

// Actions carried by expense events.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// ExpenseEvent notifies interested consumers that an expense changed.
// It carries only the id and action; consumers fetch current state from the
// database if they need it.
type ExpenseEvent struct {
	ExpenseID string    `json:"expenseId"`
	Action    string    `json:"action"`
	UserID    string    `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
}

func NewExpenseEvent(expenseID, action, userID string) *ExpenseEvent {
	return &ExpenseEvent{
		ExpenseID: expenseID,
		Action:    action,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
	}
}

func (e *ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func ExpenseEventFromJSON(data []byte) (*ExpenseEvent, error) {
	var ev ExpenseEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
