package telegram

import (
	"strings"

	"github.com/google/uuid"
)

// Decision actions carried in inline button callback data.
const (
	ActionApprove = "accept"
	ActionReject  = "reject"

	// DecisionPrefix starts every decision callback.
	DecisionPrefix = "approval_"
)

// DecisionCallback encodes an action on a user as "approval_<action>_<uuid>".
// The result stays under Telegram's 64-byte callback limit.
func DecisionCallback(action string, userID uuid.UUID) string {
	return DecisionPrefix + action + "_" + userID.String()
}

// ParseDecisionCallback reverses DecisionCallback.
func ParseDecisionCallback(data string) (action string, userID uuid.UUID, ok bool) {
	parts := strings.Split(data, "_")
	if len(parts) != 3 || parts[0]+"_" != DecisionPrefix {
		return "", uuid.Nil, false
	}
	if parts[1] != ActionApprove && parts[1] != ActionReject {
		return "", uuid.Nil, false
	}
	id, err := uuid.Parse(parts[2])
	if err != nil {
		return "", uuid.Nil, false
	}
	return parts[1], id, true
}
