package domain

import "strings"

const (
	SystemEntity = "system"
	ViewEntity   = "view"

	TopicSystemConnected = SystemEntity + ".connected"
	TopicSystemPong      = SystemEntity + ".pong"
	TopicSystemError     = SystemEntity + ".error"
	TopicViewState       = ViewEntity + ".state"
	TopicViewRedirect    = ViewEntity + ".redirect"

	ActionConnected = "connected"
	ActionPong      = "pong"
	ActionError     = "error"
	ActionState     = "state"
	ActionRedirect  = "redirect"
	ActionCreated   = "created"
	ActionUpdated   = "updated"
	ActionDeleted   = "deleted"
)

// ChangedTopic returns the websocket topic announcing a change to a collection.
func ChangedTopic(collection Collection, action string) string {
	return buildEntityTopic(string(collection), action)
}

func buildEntityTopic(entity, action string) string {
	cleanEntity := strings.TrimSpace(entity)
	cleanAction := strings.TrimSpace(action)
	if cleanEntity == "" || cleanAction == "" {
		return ""
	}
	return cleanEntity + "." + cleanAction
}
