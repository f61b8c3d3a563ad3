// Package auth defines the caller roles and the capability policy that gates
// every service-layer operation. The store trusts the tutoring front-end, so
// the default policy is permissive: anonymous callers may record and label
// conversations and feedback, while destructive operations require the
// authenticated role. Swapping in a stricter policy only requires a different
// grant table; the services consult Allows and nothing else.
package auth

// Role identifies the trust level of a caller.
type Role string

const (
	// RoleAnonymous is assumed for requests without credentials.
	RoleAnonymous Role = "anonymous"
	// RoleAuthenticated is granted to requests carrying a valid bearer token.
	RoleAuthenticated Role = "authenticated"
)

// Action enumerates the operations the policy can grant or deny.
type Action string

const (
	ActionRecordConversation   Action = "conversation:record"
	ActionReadConversation     Action = "conversation:read"
	ActionSetConversationLabel Action = "conversation:set_label"
	ActionDeleteConversation   Action = "conversation:delete"
	ActionRecordFeedback       Action = "feedback:record"
	ActionReadFeedback         Action = "feedback:read"
	ActionUpdateFeedback       Action = "feedback:update"
	ActionDeleteFeedback       Action = "feedback:delete"
	ActionReadAnalytics        Action = "analytics:read"
)

// Policy maps roles to the actions they may perform. The zero value denies
// everything.
type Policy struct {
	grants map[Role]map[Action]bool
}

// NewPolicy builds a Policy from an explicit grant table.
func NewPolicy(grants map[Role][]Action) Policy {
	p := Policy{grants: make(map[Role]map[Action]bool, len(grants))}
	for role, actions := range grants {
		set := make(map[Action]bool, len(actions))
		for _, a := range actions {
			set[a] = true
		}
		p.grants[role] = set
	}
	return p
}

// DefaultPolicy reproduces the trust model of the tutoring deployment:
// anonymous callers get the full read/write surface minus deletes, and
// authenticated callers additionally get the destructive operations.
func DefaultPolicy() Policy {
	shared := []Action{
		ActionRecordConversation,
		ActionReadConversation,
		ActionSetConversationLabel,
		ActionRecordFeedback,
		ActionReadFeedback,
		ActionUpdateFeedback,
		ActionReadAnalytics,
	}
	elevated := append([]Action{ActionDeleteConversation, ActionDeleteFeedback}, shared...)
	return NewPolicy(map[Role][]Action{
		RoleAnonymous:     shared,
		RoleAuthenticated: elevated,
	})
}

// Allows reports whether role may perform action.
func (p Policy) Allows(role Role, action Action) bool {
	return p.grants[role][action]
}
