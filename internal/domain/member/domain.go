package member

// Status is the lifecycle state of a group membership. Only active
// memberships are eligibility-scan candidates.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusPending  Status = "pending"
)

// Member is a (user, group) pairing annotated with the group's display name.
// Owned by the group-membership store; read-only to this engine.
type Member struct {
	UserID    string `json:"user_id"`
	GroupID   string `json:"group_id"`
	GroupName string `json:"group_name"`
}
