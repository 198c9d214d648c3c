package models

// ProjectionName identifies one of the derived task subsets an actor can
// request for their own board.
type ProjectionName string

const (
	ProjectionNotStarted       ProjectionName = "notStarted"
	ProjectionInProgress       ProjectionName = "inProgress"
	ProjectionReview           ProjectionName = "review"
	ProjectionCompleted        ProjectionName = "completed"
	ProjectionCreatedByMe      ProjectionName = "createdByMe"
	ProjectionAssignedToMe     ProjectionName = "assignedToMe"
	ProjectionAssignedToOthers ProjectionName = "assignedToOthers"
)

func (p ProjectionName) Valid() bool {
	switch p {
	case ProjectionNotStarted, ProjectionInProgress, ProjectionReview,
		ProjectionCompleted, ProjectionCreatedByMe, ProjectionAssignedToMe,
		ProjectionAssignedToOthers:
		return true
	}
	return false
}

// ReadOnlyBoard is the view of another actor's board. It exposes no
// mutation operations, only the read projections for that actor.
type ReadOnlyBoard struct {
	UserID           string `json:"userId"`
	NotStarted       []Task `json:"notStarted"`
	InProgress       []Task `json:"inProgress"`
	Completed        []Task `json:"completed"`
	AssignedToUser   []Task `json:"assignedToUser"`
	AssignedToOthers []Task `json:"assignedToOthers"`
}
