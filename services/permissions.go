package services

import "jobportal/tasks-service/models"

// TaskPermissions is an actor's computed relationship to a task and the
// actions that relationship authorizes. It is derived from current task
// state plus the actor identity and has no side effects.
type TaskPermissions struct {
	IsCreator  bool
	IsAssignee bool
	// IsSoleOwner is true when the task has no assignees other than its
	// creator. A sole-owned task skips the review gate entirely.
	IsSoleOwner bool

	CanMutateProgressOrComment bool
	CanDelete                  bool
	CanApproveOrRequestChanges bool
	CanSubmitForReview         bool
}

// EvaluatePermissions classifies the actor against the task. Creator and
// Assignee are not exclusive; an actor can be both. A task with an empty
// assignee set is owned entirely by its creator, who then behaves as the
// sole assignee for authorization purposes.
func EvaluatePermissions(actorID string, task *models.Task) TaskPermissions {
	p := TaskPermissions{
		IsCreator:  task.CreatedBy == actorID,
		IsAssignee: task.IsAssigned(actorID),
	}

	p.IsSoleOwner = true
	for _, id := range task.AssignedTo {
		if id != task.CreatedBy {
			p.IsSoleOwner = false
			break
		}
	}

	if p.IsCreator && len(task.AssignedTo) == 0 {
		p.IsAssignee = true
	}

	p.CanMutateProgressOrComment = p.IsCreator || p.IsAssignee
	p.CanDelete = p.IsCreator
	p.CanApproveOrRequestChanges = p.IsCreator && !p.IsSoleOwner
	p.CanSubmitForReview = p.IsAssignee && !p.IsSoleOwner

	return p
}
