package services

import (
	"testing"

	"jobportal/tasks-service/models"
)

func TestEvaluatePermissions(t *testing.T) {
	tests := []struct {
		name       string
		actorID    string
		createdBy  string
		assignedTo []string
		want       TaskPermissions
	}{
		{
			name:       "creator of unassigned task acts as sole assignee",
			actorID:    "alice",
			createdBy:  "alice",
			assignedTo: nil,
			want: TaskPermissions{
				IsCreator: true, IsAssignee: true, IsSoleOwner: true,
				CanMutateProgressOrComment: true, CanDelete: true,
				CanApproveOrRequestChanges: false, CanSubmitForReview: false,
			},
		},
		{
			name:       "creator assigned only to self is sole owner",
			actorID:    "alice",
			createdBy:  "alice",
			assignedTo: []string{"alice"},
			want: TaskPermissions{
				IsCreator: true, IsAssignee: true, IsSoleOwner: true,
				CanMutateProgressOrComment: true, CanDelete: true,
				CanApproveOrRequestChanges: false, CanSubmitForReview: false,
			},
		},
		{
			name:       "creator of delegated task",
			actorID:    "alice",
			createdBy:  "alice",
			assignedTo: []string{"bob"},
			want: TaskPermissions{
				IsCreator: true, IsAssignee: false, IsSoleOwner: false,
				CanMutateProgressOrComment: true, CanDelete: true,
				CanApproveOrRequestChanges: true, CanSubmitForReview: false,
			},
		},
		{
			name:       "assignee of delegated task",
			actorID:    "bob",
			createdBy:  "alice",
			assignedTo: []string{"bob"},
			want: TaskPermissions{
				IsCreator: false, IsAssignee: true, IsSoleOwner: false,
				CanMutateProgressOrComment: true, CanDelete: false,
				CanApproveOrRequestChanges: false, CanSubmitForReview: true,
			},
		},
		{
			name:       "creator who is also an assignee alongside others",
			actorID:    "alice",
			createdBy:  "alice",
			assignedTo: []string{"alice", "bob"},
			want: TaskPermissions{
				IsCreator: true, IsAssignee: true, IsSoleOwner: false,
				CanMutateProgressOrComment: true, CanDelete: true,
				CanApproveOrRequestChanges: true, CanSubmitForReview: true,
			},
		},
		{
			name:       "bystander has no rights",
			actorID:    "mallory",
			createdBy:  "alice",
			assignedTo: []string{"bob"},
			want:       TaskPermissions{IsSoleOwner: false},
		},
		{
			name:       "bystander on sole-owned task",
			actorID:    "mallory",
			createdBy:  "alice",
			assignedTo: nil,
			want:       TaskPermissions{IsSoleOwner: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := &models.Task{CreatedBy: tt.createdBy, AssignedTo: tt.assignedTo}
			got := EvaluatePermissions(tt.actorID, task)
			if got != tt.want {
				t.Fatalf("EvaluatePermissions() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
