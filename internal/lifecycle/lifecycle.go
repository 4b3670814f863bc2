// Package lifecycle is the single authoritative implementation of the task
// state machine. Every caller that moves a task between states goes through
// the transition table defined here; there is no other place in the codebase
// that encodes which role may perform which action in which state.
package lifecycle

import (
	"errors"
	"time"

	"github.com/Aghostraa/abcr-platform/internal/models"
)

// Action identifies a task lifecycle transition as it appears on the wire.
type Action string

const (
	ActionApply              Action = "apply"
	ActionApproveApplication Action = "approve-application"
	ActionMarkDone           Action = "mark-done"
	ActionApproveCompletion  Action = "approve-completion"
)

var (
	// ErrUnknownAction is returned for actions outside the transition table.
	ErrUnknownAction = errors.New("unknown task action")
	// ErrRoleForbidden is returned when the actor's role is not allowed to
	// perform the action.
	ErrRoleForbidden = errors.New("role not allowed for this action")
	// ErrNotApplicable is returned when the state precondition does not hold,
	// detected as a guarded update affecting zero rows.
	ErrNotApplicable = errors.New("transition not applicable to task state")
)

// Transition describes one row of the state machine: the required current
// status, the roles allowed to trigger it, extra row guards, and the fields
// the transition writes. The guards are restated in the WHERE clause of a
// single conditional UPDATE, so two concurrent attempts against the same row
// cannot both succeed.
type Transition struct {
	Action Action
	From   models.TaskStatus
	To     models.TaskStatus

	// Roles allowed to trigger the transition. Empty means any authenticated
	// user; the row guards still apply.
	Roles []models.Role

	// GuardNoApplicant requires the task to have no applicant yet.
	GuardNoApplicant bool
	// GuardApplicantIsActor requires the acting user to be the recorded
	// applicant.
	GuardApplicantIsActor bool

	SuccessMessage string
	FailureMessage string
}

var table = map[Action]Transition{
	ActionApply: {
		Action:           ActionApply,
		From:             models.TaskStatusPending,
		To:               models.TaskStatusApplied,
		Roles:            []models.Role{models.RoleMember, models.RoleManager, models.RoleAdmin},
		GuardNoApplicant: true,
		SuccessMessage:   "Successfully applied for task",
		FailureMessage:   "Error applying for task",
	},
	ActionApproveApplication: {
		Action:         ActionApproveApplication,
		From:           models.TaskStatusApplied,
		To:             models.TaskStatusInProgress,
		Roles:          []models.Role{models.RoleManager, models.RoleAdmin},
		SuccessMessage: "Successfully approved application",
		FailureMessage: "Error approving application",
	},
	ActionMarkDone: {
		Action:                ActionMarkDone,
		From:                  models.TaskStatusInProgress,
		To:                    models.TaskStatusPendingApproval,
		GuardApplicantIsActor: true,
		SuccessMessage:        "Successfully marked task as done",
		FailureMessage:        "Error marking task as done",
	},
	ActionApproveCompletion: {
		Action:         ActionApproveCompletion,
		From:           models.TaskStatusPendingApproval,
		To:             models.TaskStatusCompleted,
		Roles:          []models.Role{models.RoleManager, models.RoleAdmin},
		SuccessMessage: "Successfully approved task completion",
		FailureMessage: "Error approving task completion",
	},
}

// ForAction looks up the transition for an action.
func ForAction(a Action) (Transition, error) {
	t, ok := table[a]
	if !ok {
		return Transition{}, ErrUnknownAction
	}
	return t, nil
}

// Allows reports whether the given role may trigger the transition.
func (t Transition) Allows(role models.Role) bool {
	if len(t.Roles) == 0 {
		return true
	}
	for _, r := range t.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Changes returns the column assignments the transition performs. The actor
// and timestamp are captured here so the repository writes them in the same
// statement that checks the guards.
func (t Transition) Changes(actorID string, now time.Time) map[string]interface{} {
	changes := map[string]interface{}{
		"status": t.To,
	}

	switch t.Action {
	case ActionApply:
		changes["applicant_id"] = actorID
	case ActionMarkDone:
		changes["completed_at"] = now
	case ActionApproveCompletion:
		changes["approved_by"] = actorID
		changes["approved_at"] = now
	}

	return changes
}
