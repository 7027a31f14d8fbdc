package controller

import (
	"context"
	"fmt"

	"github.com/gartstein/employee-tracker/internal/tracker/db"
	e "github.com/gartstein/employee-tracker/internal/tracker/errors"
	"github.com/gartstein/employee-tracker/internal/tracker/events"
	"github.com/gartstein/employee-tracker/internal/tracker/models"
	"go.uber.org/zap"
)

// reassignment describes how one kind of blocked delete is resolved.
type reassignment struct {
	op             string
	entity         string
	deleted        events.EventType
	childEntity    string
	childUpdated   events.EventType
	targetOptional bool
	apply          func(ctx context.Context, tx *db.Repository, r models.Reassignment) error
	remove         func(ctx context.Context, tx *db.Repository, id uint) (models.DeleteResult, error)
}

// ReassignAndDeleteDepartment moves every listed role to its new department
// and deletes the department, all in one transaction.
func (s *Service) ReassignAndDeleteDepartment(ctx context.Context, req models.ReassignAndDeleteRequest) (models.DeleteResult, error) {
	return s.reassignAndDelete(ctx, req, reassignment{
		op:           "reassign roles and delete department",
		entity:       entityDepartment,
		deleted:      events.DepartmentDeleted,
		childEntity:  entityRole,
		childUpdated: events.RoleUpdated,
		apply: func(ctx context.Context, tx *db.Repository, r models.Reassignment) error {
			if _, err := tx.GetDepartment(ctx, *r.TargetID); err != nil {
				return err
			}
			return tx.UpdateRoleDepartment(ctx, r.DependentID, *r.TargetID)
		},
		remove: func(ctx context.Context, tx *db.Repository, id uint) (models.DeleteResult, error) {
			return tx.DeleteDepartment(ctx, id)
		},
	})
}

// ReassignAndDeleteRole moves every listed employee to its new role and
// deletes the role, all in one transaction.
func (s *Service) ReassignAndDeleteRole(ctx context.Context, req models.ReassignAndDeleteRequest) (models.DeleteResult, error) {
	return s.reassignAndDelete(ctx, req, reassignment{
		op:           "reassign employees and delete role",
		entity:       entityRole,
		deleted:      events.RoleDeleted,
		childEntity:  entityEmployee,
		childUpdated: events.EmployeeUpdated,
		apply: func(ctx context.Context, tx *db.Repository, r models.Reassignment) error {
			if _, err := tx.GetRole(ctx, *r.TargetID); err != nil {
				return err
			}
			return tx.UpdateEmployeeRole(ctx, r.DependentID, *r.TargetID)
		},
		remove: func(ctx context.Context, tx *db.Repository, id uint) (models.DeleteResult, error) {
			return tx.DeleteRole(ctx, id)
		},
	})
}

// ReassignAndDeleteEmployee points every listed direct report at its new
// manager (nil clears it) and deletes the employee, all in one transaction.
func (s *Service) ReassignAndDeleteEmployee(ctx context.Context, req models.ReassignAndDeleteRequest) (models.DeleteResult, error) {
	return s.reassignAndDelete(ctx, req, reassignment{
		op:             "reassign reports and delete employee",
		entity:         entityEmployee,
		deleted:        events.EmployeeDeleted,
		childEntity:    entityEmployee,
		childUpdated:   events.EmployeeUpdated,
		targetOptional: true,
		apply: func(ctx context.Context, tx *db.Repository, r models.Reassignment) error {
			if r.TargetID != nil {
				if _, err := tx.GetEmployee(ctx, *r.TargetID); err != nil {
					return err
				}
			}
			return tx.UpdateEmployeeManager(ctx, r.DependentID, r.TargetID)
		},
		remove: func(ctx context.Context, tx *db.Repository, id uint) (models.DeleteResult, error) {
			return tx.DeleteEmployee(ctx, id)
		},
	})
}

func (s *Service) reassignAndDelete(ctx context.Context, req models.ReassignAndDeleteRequest, plan reassignment) (models.DeleteResult, error) {
	if err := s.check(req); err != nil {
		return models.DeleteResult{}, err
	}
	for _, r := range req.Reassignments {
		if r.TargetID == nil {
			if !plan.targetOptional {
				return models.DeleteResult{}, fmt.Errorf("%w: %s %d needs a new %s", e.ErrInvalidInput, plan.childEntity, r.DependentID, plan.entity)
			}
			continue
		}
		if *r.TargetID == req.TargetID {
			return models.DeleteResult{}, fmt.Errorf("%w: cannot reassign to the %s being deleted", e.ErrInvalidInput, plan.entity)
		}
	}

	var result models.DeleteResult
	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		for _, r := range req.Reassignments {
			if err := plan.apply(ctx, tx, r); err != nil {
				return err
			}
		}
		var err error
		result, err = plan.remove(ctx, tx, req.TargetID)
		if err != nil {
			return err
		}
		return result.Err()
	})
	if err != nil {
		s.logger.Warn("reassignment rolled back",
			zap.String("op", plan.op),
			zap.Uint("target_id", req.TargetID),
			zap.Int("reassignments", len(req.Reassignments)),
			zap.Error(err),
		)
		return models.DeleteResult{}, wrap(plan.op, err)
	}

	for _, r := range req.Reassignments {
		s.emit(plan.childUpdated, plan.childEntity, r.DependentID, r)
	}
	s.emit(plan.deleted, plan.entity, req.TargetID, nil)
	s.logger.Info("reassigned dependents and deleted",
		zap.String("entity", plan.entity),
		zap.Uint("target_id", req.TargetID),
		zap.Int("reassignments", len(req.Reassignments)),
	)
	return result, nil
}
