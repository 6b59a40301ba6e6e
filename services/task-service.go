package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/beingsuperior/Freelancing-project-managment/apperrors"
	"github.com/beingsuperior/Freelancing-project-managment/auth"
	"github.com/beingsuperior/Freelancing-project-managment/logging"
	"github.com/beingsuperior/Freelancing-project-managment/models"
	"github.com/beingsuperior/Freelancing-project-managment/store"
)

// TaskService owns tasks and their children, comments and logged
// time. Children are created with an insert followed by a push onto
// the parent's reference list, and deleted in the opposite order:
// child first, then pull. A failed second step leaves the child
// unreachable (or the parent with a dangling id), which reads absorb.
type TaskService struct {
	Tasks    store.Collection
	Projects store.Collection
	Comments store.Collection
	TimeLog  store.Collection
	Resolver *ResolverService
}

func NewTaskService(tasks, projects, comments, timeLog store.Collection, resolver *ResolverService) *TaskService {
	return &TaskService{
		Tasks:    tasks,
		Projects: projects,
		Comments: comments,
		TimeLog:  timeLog,
		Resolver: resolver,
	}
}

// GetTask resolves a task for any owner or client of its project.
func (s *TaskService) GetTask(ctx context.Context, caller *auth.Caller, taskID primitive.ObjectID) (models.ResolvedTask, error) {
	task, project, err := s.requireTask(ctx, taskID)
	if err != nil {
		return models.ResolvedTask{}, err
	}
	if err := Authorize(caller, OpTaskRead, membershipOf(project)); err != nil {
		return models.ResolvedTask{}, err
	}
	return s.Resolver.ResolveTask(ctx, task)
}

type TaskInput struct {
	ProjectID      primitive.ObjectID `json:"projectId"`
	Title          string             `json:"title"`
	Description    string             `json:"description"`
	Status         models.TaskStatus  `json:"status"`
	EstimatedHours float64            `json:"estimatedHours"`
}

// CreateTask inserts the task, then pushes its id onto the project's
// task list. If the push never lands the task is unreachable from the
// project but still addressable by id; that is a degraded state, not
// a failure.
func (s *TaskService) CreateTask(ctx context.Context, caller *auth.Caller, input TaskInput) (models.ResolvedTask, error) {
	project, err := s.requireProject(ctx, input.ProjectID)
	if err != nil {
		return models.ResolvedTask{}, err
	}
	if err := Authorize(caller, OpTaskCreate, membershipOf(project)); err != nil {
		return models.ResolvedTask{}, err
	}
	if input.Title == "" {
		return models.ResolvedTask{}, fmt.Errorf("%w: title is required", apperrors.ErrValidation)
	}

	status := input.Status
	if status == "" {
		status = models.StatusRequested
	}
	if !models.ValidStatus(status) {
		return models.ResolvedTask{}, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, input.Status)
	}

	task := models.Task{
		Project:        input.ProjectID,
		Title:          html.EscapeString(input.Title),
		Description:    html.EscapeString(input.Description),
		Status:         status,
		EstimatedHours: input.EstimatedHours,
		Comments:       []primitive.ObjectID{},
		TimeLog:        []primitive.ObjectID{},
	}

	taskID, err := s.Tasks.InsertOne(ctx, task)
	if err != nil {
		return models.ResolvedTask{}, err
	}
	task.ID = taskID

	if err := s.Projects.Push(ctx, input.ProjectID, "tasks", taskID); err != nil {
		logging.Logger.Warnf("Event ID: TASK_LINK_FAILED, Description: Task %s created but not linked to project %s: %v", taskID.Hex(), input.ProjectID.Hex(), err)
	}

	return s.Resolver.ResolveTask(ctx, task)
}

type UpdateTaskInput struct {
	Title          *string            `json:"title"`
	Description    *string            `json:"description"`
	Status         *models.TaskStatus `json:"status"`
	EstimatedHours *float64           `json:"estimatedHours"`
}

// UpdateTask patches a task's own fields. Owner-restricted; there is
// no enforced order between statuses.
func (s *TaskService) UpdateTask(ctx context.Context, caller *auth.Caller, taskID primitive.ObjectID, input UpdateTaskInput) (models.ResolvedTask, error) {
	_, project, err := s.requireTask(ctx, taskID)
	if err != nil {
		return models.ResolvedTask{}, err
	}
	if err := Authorize(caller, OpTaskUpdate, membershipOf(project)); err != nil {
		return models.ResolvedTask{}, err
	}

	set := bson.M{}
	if input.Title != nil {
		if *input.Title == "" {
			return models.ResolvedTask{}, fmt.Errorf("%w: title is required", apperrors.ErrValidation)
		}
		set["title"] = html.EscapeString(*input.Title)
	}
	if input.Description != nil {
		set["description"] = html.EscapeString(*input.Description)
	}
	if input.Status != nil {
		if !models.ValidStatus(*input.Status) {
			return models.ResolvedTask{}, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, *input.Status)
		}
		set["status"] = *input.Status
	}
	if input.EstimatedHours != nil {
		set["estimatedHours"] = *input.EstimatedHours
	}
	if len(set) == 0 {
		return models.ResolvedTask{}, fmt.Errorf("%w: nothing to update", apperrors.ErrValidation)
	}

	var updated models.Task
	if err := s.Tasks.UpdateByID(ctx, taskID, set, &updated); err != nil {
		return models.ResolvedTask{}, err
	}
	return s.Resolver.ResolveTask(ctx, updated)
}

// DeleteTask removes the task document, then pulls its id from the
// project's task list. The task's comments and logged time are left
// in place, orphaned; explicit policy, see DESIGN.md.
func (s *TaskService) DeleteTask(ctx context.Context, caller *auth.Caller, taskID primitive.ObjectID) error {
	task, project, err := s.requireTask(ctx, taskID)
	if err != nil {
		return err
	}
	if err := Authorize(caller, OpTaskDelete, membershipOf(project)); err != nil {
		return err
	}

	if err := s.Tasks.DeleteByID(ctx, taskID); err != nil {
		return err
	}
	if err := s.Projects.Pull(ctx, task.Project, "tasks", taskID); err != nil {
		logging.Logger.Warnf("Event ID: TASK_UNLINK_FAILED, Description: Task %s deleted but still referenced by project %s: %v", taskID.Hex(), task.Project.Hex(), err)
	}
	return nil
}

// AddComment lets any project member, owner or client, comment on a
// task.
func (s *TaskService) AddComment(ctx context.Context, caller *auth.Caller, taskID primitive.ObjectID, body string) (models.ResolvedComment, error) {
	_, project, err := s.requireTask(ctx, taskID)
	if err != nil {
		return models.ResolvedComment{}, err
	}
	if err := Authorize(caller, OpCommentAdd, membershipOf(project)); err != nil {
		return models.ResolvedComment{}, err
	}
	if body == "" {
		return models.ResolvedComment{}, fmt.Errorf("%w: comment body is required", apperrors.ErrValidation)
	}

	comment := models.Comment{
		Body:      html.EscapeString(body),
		User:      caller.ID,
		TaskID:    taskID,
		CreatedAt: time.Now().UTC(),
	}

	commentID, err := s.Comments.InsertOne(ctx, comment)
	if err != nil {
		return models.ResolvedComment{}, err
	}
	comment.ID = commentID

	if err := s.Tasks.Push(ctx, taskID, "comments", commentID); err != nil {
		logging.Logger.Warnf("Event ID: COMMENT_LINK_FAILED, Description: Comment %s created but not linked to task %s: %v", commentID.Hex(), taskID.Hex(), err)
	}

	return s.Resolver.resolveComment(ctx, comment), nil
}

// DeleteComment is author-gated: only the user who wrote the comment
// may remove it, project ownership notwithstanding.
func (s *TaskService) DeleteComment(ctx context.Context, caller *auth.Caller, commentID primitive.ObjectID) error {
	var comment models.Comment
	if err := s.Comments.FindByID(ctx, commentID, &comment); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: comment %s", apperrors.ErrNotFound, commentID.Hex())
		}
		return err
	}
	if err := Authorize(caller, OpCommentDelete, Membership{Author: comment.User}); err != nil {
		return err
	}

	if err := s.Comments.DeleteByID(ctx, commentID); err != nil {
		return err
	}
	if err := s.Tasks.Pull(ctx, comment.TaskID, "comments", commentID); err != nil {
		logging.Logger.Warnf("Event ID: COMMENT_UNLINK_FAILED, Description: Comment %s deleted but still referenced by task %s: %v", commentID.Hex(), comment.TaskID.Hex(), err)
	}
	return nil
}

type LoggedTimeInput struct {
	Description string  `json:"description"`
	Date        string  `json:"date"`
	Hours       float64 `json:"hours"`
}

// AddLoggedTime records hours against a task. Owner-only, unlike
// comments.
func (s *TaskService) AddLoggedTime(ctx context.Context, caller *auth.Caller, taskID primitive.ObjectID, input LoggedTimeInput) (models.LoggedTime, error) {
	_, project, err := s.requireTask(ctx, taskID)
	if err != nil {
		return models.LoggedTime{}, err
	}
	if err := Authorize(caller, OpLoggedTimeAdd, membershipOf(project)); err != nil {
		return models.LoggedTime{}, err
	}

	entry := models.LoggedTime{
		Description: html.EscapeString(input.Description),
		Date:        input.Date,
		Hours:       input.Hours,
		User:        caller.ID,
		TaskID:      taskID,
	}

	entryID, err := s.TimeLog.InsertOne(ctx, entry)
	if err != nil {
		return models.LoggedTime{}, err
	}
	entry.ID = entryID

	if err := s.Tasks.Push(ctx, taskID, "timeLog", entryID); err != nil {
		logging.Logger.Warnf("Event ID: TIMELOG_LINK_FAILED, Description: Logged time %s created but not linked to task %s: %v", entryID.Hex(), taskID.Hex(), err)
	}
	return entry, nil
}

// DeleteLoggedTime removes an entry and pulls its reference from the
// task. Owner-only.
func (s *TaskService) DeleteLoggedTime(ctx context.Context, caller *auth.Caller, entryID primitive.ObjectID) error {
	var entry models.LoggedTime
	if err := s.TimeLog.FindByID(ctx, entryID, &entry); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: logged time %s", apperrors.ErrNotFound, entryID.Hex())
		}
		return err
	}

	_, project, err := s.requireTask(ctx, entry.TaskID)
	if err != nil {
		return err
	}
	if err := Authorize(caller, OpLoggedTimeDelete, membershipOf(project)); err != nil {
		return err
	}

	if err := s.TimeLog.DeleteByID(ctx, entryID); err != nil {
		return err
	}
	if err := s.Tasks.Pull(ctx, entry.TaskID, "timeLog", entryID); err != nil {
		logging.Logger.Warnf("Event ID: TIMELOG_UNLINK_FAILED, Description: Logged time %s deleted but still referenced by task %s: %v", entryID.Hex(), entry.TaskID.Hex(), err)
	}
	return nil
}

func (s *TaskService) requireTask(ctx context.Context, taskID primitive.ObjectID) (models.Task, models.Project, error) {
	var task models.Task
	if err := s.Tasks.FindByID(ctx, taskID, &task); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return models.Task{}, models.Project{}, fmt.Errorf("%w: task %s", apperrors.ErrNotFound, taskID.Hex())
		}
		return models.Task{}, models.Project{}, err
	}
	project, err := s.requireProject(ctx, task.Project)
	if err != nil {
		return models.Task{}, models.Project{}, err
	}
	return task, project, nil
}

func (s *TaskService) requireProject(ctx context.Context, projectID primitive.ObjectID) (models.Project, error) {
	var project models.Project
	if err := s.Projects.FindByID(ctx, projectID, &project); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return models.Project{}, fmt.Errorf("%w: project %s", apperrors.ErrNotFound, projectID.Hex())
		}
		return models.Project{}, err
	}
	return project, nil
}
