package services

import (
	"context"
	"errors"
	"math"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/beingsuperior/Freelancing-project-managment/apperrors"
	"github.com/beingsuperior/Freelancing-project-managment/models"
	"github.com/beingsuperior/Freelancing-project-managment/store"
	"github.com/beingsuperior/Freelancing-project-managment/utils"
)

// ResolverService expands reference lists into full documents on
// demand and computes the derived fields. Multi-step writes are not
// atomic, so reference lists may hold identifiers whose target is
// gone; resolution skips those instead of failing the whole read.
type ResolverService struct {
	Users    store.Collection
	Projects store.Collection
	Tasks    store.Collection
	Comments store.Collection
	TimeLog  store.Collection
}

func NewResolverService(users, projects, tasks, comments, timeLog store.Collection) *ResolverService {
	return &ResolverService{
		Users:    users,
		Projects: projects,
		Tasks:    tasks,
		Comments: comments,
		TimeLog:  timeLog,
	}
}

// skippable reports whether an expansion error is a dangling
// reference, which resolution absorbs.
func skippable(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound)
}

func (r *ResolverService) ResolveProject(ctx context.Context, project models.Project) (models.ResolvedProject, error) {
	resolved := models.ResolvedProject{
		ID:      project.ID,
		Title:   project.Title,
		Owners:  []models.UserView{},
		Clients: []models.UserView{},
		Tasks:   []models.Task{},
	}

	for _, id := range project.Owners {
		var user models.User
		if err := r.Users.FindByID(ctx, id, &user); err != nil {
			if skippable(err) {
				continue
			}
			return models.ResolvedProject{}, err
		}
		resolved.Owners = append(resolved.Owners, user.View())
	}

	for _, id := range project.Clients {
		var user models.User
		if err := r.Users.FindByID(ctx, id, &user); err != nil {
			if skippable(err) {
				continue
			}
			return models.ResolvedProject{}, err
		}
		resolved.Clients = append(resolved.Clients, user.View())
	}

	for _, id := range project.Tasks {
		var task models.Task
		if err := r.Tasks.FindByID(ctx, id, &task); err != nil {
			if skippable(err) {
				continue
			}
			return models.ResolvedProject{}, err
		}
		task.EstimatedHours = utils.FormatHours(task.EstimatedHours)
		resolved.Tasks = append(resolved.Tasks, task)
	}

	return resolved, nil
}

func (r *ResolverService) ResolveTask(ctx context.Context, task models.Task) (models.ResolvedTask, error) {
	resolved := models.ResolvedTask{
		ID:             task.ID,
		Title:          task.Title,
		Description:    task.Description,
		Status:         task.Status,
		EstimatedHours: utils.FormatHours(task.EstimatedHours),
		Comments:       []models.ResolvedComment{},
		TimeLog:        []models.LoggedTime{},
	}

	var project models.Project
	if err := r.Projects.FindByID(ctx, task.Project, &project); err == nil {
		resolved.Project = &project
	} else if !skippable(err) {
		return models.ResolvedTask{}, err
	}

	for _, id := range task.Comments {
		var comment models.Comment
		if err := r.Comments.FindByID(ctx, id, &comment); err != nil {
			if skippable(err) {
				continue
			}
			return models.ResolvedTask{}, err
		}
		resolved.Comments = append(resolved.Comments, r.resolveComment(ctx, comment))
	}

	for _, id := range task.TimeLog {
		var entry models.LoggedTime
		if err := r.TimeLog.FindByID(ctx, id, &entry); err != nil {
			if skippable(err) {
				continue
			}
			return models.ResolvedTask{}, err
		}
		resolved.TimeLog = append(resolved.TimeLog, entry)
	}

	resolved.TotalHours = TotalHours(resolved.TimeLog)
	return resolved, nil
}

func (r *ResolverService) resolveComment(ctx context.Context, comment models.Comment) models.ResolvedComment {
	resolved := models.ResolvedComment{
		ID:        comment.ID,
		Body:      comment.Body,
		TaskID:    comment.TaskID,
		CreatedAt: comment.CreatedAt,
	}
	var user models.User
	if err := r.Users.FindByID(ctx, comment.User, &user); err == nil {
		view := user.View()
		resolved.User = &view
	}
	return resolved
}

// ResolveUserProjects expands a user's project list, skipping
// references to projects that no longer exist.
func (r *ResolverService) ResolveUserProjects(ctx context.Context, ids []primitive.ObjectID) ([]models.ResolvedProject, error) {
	projects := []models.ResolvedProject{}
	for _, id := range ids {
		var project models.Project
		if err := r.Projects.FindByID(ctx, id, &project); err != nil {
			if skippable(err) {
				continue
			}
			return nil, err
		}
		resolved, err := r.ResolveProject(ctx, project)
		if err != nil {
			return nil, err
		}
		projects = append(projects, resolved)
	}
	return projects, nil
}

// TotalHours sums logged hours and normalizes the result to two
// decimal places. Summation is order-independent; entries with a
// non-numeric value count as zero.
func TotalHours(entries []models.LoggedTime) float64 {
	var sum float64
	for _, entry := range entries {
		if math.IsNaN(entry.Hours) || math.IsInf(entry.Hours, 0) {
			continue
		}
		sum += entry.Hours
	}
	return utils.FormatHours(sum)
}
