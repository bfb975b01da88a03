package projections

import (
	"context"

	"fitpro/internal/adapters/markdown"
	"fitpro/internal/adapters/storage/class"
	"fitpro/internal/adapters/storage/trainer"
	domainClass "fitpro/internal/domain/class"
)

// GetClassListQuery carries query parameters.
type GetClassListQuery struct {
	IncludeInactive bool
}

// ClassView is a class with its trainer resolved and description rendered.
type ClassView struct {
	ID              string
	Name            string
	Description     string
	DescriptionHTML string
	DurationMinutes int
	MaxCapacity     int
	TrainerID       string
	TrainerName     string
	IsActive        bool
}

// GetClassListResult carries the query result.
type GetClassListResult struct {
	Classes []ClassView
}

// GetClassListDeps holds dependencies for GetClassList.
type GetClassListDeps struct {
	ClassStore   ClassStore
	TrainerStore TrainerStore
}

// QueryGetClassList lists classes ordered by name with trainer names.
// INVARIANT: A class with a trainer_id shows that trainer's name even when the trainer is inactive
func QueryGetClassList(ctx context.Context, query GetClassListQuery, deps GetClassListDeps) (GetClassListResult, error) {
	classes, err := deps.ClassStore.List(ctx, class.ListFilter{ActiveOnly: !query.IncludeInactive})
	if err != nil {
		return GetClassListResult{}, err
	}
	trainerIDs := make([]string, 0, len(classes))
	for _, c := range classes {
		trainerIDs = append(trainerIDs, c.TrainerID)
	}
	trainers, err := deps.TrainerStore.GetMany(ctx, uniq(trainerIDs))
	if err != nil {
		return GetClassListResult{}, err
	}

	views := make([]ClassView, 0, len(classes))
	for _, c := range classes {
		html, err := markdown.ToHTML(c.Description)
		if err != nil {
			return GetClassListResult{}, err
		}
		views = append(views, ClassView{
			ID:              c.ID,
			Name:            c.Name,
			Description:     c.Description,
			DescriptionHTML: html,
			DurationMinutes: c.DurationMinutes,
			MaxCapacity:     c.MaxCapacity,
			TrainerID:       c.TrainerID,
			TrainerName:     domainClass.TrainerDisplayName(c.TrainerID, trainers[c.TrainerID].Name),
			IsActive:        c.IsActive,
		})
	}
	return GetClassListResult{Classes: views}, nil
}

// GetTrainerListQuery carries query parameters.
type GetTrainerListQuery struct {
	IncludeInactive bool
}

// TrainerView is a trainer with the bio rendered to HTML.
type TrainerView struct {
	ID             string
	Name           string
	Email          string
	Phone          string
	Specialization string
	Bio            string
	BioHTML        string
	IsActive       bool
}

// GetTrainerListResult carries the query result.
type GetTrainerListResult struct {
	Trainers []TrainerView
}

// GetTrainerListDeps holds dependencies for GetTrainerList.
type GetTrainerListDeps struct {
	TrainerStore TrainerStore
}

// QueryGetTrainerList lists trainers ordered by name with rendered bios.
func QueryGetTrainerList(ctx context.Context, query GetTrainerListQuery, deps GetTrainerListDeps) (GetTrainerListResult, error) {
	trainers, err := deps.TrainerStore.List(ctx, trainer.ListFilter{ActiveOnly: !query.IncludeInactive})
	if err != nil {
		return GetTrainerListResult{}, err
	}
	views := make([]TrainerView, 0, len(trainers))
	for _, t := range trainers {
		html, err := markdown.ToHTML(t.Bio)
		if err != nil {
			return GetTrainerListResult{}, err
		}
		views = append(views, TrainerView{
			ID:             t.ID,
			Name:           t.Name,
			Email:          t.Email,
			Phone:          t.Phone,
			Specialization: t.Specialization,
			Bio:            t.Bio,
			BioHTML:        html,
			IsActive:       t.IsActive,
		})
	}
	return GetTrainerListResult{Trainers: views}, nil
}
