package controllers

import (
	"github.com/yigit/vacantes/internal/app/models"
	"github.com/yigit/vacantes/internal/app/models/dto"
	"github.com/yigit/vacantes/internal/app/services"
)

func toAccountResponse(acc *models.Account) dto.AccountResponse {
	resp := dto.AccountResponse{
		ID:          acc.ID(),
		Kind:        string(acc.Kind),
		DisplayName: acc.DisplayName(),
		Email:       acc.Email(),
	}
	switch {
	case acc.Student != nil:
		resp.ResumeURL = acc.Student.ResumeURL
	case acc.Professor != nil:
		dept := acc.Professor.Department
		resp.Department = &dept
	case acc.Institution != nil:
		sector := acc.Institution.Sector
		resp.Sector = &sector
	}
	return resp
}

func toVacancyResponse(v services.VacancyView) dto.VacancyResponse {
	return dto.VacancyResponse{
		ID:             v.ID,
		OwnerID:        v.Owner.ID,
		OwnerKind:      string(v.Owner.Kind),
		Title:          v.Title,
		Description:    v.Description,
		Capacity:       v.EffectiveCapacity(),
		AvailableSeats: v.AvailableSeats,
		PublishedAt:    v.PublishedAt,
		UpdatedAt:      v.UpdatedAt,
	}
}

func toVacancyResponses(views []services.VacancyView) []dto.VacancyResponse {
	out := make([]dto.VacancyResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toVacancyResponse(v))
	}
	return out
}

func toApplicationResponse(a *models.Application) dto.ApplicationResponse {
	return dto.ApplicationResponse{
		ID:              a.ID,
		StudentID:       a.StudentID,
		VacancyID:       a.VacancyID,
		State:           string(a.State),
		CreatedAt:       a.CreatedAt,
		RespondedAt:     a.RespondedAt,
		ResponseComment: a.ResponseComment,
	}
}

func toApplicationResponses(apps []*models.Application) []dto.ApplicationResponse {
	out := make([]dto.ApplicationResponse, 0, len(apps))
	for _, a := range apps {
		out = append(out, toApplicationResponse(a))
	}
	return out
}

func toMyApplicationResponses(items []*models.ApplicationWithVacancy) []dto.MyApplicationResponse {
	out := make([]dto.MyApplicationResponse, 0, len(items))
	for _, item := range items {
		out = append(out, dto.MyApplicationResponse{
			ApplicationResponse: toApplicationResponse(&item.Application),
			VacancyTitle:        item.Vacancy.Title,
			AvailableSeats:      item.AvailableSeats,
		})
	}
	return out
}

func toAssociationResponses(entries []*models.Association) []dto.AssociationResponse {
	out := make([]dto.AssociationResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.AssociationResponse{
			ID:        e.ID,
			StudentID: e.StudentID,
			VacancyID: e.VacancyID,
			Status:    string(e.Status),
			CreatedAt: e.CreatedAt,
		})
	}
	return out
}

func toMessageResponse(m *models.Message) dto.MessageResponse {
	return dto.MessageResponse{
		ID:            m.ID,
		SenderID:      m.Sender.ID,
		SenderKind:    string(m.Sender.Kind),
		SenderName:    m.SenderName,
		RecipientID:   m.Recipient.ID,
		RecipientKind: string(m.Recipient.Kind),
		RecipientName: m.RecipientName,
		Subject:       m.Subject,
		Body:          m.Body,
		ApplicationID: m.ApplicationID,
		Leido:         m.Leido,
		CreatedAt:     m.CreatedAt,
		ReadAt:        m.ReadAt,
	}
}

func toMessageResponses(msgs []*models.Message) []dto.MessageResponse {
	out := make([]dto.MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessageResponse(m))
	}
	return out
}
