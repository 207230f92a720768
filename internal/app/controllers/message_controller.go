package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/vacantes/internal/app/models/dto"
	"github.com/yigit/vacantes/internal/app/services"
	"github.com/yigit/vacantes/internal/middleware"
)

// MessageController handles messaging between students and vacancy owners
type MessageController struct {
	messageService services.MessageService
}

// NewMessageController creates a new MessageController
func NewMessageController(messageService services.MessageService) *MessageController {
	return &MessageController{messageService: messageService}
}

// SendMessage sends a message to the counterparty of an application
// @Summary Send message
// @Description Give applicationId, or recipientId with recipientRole to use the most recent shared application
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SendMessageRequest true "Message"
// @Success 201 {object} dto.APIResponse{data=dto.MessageResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Pairing not allowed or no relationship"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Router /messages [post]
func (c *MessageController) SendMessage(ctx *gin.Context) {
	sender, found := caller(ctx)
	if !found {
		return
	}

	var req dto.SendMessageRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	msg, err := c.messageService.Send(ctx.Request.Context(), sender, services.SendInput{
		RecipientID:   req.RecipientID,
		RecipientRole: req.RecipientRole,
		ApplicationID: req.ApplicationID,
		Subject:       req.Subject,
		Body:          req.Body,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondOK(ctx, http.StatusCreated, toMessageResponse(msg), "Message sent")
}

// Inbox lists messages received by the caller
// @Summary Inbox
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param unread query bool false "Only unread messages"
// @Success 200 {object} dto.APIResponse{data=[]dto.MessageResponse}
// @Router /messages/inbox [get]
func (c *MessageController) Inbox(ctx *gin.Context) {
	requester, found := caller(ctx)
	if !found {
		return
	}

	var filter dto.InboxFilterRequest
	if !middleware.BindQuery(ctx, &filter) {
		return
	}

	msgs, err := c.messageService.Inbox(ctx.Request.Context(), requester, filter.UnreadOnly)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondOK(ctx, http.StatusOK, toMessageResponses(msgs), "")
}

// Sent lists messages sent by the caller
// @Summary Sent messages
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.MessageResponse}
// @Router /messages/sent [get]
func (c *MessageController) Sent(ctx *gin.Context) {
	requester, found := caller(ctx)
	if !found {
		return
	}

	msgs, err := c.messageService.Sent(ctx.Request.Context(), requester)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondOK(ctx, http.StatusOK, toMessageResponses(msgs), "")
}

// UnreadCount reports the caller's unread messages
// @Summary Unread count
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.UnreadCountResponse}
// @Router /messages/unread-count [get]
func (c *MessageController) UnreadCount(ctx *gin.Context) {
	requester, found := caller(ctx)
	if !found {
		return
	}

	n, err := c.messageService.UnreadCount(ctx.Request.Context(), requester)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondOK(ctx, http.StatusOK, dto.UnreadCountResponse{Unread: n}, "")
}

// GetMessage returns a message to either party; the recipient's first read marks it read
// @Summary Get message
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param messageId path int true "Message ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse}
// @Failure 403 {object} dto.ErrorResponse "Not a party"
// @Failure 404 {object} dto.ErrorResponse "Message not found"
// @Router /messages/{messageId} [get]
func (c *MessageController) GetMessage(ctx *gin.Context) {
	requester, found := caller(ctx)
	if !found {
		return
	}
	id, valid := idParam(ctx, "messageId", "message")
	if !valid {
		return
	}

	msg, err := c.messageService.Get(ctx.Request.Context(), id, requester)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondOK(ctx, http.StatusOK, toMessageResponse(msg), "")
}

// MarkRead marks a received message read
// @Summary Mark message read
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param messageId path int true "Message ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse}
// @Failure 403 {object} dto.ErrorResponse "Not the recipient"
// @Router /messages/{messageId}/read [patch]
func (c *MessageController) MarkRead(ctx *gin.Context) {
	requester, found := caller(ctx)
	if !found {
		return
	}
	id, valid := idParam(ctx, "messageId", "message")
	if !valid {
		return
	}

	msg, err := c.messageService.MarkRead(ctx.Request.Context(), id, requester)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondOK(ctx, http.StatusOK, toMessageResponse(msg), "")
}

// DeleteMessage deletes a message for both parties
// @Summary Delete message
// @Tags messages
// @Security BearerAuth
// @Param messageId path int true "Message ID" Format(int64) minimum(1)
// @Success 204 "Message deleted"
// @Failure 403 {object} dto.ErrorResponse "Not a party"
// @Router /messages/{messageId} [delete]
func (c *MessageController) DeleteMessage(ctx *gin.Context) {
	requester, found := caller(ctx)
	if !found {
		return
	}
	id, valid := idParam(ctx, "messageId", "message")
	if !valid {
		return
	}

	if err := c.messageService.Delete(ctx.Request.Context(), id, requester); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
