package controller

import (
	"errors"
	"net/http"

	"github.com/ciftci/ciftci-backend/internal/app/service"
	apperrors "github.com/ciftci/ciftci-backend/internal/errors"
	"github.com/ciftci/ciftci-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type MessageController struct {
	messageService service.MessageService
}

func NewMessageController(messageService service.MessageService) *MessageController {
	return &MessageController{messageService: messageService}
}

type SendMessageRequest struct {
	ReceiverID uint   `json:"receiver_id" binding:"required"`
	Content    string `json:"content" binding:"required"`
	ProductID  *uint  `json:"product_id"`
}

// GetConversation returns both directions of a conversation, oldest first
// GET /api/v1/messages/conversation/:otherUserId
func (ctrl *MessageController) GetConversation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	otherUserID, ok := parseIDParam(c, "otherUserId")
	if !ok {
		return
	}

	messages, err := ctrl.messageService.GetConversation(userID, otherUserID)
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to load conversation", err, map[string]interface{}{
			"user_id":       userID,
			"other_user_id": otherUserID,
		})
		apperrors.InternalError(c, "Mesajlar getirilemedi")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": messages,
		"count":    len(messages),
	})
}

// GetConversations returns the inbox grouped by counterparty
// GET /api/v1/messages/conversations
func (ctrl *MessageController) GetConversations(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	conversations, err := ctrl.messageService.GetConversations(userID)
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to load conversations", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "Konuşmalar getirilemedi")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"conversations": conversations,
		"count":         len(conversations),
	})
}

// SendMessage sends a message and notifies the receiver
// POST /api/v1/messages
func (ctrl *MessageController) SendMessage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid send message request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Girilen mesaj bilgileri geçersiz")
		return
	}

	message, err := ctrl.messageService.SendMessage(service.SendMessageInput{
		SenderID:   userID,
		ReceiverID: req.ReceiverID,
		Content:    req.Content,
		ProductID:  req.ProductID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidMessage):
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Mesaj 1 ile 1000 karakter arasında olmalıdır")
		case errors.Is(err, service.ErrSenderNotFound):
			apperrors.BadRequest(c, apperrors.UserNotFound, "Gönderen bulunamadı")
		case errors.Is(err, service.ErrReceiverNotFound):
			apperrors.BadRequest(c, apperrors.UserNotFound, "Alıcı bulunamadı")
		case errors.Is(err, service.ErrMessageProduct):
			apperrors.BadRequest(c, apperrors.ProductNotFound, "Ürün bulunamadı")
		default:
			log.Error("Failed to send message", err, map[string]interface{}{
				"sender_id":   userID,
				"receiver_id": req.ReceiverID,
			})
			apperrors.ParseAndRespond(c, err, "create message")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": message,
	})
}

// MarkAsRead marks a received message as read
// PUT /api/v1/messages/:id/read
func (ctrl *MessageController) MarkAsRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.messageService.MarkAsRead(id, userID); err != nil {
		switch {
		case errors.Is(err, service.ErrMessageNotFound):
			apperrors.NotFound(c, apperrors.MessageNotFound, "Mesaj bulunamadı")
		case errors.Is(err, service.ErrMessageForbidden):
			apperrors.Forbidden(c, "Bu mesaj size gönderilmedi")
		default:
			middleware.GetLoggerFromContext(c).Error("Failed to mark message read", err, map[string]interface{}{
				"message_id": id,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Mesaj okundu olarak işaretlendi",
	})
}

// MarkAllAsRead marks every message from a sender as read
// PUT /api/v1/messages/read-all/:senderId
func (ctrl *MessageController) MarkAllAsRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	senderID, ok := parseIDParam(c, "senderId")
	if !ok {
		return
	}

	updated, err := ctrl.messageService.MarkAllAsRead(userID, senderID)
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to mark conversation read", err, map[string]interface{}{
			"user_id":   userID,
			"sender_id": senderID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Mesajlar okundu olarak işaretlendi",
		"updated": updated,
	})
}

// GetUnreadCount counts unread received messages
// GET /api/v1/messages/unread-count
func (ctrl *MessageController) GetUnreadCount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	count, err := ctrl.messageService.GetUnreadCount(userID)
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to count unread messages", err)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"unread_count": count,
	})
}
