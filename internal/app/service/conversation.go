package service

import (
	"sort"

	"github.com/ciftci/ciftci-backend/internal/app/model"
)

// GroupConversations folds a user's messages into one summary per counterparty.
// messages must be ordered newest first. The first message seen for a
// counterparty seeds its summary; a later one replaces the last message only
// when strictly newer. Each unread message addressed to userID counts once.
// users resolves counterparty details; missing entries leave them blank.
func GroupConversations(userID uint, messages []model.Message, users map[uint]model.User) []model.ConversationSummary {
	byUser := make(map[uint]*model.ConversationSummary)
	order := make([]uint, 0)

	for _, m := range messages {
		other := m.SenderID
		if m.SenderID == userID {
			other = m.ReceiverID
		}
		unread := 0
		if m.ReceiverID == userID && !m.IsRead {
			unread = 1
		}

		summary, ok := byUser[other]
		if !ok {
			summary = &model.ConversationSummary{
				UserID:          other,
				LastMessage:     m.Content,
				LastMessageDate: m.CreatedAt,
				UnreadCount:     unread,
			}
			if u, found := users[other]; found {
				summary.UserName = u.Name
				summary.UserType = u.UserType
				summary.ProfileImageURL = u.ProfileImageURL
			}
			byUser[other] = summary
			order = append(order, other)
			continue
		}

		if m.CreatedAt.After(summary.LastMessageDate) {
			summary.LastMessage = m.Content
			summary.LastMessageDate = m.CreatedAt
		}
		summary.UnreadCount += unread
	}

	result := make([]model.ConversationSummary, 0, len(order))
	for _, id := range order {
		result = append(result, *byUser[id])
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].LastMessageDate.After(result[j].LastMessageDate)
	})
	return result
}
