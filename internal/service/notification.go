package service

import (
	"context"

	"drivoro-backend/internal/domain"
	"drivoro-backend/internal/repository"
)

type notificationService struct {
	noteRepo repository.NotificationRepository
	msgRepo  repository.MessageRepository
}

func NewNotificationService(noteRepo repository.NotificationRepository, msgRepo repository.MessageRepository) NotificationService {
	return &notificationService{
		noteRepo: noteRepo,
		msgRepo:  msgRepo,
	}
}

func (s *notificationService) ListNotifications(ctx context.Context, unreadOnly bool, page, pageSize int32) ([]domain.AdminNotification, int32, error) {
	return s.noteRepo.List(ctx, unreadOnly, page, pageSize)
}

func (s *notificationService) MarkNotificationRead(ctx context.Context, id int32) error {
	return s.noteRepo.MarkAsRead(ctx, id)
}

func (s *notificationService) ListMessages(ctx context.Context, recipientID int32, page, pageSize int32) ([]domain.RentalMessage, int32, error) {
	return s.msgRepo.ListByRecipient(ctx, recipientID, page, pageSize)
}

func (s *notificationService) ListBookingMessages(ctx context.Context, bookingID int32) ([]domain.RentalMessage, error) {
	return s.msgRepo.ListByBooking(ctx, bookingID)
}

func (s *notificationService) MarkMessageRead(ctx context.Context, id, recipientID int32) error {
	return s.msgRepo.MarkAsRead(ctx, id, recipientID)
}
