package services

import (
	"context"
	"fmt"
	"time"

	"yelocar/internal/models"
	"yelocar/internal/utils"
	"yelocar/pkg/logger"
	"yelocar/pkg/push"
	"yelocar/pkg/sms"
)

// BookingNotice is what a confirmation needs to know about a new booking.
type BookingNotice struct {
	BookingID   string
	UserID      string
	OwnerName   string
	PhoneNumber string
	CarName     string
	BookingDate string
	City        string
}

type NotificationService interface {
	// NotifyBookingCreated texts the buyer and pushes to the admin topic.
	// Delivery failures are logged only.
	NotifyBookingCreated(ctx context.Context, notice *BookingNotice)
}

type notificationService struct {
	sms         sms.SMSProvider
	push        push.PushProvider
	countryCode string
	adminTopic  string
	logger      *logger.Logger
}

func NewNotificationService(smsProvider sms.SMSProvider, pushProvider push.PushProvider, countryCode, adminTopic string, logger *logger.Logger) NotificationService {
	if smsProvider == nil {
		smsProvider = sms.NoopProvider{}
	}
	if pushProvider == nil {
		pushProvider = push.NoopProvider{}
	}
	return &notificationService{
		sms:         smsProvider,
		push:        pushProvider,
		countryCode: countryCode,
		adminTopic:  adminTopic,
		logger:      logger,
	}
}

const notifyTimeout = 10 * time.Second

func (s *notificationService) NotifyBookingCreated(ctx context.Context, notice *BookingNotice) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	log := s.logger.WithContext(ctx).WithFields(map[string]interface{}{
		"booking_id": notice.BookingID,
		"user_id":    notice.UserID,
	})

	if notice.PhoneNumber != "" {
		_, err := s.sms.SendSMS(ctx, &sms.SMSRequest{
			To:      utils.FormatPhoneE164(notice.PhoneNumber, s.countryCode),
			Message: bookingSMSText(notice),
			Type:    "transactional",
		})
		if err != nil {
			log.WithError(err).WithField("phone", utils.MaskPhone(notice.PhoneNumber)).Warn("Failed to send booking SMS")
		}
	}

	if s.adminTopic != "" {
		_, err := s.push.SendNotification(ctx, &push.NotificationRequest{
			Topic: s.adminTopic,
			Title: "New booking",
			Body:  fmt.Sprintf("%s booked a test drive of %s", notice.OwnerName, notice.CarName),
			Data: map[string]string{
				"type":       utils.EventBookingCreated,
				"booking_id": notice.BookingID,
				"user_id":    notice.UserID,
			},
			Link: utils.PathAdminDashboard,
		})
		if err != nil {
			log.WithError(err).Warn("Failed to push booking notification")
		}
	}
}

func bookingSMSText(n *BookingNotice) string {
	name := n.CarName
	if name == "" {
		name = models.DefaultCarName
	}
	return fmt.Sprintf("Hi %s, your %s booking for %s in %s is confirmed. Ref: %s - %s",
		n.OwnerName, name, n.BookingDate, n.City, n.BookingID, utils.AppName)
}
