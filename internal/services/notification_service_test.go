package services

import (
	"context"
	"strings"
	"testing"

	"yelocar/internal/models"
	"yelocar/pkg/logger"
)

func TestNotifyBookingCreated(t *testing.T) {
	f := newFixture(t)
	f.notifications.NotifyBookingCreated(context.Background(), &BookingNotice{
		BookingID:   "honda-city_1717400000000",
		UserID:      "u1",
		OwnerName:   "Asha",
		PhoneNumber: "9876543210",
		BookingDate: "2024-07-01",
		City:        "Pune",
	})

	if len(f.sms.sent) != 1 {
		t.Fatalf("sms = %+v", f.sms.sent)
	}
	text := f.sms.sent[0].Message
	for _, part := range []string{"Hi Asha", models.DefaultCarName, "2024-07-01", "Pune", "honda-city_1717400000000"} {
		if !strings.Contains(text, part) {
			t.Fatalf("sms text %q missing %q", text, part)
		}
	}
	if len(f.push.sent) != 1 || f.push.sent[0].Data["booking_id"] != "honda-city_1717400000000" {
		t.Fatalf("push = %+v", f.push.sent)
	}
}

func TestNotifySkipsMissingTargets(t *testing.T) {
	s, p := &fakeSMS{}, &fakePush{}
	svc := NewNotificationService(s, p, "+91", "", logger.Discard())
	svc.NotifyBookingCreated(context.Background(), &BookingNotice{BookingID: "b1"})
	if len(s.sent) != 0 || len(p.sent) != 0 {
		t.Fatalf("nothing should be sent: sms=%d push=%d", len(s.sent), len(p.sent))
	}
}
