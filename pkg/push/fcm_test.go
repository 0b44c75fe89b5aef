package push

import "testing"

func TestBuildMessageTargets(t *testing.T) {
	msg, err := buildMessage(&NotificationRequest{Topic: "admin-bookings", Title: "New booking", Body: "Honda City", Link: "/admin-dashboard"})
	if err != nil {
		t.Fatalf("build topic message: %v", err)
	}
	if msg.Topic != "admin-bookings" || msg.Token != "" {
		t.Fatalf("unexpected target: topic=%q token=%q", msg.Topic, msg.Token)
	}
	if msg.Notification.Title != "New booking" || msg.Webpush == nil || msg.Webpush.FCMOptions.Link != "/admin-dashboard" {
		t.Fatalf("notification fields not set: %+v", msg)
	}

	msg, err = buildMessage(&NotificationRequest{Token: "device", Topic: "ignored"})
	if err != nil || msg.Token != "device" || msg.Topic != "" {
		t.Fatalf("token should take precedence: %+v %v", msg, err)
	}

	if _, err := buildMessage(&NotificationRequest{Title: "x"}); err == nil {
		t.Fatalf("expected error without a target")
	}
}
