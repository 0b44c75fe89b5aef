package services

import (
	"math"
	"time"

	"yelocar/internal/models"
	"yelocar/internal/utils"
)

const recentBookingsLimit = 5

var statusOrder = []models.BookingStatus{
	models.BookingStatusConfirmed,
	models.BookingStatusPending,
	models.BookingStatusCancelled,
}

// ComputeBookingAnalytics summarises reconciled bookings as of now. Revenue
// counts price minus discount of every booking that is not cancelled. Day
// boundaries follow now's location.
func ComputeBookingAnalytics(bookings []models.NormalizedBooking, now time.Time) models.BookingAnalytics {
	today := utils.StartOfDay(now)
	weekStart := utils.StartOfWeek(now)
	seriesStart := today.AddDate(0, 0, -6)

	series := make([]models.DailyBookings, 7)
	seriesIndex := make(map[string]int, 7)
	for i := range series {
		day := utils.DayKey(seriesStart.AddDate(0, 0, i))
		series[i] = models.DailyBookings{Date: day}
		seriesIndex[day] = i
	}

	result := models.BookingAnalytics{TotalBookings: len(bookings)}
	payments := make(map[string]int)
	var paymentOrder []string
	statuses := make(map[models.BookingStatus]int)
	billable := 0

	for _, b := range bookings {
		statuses[b.Status]++

		method := b.PaymentPreference
		if _, seen := payments[method]; !seen {
			paymentOrder = append(paymentOrder, method)
		}
		payments[method]++

		active := b.Status != models.BookingStatusCancelled
		if active {
			result.TotalRevenue += b.FinalPrice()
			billable++
		}

		created, ok := utils.ParseLooseTime(b.CreatedAt)
		if !ok {
			continue
		}
		created = created.In(now.Location())
		if !created.Before(today) && created.Before(today.AddDate(0, 0, 1)) {
			result.TodayBookings++
		}
		if !created.Before(weekStart) && !created.After(now) {
			result.WeekBookings++
		}
		if i, ok := seriesIndex[utils.DayKey(created)]; ok {
			series[i].Bookings++
			if active {
				series[i].Revenue += b.FinalPrice()
			}
		}
	}

	if billable > 0 {
		result.AverageBookingValue = result.TotalRevenue / int64(billable)
	}
	result.LastSevenDays = series

	result.PaymentMethods = make([]models.ShareStats, 0, len(paymentOrder))
	for _, method := range paymentOrder {
		result.PaymentMethods = append(result.PaymentMethods, share(method, payments[method], len(bookings)))
	}

	result.Statuses = make([]models.ShareStats, 0, len(statusOrder))
	for _, status := range statusOrder {
		result.Statuses = append(result.Statuses, share(string(status), statuses[status], len(bookings)))
	}

	recent := make([]models.NormalizedBooking, len(bookings))
	copy(recent, bookings)
	SortByCreatedAtDesc(recent)
	if len(recent) > recentBookingsLimit {
		recent = recent[:recentBookingsLimit]
	}
	result.Recent = recent

	return result
}

func share(key string, count, total int) models.ShareStats {
	s := models.ShareStats{Key: key, Count: count}
	if total > 0 {
		s.Percentage = math.Round(float64(count)*1000/float64(total)) / 10
	}
	return s
}
