package crm

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/spec-kit/travel-crm/internal/domain"
)

const upcomingFollowUpLimit = 5

// EmployeeStats is the per-employee activity rollup.
type EmployeeStats struct {
	EmployeeID       string    `json:"employeeId"`
	EmployeeName     string    `json:"employeeName"`
	TotalLogs        int       `json:"totalLogs"`
	PositiveOutcomes int       `json:"positiveOutcomes"`
	TodayLogs        int       `json:"todayLogs"`
	WeekLogs         int       `json:"weekLogs"`
	FollowUpsCreated int       `json:"followUpsCreated"`
	PendingFollowUps int       `json:"pendingFollowUps"`
	SuccessRate      int       `json:"successRate"`
	LastActivity     time.Time `json:"lastActivity"`
}

// TrendPoint counts the activity of one calendar day.
type TrendPoint struct {
	Date     string `json:"date"`
	Total    int    `json:"activities"`
	Calls    int    `json:"calls"`
	Emails   int    `json:"emails"`
	Meetings int    `json:"meetings"`
}

// Dashboard is the summary computed over a scoped and filtered data set.
type Dashboard struct {
	TotalEmployees      int               `json:"totalEmployees"`
	TotalCustomers      int               `json:"totalCustomers"`
	ActiveCustomers     int               `json:"activeCustomers"`
	TotalLogs           int               `json:"totalLogs"`
	TodayLogs           int               `json:"todayLogs"`
	WeekLogs            int               `json:"weekLogs"`
	MonthLogs           int               `json:"monthLogs"`
	PendingFollowUps    int               `json:"pendingFollowUps"`
	OverdueFollowUps    int               `json:"overdueFollowUps"`
	ConversionRate      int               `json:"conversionRate"`
	EmployeeStats       []EmployeeStats   `json:"employeeStats"`
	CustomerStatusStats Tally             `json:"customerStatusStats"`
	ActivityTypeStats   Tally             `json:"activityTypeStats"`
	OutcomeStats        Tally             `json:"outcomeStats"`
	ActivityTrend       []TrendPoint      `json:"activityTrend"`
	UpcomingFollowUps   []domain.DailyLog `json:"upcomingFollowUps"`
	GeneratedAt         time.Time         `json:"generatedAt"`
}

// BuildDashboard reduces customers and logs to dashboard statistics. users only
// feeds the employee count and may be nil. It never fails: nil inputs produce
// zeroed statistics.
func BuildDashboard(customers []domain.Customer, logs []domain.DailyLog, users []domain.User, now time.Time) Dashboard {
	w := newWindow(now)
	d := Dashboard{
		TotalCustomers:    len(customers),
		TotalLogs:         len(logs),
		EmployeeStats:     RollupEmployees(logs, now),
		ActivityTrend:     ActivityTrend(logs, now, 7),
		UpcomingFollowUps: UpcomingFollowUps(logs, now, upcomingFollowUpLimit),
		GeneratedAt:       now,
	}

	for i := range customers {
		d.CustomerStatusStats.Add(string(customers[i].Status))
		if customers[i].Status == domain.CustomerStatusActive {
			d.ActiveCustomers++
		}
	}

	for i := range logs {
		l := &logs[i]
		d.ActivityTypeStats.Add(string(l.Type))
		d.OutcomeStats.Add(string(l.Outcome))
		if l.Date == w.today {
			d.TodayLogs++
		}
		if l.Date >= w.weekStart {
			d.WeekLogs++
		}
		if l.Date >= w.monthStart {
			d.MonthLogs++
		}
		if l.HasFollowUpDate() {
			d.PendingFollowUps++
			if followUpOverdue(*l.FollowUpDate, now) {
				d.OverdueFollowUps++
			}
		}
	}

	d.ConversionRate = Percent(d.OutcomeStats.Count(string(domain.OutcomePositive)), d.TotalLogs)
	if len(users) > 0 {
		d.TotalEmployees = len(users)
	} else {
		d.TotalEmployees = len(d.EmployeeStats)
	}
	return d
}

// RollupEmployees groups logs by author, in the order authors first appear.
func RollupEmployees(logs []domain.DailyLog, now time.Time) []EmployeeStats {
	w := newWindow(now)
	index := make(map[string]int)
	out := make([]EmployeeStats, 0)

	for i := range logs {
		l := &logs[i]
		key := employeeKey(l)
		pos, ok := index[key]
		if !ok {
			pos = len(out)
			index[key] = pos
			out = append(out, EmployeeStats{
				EmployeeID:   key,
				EmployeeName: l.EmployeeName,
				LastActivity: l.CreatedAt,
			})
		}
		s := &out[pos]
		s.TotalLogs++
		if l.Outcome == domain.OutcomePositive {
			s.PositiveOutcomes++
		}
		if l.Date == w.today {
			s.TodayLogs++
		}
		if l.Date >= w.weekStart {
			s.WeekLogs++
		}
		if l.FollowUpRequired {
			s.FollowUpsCreated++
			if !l.HasFollowUpDate() || !followUpOverdue(*l.FollowUpDate, now) {
				s.PendingFollowUps++
			}
		}
		if l.CreatedAt.After(s.LastActivity) {
			s.LastActivity = l.CreatedAt
		}
	}

	for i := range out {
		out[i].SuccessRate = Percent(out[i].PositiveOutcomes, out[i].TotalLogs)
	}
	return out
}

// ActivityTrend counts logs per day for the last days calendar days, oldest first.
func ActivityTrend(logs []domain.DailyLog, now time.Time, days int) []TrendPoint {
	if days <= 0 {
		return []TrendPoint{}
	}
	points := make([]TrendPoint, days)
	byDate := make(map[string]*TrendPoint, days)
	for i := 0; i < days; i++ {
		date := now.AddDate(0, 0, i-days+1).Format(domain.DateLayout)
		points[i].Date = date
		byDate[date] = &points[i]
	}
	for i := range logs {
		p, ok := byDate[logs[i].Date]
		if !ok {
			continue
		}
		p.Total++
		switch logs[i].Type {
		case domain.ActivityCall:
			p.Calls++
		case domain.ActivityEmail:
			p.Emails++
		case domain.ActivityMeeting:
			p.Meetings++
		}
	}
	return points
}

// UpcomingFollowUps returns up to limit logs whose follow-up is not yet
// overdue, soonest first.
func UpcomingFollowUps(logs []domain.DailyLog, now time.Time, limit int) []domain.DailyLog {
	out := keep(logs, func(l *domain.DailyLog) bool {
		return l.HasFollowUpDate() && !followUpOverdue(*l.FollowUpDate, now)
	})
	loc := now.Location()
	sort.SliceStable(out, func(i, j int) bool {
		return followUpDay(*out[i].FollowUpDate, loc) < followUpDay(*out[j].FollowUpDate, loc)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Percent returns round(100*part/total), or 0 when total is not positive.
func Percent(part, total int) int {
	if total <= 0 || part <= 0 {
		return 0
	}
	if part >= total {
		return 100
	}
	return int(math.Round(100 * float64(part) / float64(total)))
}

func employeeKey(l *domain.DailyLog) string {
	if l.EmployeeID != "" {
		return l.EmployeeID
	}
	return strings.ToLower(strings.Join(strings.Fields(l.EmployeeName), ""))
}
