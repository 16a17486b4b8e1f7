// Package reports builds the role-specific read models for dashboards and
// reporting. Every view is computed on demand with an explicit query; nothing
// here mutates the store, and no query ever selects the password hash column.
package reports

import (
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/aakashdp/labadmin_backend/internal/models"
)

type Projector struct {
	DB *gorm.DB
}

// ChartPoint is a single labelled value in a chart series.
type ChartPoint struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type AdminStats struct {
	TicketsRaised           int64 `json:"ticketsRaised"`
	BugsFixed               int64 `json:"bugsFixed"`
	PendingApproval         int64 `json:"pendingApproval"`
	SystemsUnderMaintenance int64 `json:"systemsUnderMaintenance"`
}

type LabStats struct {
	LabID          uint    `json:"labId"`
	LabName        string  `json:"labName"`
	TotalTickets   int64   `json:"totalTickets"`
	OpenTickets    int64   `json:"openTickets"`
	PercentageOpen float64 `json:"percentageOpen"`
}

type UsageReport struct {
	TicketsResolvedPerLab []ChartPoint `json:"ticketsResolvedPerLab"`
	TopSoftwareRequests   []ChartPoint `json:"topSoftwareRequests"`
}

type AuditLog struct {
	WorkLogID         uint      `json:"workLogId"`
	Timestamp         time.Time `json:"timestamp"`
	TechnicianName    string    `json:"technicianName"`
	TicketID          uint      `json:"ticketId"`
	TicketDescription string    `json:"ticketDescription"`
	ActionTaken       string    `json:"actionTaken"`
	Remarks           string    `json:"remarks"`
}

// closedStatuses are the terminal ticket states; "open" means NOT IN this
// set.
var closedStatuses = []models.TicketStatus{models.TicketCompleted, models.TicketRejected}

// AdminStats returns the four headline counts for the admin dashboard.
func (p *Projector) AdminStats() (AdminStats, error) {
	var stats AdminStats
	if err := p.DB.Model(&models.Ticket{}).Count(&stats.TicketsRaised).Error; err != nil {
		return stats, err
	}
	if err := p.DB.Model(&models.Ticket{}).Where("status = ?", models.TicketCompleted).Count(&stats.BugsFixed).Error; err != nil {
		return stats, err
	}
	if err := p.DB.Model(&models.Ticket{}).Where("status = ?", models.TicketPending).Count(&stats.PendingApproval).Error; err != nil {
		return stats, err
	}
	if err := p.DB.Model(&models.Device{}).Where("status = ?", models.DeviceUnderMaintenance).Count(&stats.SystemsUnderMaintenance).Error; err != nil {
		return stats, err
	}
	return stats, nil
}

// OpenClosedStats returns the open-vs-closed ticket split.
func (p *Projector) OpenClosedStats() ([]ChartPoint, error) {
	var open, closed int64
	if err := p.DB.Model(&models.Ticket{}).Where("status NOT IN ?", closedStatuses).Count(&open).Error; err != nil {
		return nil, err
	}
	if err := p.DB.Model(&models.Ticket{}).Where("status = ?", models.TicketCompleted).Count(&closed).Error; err != nil {
		return nil, err
	}
	return []ChartPoint{
		{Name: "Open Tickets", Value: int(open)},
		{Name: "Closed Tickets", Value: int(closed)},
	}, nil
}

// MonthlyCompleted buckets tickets completed in the trailing twelve months by
// calendar month name. Buckets carry no year, so two Januaries a year apart
// land in the same bucket; callers get exactly twelve entries, January
// through December, zero-filled.
func (p *Projector) MonthlyCompleted(now time.Time) ([]ChartPoint, error) {
	cutoff := now.AddDate(0, -12, 0)

	var updatedAts []time.Time
	if err := p.DB.Model(&models.Ticket{}).
		Where("status = ? AND updated_at >= ?", models.TicketCompleted, cutoff).
		Pluck("updated_at", &updatedAts).Error; err != nil {
		return nil, err
	}

	counts := map[time.Month]int{}
	for _, ts := range updatedAts {
		counts[ts.Month()]++
	}

	out := make([]ChartPoint, 0, 12)
	for m := time.January; m <= time.December; m++ {
		out = append(out, ChartPoint{Name: m.String()[:3], Value: counts[m]})
	}
	return out, nil
}

// LabStats returns, per lab, the total and open ticket counts for tickets
// whose device belongs to that lab, plus the rounded open percentage.
func (p *Projector) LabStats() ([]LabStats, error) {
	var labs []models.Lab
	if err := p.DB.Order("lab_name ASC").Find(&labs).Error; err != nil {
		return nil, err
	}

	out := make([]LabStats, 0, len(labs))
	for _, lab := range labs {
		entry := LabStats{LabID: lab.ID, LabName: lab.LabName}

		if err := p.DB.Model(&models.Ticket{}).
			Joins("JOIN devices ON devices.id = tickets.device_id").
			Where("devices.lab_id = ?", lab.ID).
			Count(&entry.TotalTickets).Error; err != nil {
			return nil, err
		}
		if err := p.DB.Model(&models.Ticket{}).
			Joins("JOIN devices ON devices.id = tickets.device_id").
			Where("devices.lab_id = ? AND tickets.status NOT IN ?", lab.ID, closedStatuses).
			Count(&entry.OpenTickets).Error; err != nil {
			return nil, err
		}

		if entry.TotalTickets > 0 {
			entry.PercentageOpen = math.Round(float64(entry.OpenTickets) / float64(entry.TotalTickets) * 100)
		}
		out = append(out, entry)
	}
	return out, nil
}

// TechPerformance pivots the trailing-twelve-month work logs into one row
// per calendar month with one column per technician name, zero-filled.
func (p *Projector) TechPerformance(now time.Time) ([]map[string]interface{}, error) {
	cutoff := now.AddDate(0, -12, 0)

	type logRow struct {
		Timestamp time.Time
		Name      string
	}
	var rows []logRow
	if err := p.DB.Model(&models.WorkLog{}).
		Select("work_logs.timestamp, users.name").
		Joins("JOIN users ON users.id = work_logs.technician_id").
		Where("work_logs.timestamp >= ?", cutoff).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	techNames := []string{}
	seen := map[string]struct{}{}
	counts := map[time.Month]map[string]int{}
	for _, row := range rows {
		if _, ok := seen[row.Name]; !ok {
			seen[row.Name] = struct{}{}
			techNames = append(techNames, row.Name)
		}
		if counts[row.Timestamp.Month()] == nil {
			counts[row.Timestamp.Month()] = map[string]int{}
		}
		counts[row.Timestamp.Month()][row.Name]++
	}

	out := make([]map[string]interface{}, 0, 12)
	for m := time.January; m <= time.December; m++ {
		entry := map[string]interface{}{"month": m.String()[:3]}
		for _, name := range techNames {
			entry[name] = counts[m][name]
		}
		out = append(out, entry)
	}
	return out, nil
}

// UsageReport returns completed tickets grouped by lab plus the five most
// requested software names.
func (p *Projector) UsageReport() (UsageReport, error) {
	var report UsageReport

	if err := p.DB.Model(&models.Ticket{}).
		Select("labs.lab_name AS name, COUNT(*) AS value").
		Joins("JOIN devices ON devices.id = tickets.device_id").
		Joins("JOIN labs ON labs.id = devices.lab_id").
		Where("tickets.status = ?", models.TicketCompleted).
		Group("labs.lab_name").
		Order("value DESC").
		Scan(&report.TicketsResolvedPerLab).Error; err != nil {
		return report, err
	}

	if err := p.DB.Model(&models.SoftwareRequest{}).
		Select("software_name AS name, COUNT(*) AS value").
		Group("software_name").
		Order("value DESC").
		Limit(5).
		Scan(&report.TopSoftwareRequests).Error; err != nil {
		return report, err
	}

	if report.TicketsResolvedPerLab == nil {
		report.TicketsResolvedPerLab = []ChartPoint{}
	}
	if report.TopSoftwareRequests == nil {
		report.TopSoftwareRequests = []ChartPoint{}
	}
	return report, nil
}

// AuditTrail returns every work log, newest first, flattened with the
// technician name and the parent ticket description.
func (p *Projector) AuditTrail() ([]AuditLog, error) {
	var logs []AuditLog
	if err := p.DB.Model(&models.WorkLog{}).
		Select("work_logs.id AS work_log_id, work_logs.timestamp, users.name AS technician_name, work_logs.ticket_id, tickets.issue_description AS ticket_description, work_logs.action_taken, work_logs.remarks").
		Joins("JOIN users ON users.id = work_logs.technician_id").
		Joins("JOIN tickets ON tickets.id = work_logs.ticket_id").
		Order("work_logs.timestamp DESC").
		Scan(&logs).Error; err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []AuditLog{}
	}
	return logs, nil
}
