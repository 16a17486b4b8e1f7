package controllers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"gorm.io/gorm"

	"github.com/aakashdp/labadmin_backend/internal/models"
)

func userByEmail(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		t.Fatalf("load user %s: %v", email, err)
	}
	return user
}

func ticketByID(t *testing.T, db *gorm.DB, id uint) models.Ticket {
	t.Helper()
	var ticket models.Ticket
	if err := db.First(&ticket, id).Error; err != nil {
		t.Fatalf("load ticket %d: %v", id, err)
	}
	return ticket
}

func workLogCount(t *testing.T, db *gorm.DB, ticketID uint) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&models.WorkLog{}).Where("ticket_id = ?", ticketID).Count(&count).Error; err != nil {
		t.Fatalf("count work logs: %v", err)
	}
	return count
}

// TestTicketLifecycle walks the full happy path: a student reports an issue,
// the admin assigns it, the technician completes it with a work log, and the
// device then refuses deletion while the ticket references it.
func TestTicketLifecycle(t *testing.T) {
	r, db := newTestServer(t)

	adminToken := login(t, r, testAdminEmail, testAdminPassword)
	studentToken := registerUser(t, r, "Sam Student", "sam@example.com", models.RoleStudent)
	techToken := registerUser(t, r, "Tina Tech", "tina@example.com", models.RoleLabTech)
	tech := userByEmail(t, db, "tina@example.com")

	lab, device := seedLabAndDevice(t, db)

	// Student opens a ticket.
	w := doJSON(t, r, http.MethodPost, "/api/tickets", studentToken, map[string]interface{}{
		"deviceId": device.ID, "issueDescription": "screen flickers constantly",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create ticket: status %d, body %s", w.Code, w.Body.String())
	}
	created := decodeBody(t, w)
	ticketID := uint(created["ticketId"].(float64))
	if created["status"] != string(models.TicketPending) {
		t.Errorf("new ticket status = %v, want Pending", created["status"])
	}

	// Admin assigns it to the technician.
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/tickets/%d/assign", ticketID), adminToken, map[string]interface{}{
		"technicianId": tech.ID,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("assign: status %d, body %s", w.Code, w.Body.String())
	}
	ticket := ticketByID(t, db, ticketID)
	if ticket.Status != models.TicketAssigned {
		t.Errorf("status = %s, want Assigned", ticket.Status)
	}
	if ticket.AssignedTo == nil || *ticket.AssignedTo != tech.ID {
		t.Errorf("assignedTo = %v, want %d", ticket.AssignedTo, tech.ID)
	}

	// Technician sees it on their to-do list.
	w = doJSON(t, r, http.MethodGet, "/api/tickets/my-assigned", techToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("my-assigned: status %d", w.Code)
	}

	// Technician completes it; exactly one work log appears.
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/tickets/%d/tech-update", ticketID), techToken, map[string]interface{}{
		"newStatus": "Completed", "actionTaken": "Replaced monitor",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("tech-update: status %d, body %s", w.Code, w.Body.String())
	}
	ticket = ticketByID(t, db, ticketID)
	if ticket.Status != models.TicketCompleted {
		t.Errorf("status = %s, want Completed", ticket.Status)
	}
	if n := workLogCount(t, db, ticketID); n != 1 {
		t.Errorf("work logs = %d, want 1", n)
	}
	var entry models.WorkLog
	if err := db.Where("ticket_id = ?", ticketID).First(&entry).Error; err != nil {
		t.Fatalf("load work log: %v", err)
	}
	if entry.TechnicianID != tech.ID {
		t.Errorf("work log technician = %d, want %d", entry.TechnicianID, tech.ID)
	}

	// The device cannot be deleted while the ticket references it.
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/devices/%d", device.ID), adminToken, nil)
	if w.Code != http.StatusConflict {
		t.Errorf("device delete: status %d, want 409", w.Code)
	}
	var deviceCount int64
	db.Model(&models.Device{}).Where("id = ?", device.ID).Count(&deviceCount)
	if deviceCount != 1 {
		t.Error("device was deleted despite dependent ticket")
	}

	// And the lab cannot be deleted while the device references it.
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/labs/%d", lab.ID), adminToken, nil)
	if w.Code != http.StatusConflict {
		t.Errorf("lab delete: status %d, want 409", w.Code)
	}

	// A completed ticket accepts no further technician updates.
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/tickets/%d/tech-update", ticketID), techToken, map[string]interface{}{
		"newStatus": "InProgress", "actionTaken": "Reopening work",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("tech-update on completed: status %d, want 409", w.Code)
	}
	if n := workLogCount(t, db, ticketID); n != 1 {
		t.Errorf("work logs after rejected update = %d, want 1", n)
	}
}

func TestAssignRejectsNonTechnician(t *testing.T) {
	r, db := newTestServer(t)

	adminToken := login(t, r, testAdminEmail, testAdminPassword)
	studentToken := registerUser(t, r, "Sam Student", "sam@example.com", models.RoleStudent)
	student := userByEmail(t, db, "sam@example.com")

	_, device := seedLabAndDevice(t, db)

	w := doJSON(t, r, http.MethodPost, "/api/tickets", studentToken, map[string]interface{}{
		"deviceId": device.ID, "issueDescription": "keyboard missing keys",
	})
	ticketID := uint(decodeBody(t, w)["ticketId"].(float64))

	// Assigning to a student fails and leaves the ticket untouched.
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/tickets/%d/assign", ticketID), adminToken, map[string]interface{}{
		"technicianId": student.ID,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("assign to student: status %d, want 400", w.Code)
	}
	ticket := ticketByID(t, db, ticketID)
	if ticket.Status != models.TicketPending {
		t.Errorf("status = %s, want Pending", ticket.Status)
	}
	if ticket.AssignedTo != nil {
		t.Errorf("assignedTo = %v, want nil", ticket.AssignedTo)
	}

	// Same for a technician id that does not exist.
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/tickets/%d/assign", ticketID), adminToken, map[string]interface{}{
		"technicianId": 9999,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("assign to missing user: status %d, want 400", w.Code)
	}

	// Missing ticket is a 404, not a validation error.
	registerUser(t, r, "Tina Tech", "tina@example.com", models.RoleLabTech)
	techUser := userByEmail(t, db, "tina@example.com")
	w = doJSON(t, r, http.MethodPut, "/api/tickets/9999/assign", adminToken, map[string]interface{}{
		"technicianId": techUser.ID,
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("assign missing ticket: status %d, want 404", w.Code)
	}
}

func TestTechUpdateOwnershipAndValidation(t *testing.T) {
	r, db := newTestServer(t)

	adminToken := login(t, r, testAdminEmail, testAdminPassword)
	studentToken := registerUser(t, r, "Sam Student", "sam@example.com", models.RoleStudent)
	techToken := registerUser(t, r, "Tina Tech", "tina@example.com", models.RoleLabTech)
	otherTechToken := registerUser(t, r, "Omar Tech", "omar@example.com", models.RoleLabTech)
	tech := userByEmail(t, db, "tina@example.com")

	_, device := seedLabAndDevice(t, db)

	w := doJSON(t, r, http.MethodPost, "/api/tickets", studentToken, map[string]interface{}{
		"deviceId": device.ID, "issueDescription": "no network connection",
	})
	ticketID := uint(decodeBody(t, w)["ticketId"].(float64))
	doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/tickets/%d/assign", ticketID), adminToken, map[string]interface{}{
		"technicianId": tech.ID,
	})

	path := fmt.Sprintf("/api/tickets/%d/tech-update", ticketID)

	// Another technician gets a forbidden outcome, not a validation error,
	// and no work log is written.
	w = doJSON(t, r, http.MethodPut, path, otherTechToken, map[string]interface{}{
		"newStatus": "Completed", "actionTaken": "Replaced cable",
	})
	if w.Code != http.StatusForbidden {
		t.Errorf("foreign tech update: status %d, want 403", w.Code)
	}
	if n := workLogCount(t, db, ticketID); n != 0 {
		t.Errorf("work logs = %d, want 0", n)
	}

	// The assignee with a too-short action text is rejected with no write.
	w = doJSON(t, r, http.MethodPut, path, techToken, map[string]interface{}{
		"newStatus": "Completed", "actionTaken": "ok",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("short action: status %d, want 400", w.Code)
	}
	if n := workLogCount(t, db, ticketID); n != 0 {
		t.Errorf("work logs = %d, want 0", n)
	}

	// Unknown status value is rejected.
	w = doJSON(t, r, http.MethodPut, path, techToken, map[string]interface{}{
		"newStatus": "Fixed", "actionTaken": "Replaced cable",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown status: status %d, want 400", w.Code)
	}
	if ticketByID(t, db, ticketID).Status != models.TicketAssigned {
		t.Error("ticket status changed by rejected update")
	}

	// Two-step path: InProgress first, then Completed, one log each.
	w = doJSON(t, r, http.MethodPut, path, techToken, map[string]interface{}{
		"newStatus": "InProgress", "actionTaken": "Testing with a new cable",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("to in-progress: status %d, body %s", w.Code, w.Body.String())
	}
	w = doJSON(t, r, http.MethodPut, path, techToken, map[string]interface{}{
		"newStatus": "Completed", "actionTaken": "Replaced faulty cable", "remarks": "patch panel port 12",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("to completed: status %d, body %s", w.Code, w.Body.String())
	}
	if n := workLogCount(t, db, ticketID); n != 2 {
		t.Errorf("work logs = %d, want 2", n)
	}
}

func TestTicketRoleGates(t *testing.T) {
	r, db := newTestServer(t)

	adminToken := login(t, r, testAdminEmail, testAdminPassword)
	studentToken := registerUser(t, r, "Sam Student", "sam@example.com", models.RoleStudent)
	techToken := registerUser(t, r, "Tina Tech", "tina@example.com", models.RoleLabTech)

	_, device := seedLabAndDevice(t, db)
	tech := userByEmail(t, db, "tina@example.com")

	// Students cannot see the full ticket list.
	if w := doJSON(t, r, http.MethodGet, "/api/tickets", studentToken, nil); w.Code != http.StatusForbidden {
		t.Errorf("student lists tickets: status %d, want 403", w.Code)
	}
	// Technicians cannot create tickets.
	if w := doJSON(t, r, http.MethodPost, "/api/tickets", techToken, map[string]interface{}{
		"deviceId": device.ID, "issueDescription": "self-reported issue",
	}); w.Code != http.StatusForbidden {
		t.Errorf("tech creates ticket: status %d, want 403", w.Code)
	}
	// The assigned-tickets view belongs to technicians only.
	if w := doJSON(t, r, http.MethodGet, "/api/tickets/my-assigned", adminToken, nil); w.Code != http.StatusForbidden {
		t.Errorf("admin my-assigned: status %d, want 403", w.Code)
	}
	// Technicians cannot assign.
	if w := doJSON(t, r, http.MethodPut, "/api/tickets/1/assign", techToken, map[string]interface{}{
		"technicianId": tech.ID,
	}); w.Code != http.StatusForbidden {
		t.Errorf("tech assigns: status %d, want 403", w.Code)
	}
	// Admins cannot use the technician update path.
	if w := doJSON(t, r, http.MethodPut, "/api/tickets/1/tech-update", adminToken, map[string]interface{}{
		"newStatus": "Completed", "actionTaken": "Admin override",
	}); w.Code != http.StatusForbidden {
		t.Errorf("admin tech-update: status %d, want 403", w.Code)
	}
}

func TestMyRequestsScoping(t *testing.T) {
	r, db := newTestServer(t)

	studentToken := registerUser(t, r, "Sam Student", "sam@example.com", models.RoleStudent)
	teacherToken := registerUser(t, r, "Priya Teacher", "priya@example.com", models.RoleTeacher)

	_, device := seedLabAndDevice(t, db)

	doJSON(t, r, http.MethodPost, "/api/tickets", studentToken, map[string]interface{}{
		"deviceId": device.ID, "issueDescription": "mouse not working",
	})
	doJSON(t, r, http.MethodPost, "/api/tickets", teacherToken, map[string]interface{}{
		"deviceId": device.ID, "issueDescription": "projector misaligned",
	})

	w := doJSON(t, r, http.MethodGet, "/api/tickets/my-requests", studentToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("my-requests: status %d", w.Code)
	}
	var list []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("unmarshal list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("student sees %d tickets, want 1", len(list))
	}
	if list[0]["issueDescription"] != "mouse not working" {
		t.Errorf("wrong ticket in scope: %v", list[0])
	}
}
